package service

import "errors"

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidPayment      = errors.New("invalid payment method")
	ErrNoDefaultAddress    = errors.New("customer has no default address")
	ErrNoDefaultInstrument = errors.New("customer has no default payment instrument")
	ErrInstrumentExpired   = errors.New("payment instrument is expired")
	ErrForbidden           = errors.New("resource belongs to another customer")
)
