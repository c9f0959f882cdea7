package payment

import "errors"

var (
	ErrPaymentNotFound  = errors.New("pix payment not found")
	ErrAlreadyConfirmed = errors.New("pix payment already confirmed")
	ErrPaymentExpired   = errors.New("pix payment expired")
	ErrPaymentCanceled  = errors.New("pix payment canceled")
	ErrTxIDMismatch     = errors.New("txid does not match payment")
	ErrTooManyAttempts  = errors.New("too many confirmation attempts")
)
