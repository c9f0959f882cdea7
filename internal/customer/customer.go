package customer

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrAddressNotFound    = errors.New("address not found")
	ErrInstrumentNotFound = errors.New("payment instrument not found")
)

type Customer struct {
	ID         int64
	Name       string
	NationalID string
	Phone      string
}

type Address struct {
	ID         int64
	CustomerID int64
	Street     string
	Number     string
	District   string
	City       string
	State      string
	ZipCode    string
	IsDefault  bool
}

// Full returns the single-line form used on shipping labels.
func (a *Address) Full() string {
	return a.Street + ", " + a.Number + " - " + a.District + ", " + a.City + "/" + a.State + " - " + a.ZipCode
}

type Instrument struct {
	ID         int64
	CustomerID int64
	Brand      string
	LastDigits string
	ExpiresAt  time.Time
	IsDefault  bool
}

// Expired reports whether the card is past its expiry month.
func (i *Instrument) Expired() bool {
	return time.Now().After(i.ExpiresAt)
}

type Directory interface {
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
}

// AddressBook resolves a customer's delivery addresses. Ownership is the
// caller's concern: GetByID returns whatever address matches, and the
// returned CustomerID tells the caller who owns it.
type AddressBook interface {
	GetDefault(ctx context.Context, customerID int64) (*Address, error)
	GetByID(ctx context.Context, addressID int64) (*Address, error)
}

type InstrumentBook interface {
	GetDefault(ctx context.Context, customerID int64) (*Instrument, error)
	GetByID(ctx context.Context, instrumentID int64) (*Instrument, error)
}
