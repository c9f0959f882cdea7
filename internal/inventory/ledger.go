package inventory

import (
	"context"
	"errors"
	"fmt"
)

var ErrProductNotFound = errors.New("product not found in stock ledger")

// InsufficientStockError names the product and both quantities so callers can
// explain the failure without another lookup.
type InsufficientStockError struct {
	ProductID int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// Reservation is one product/quantity pair inside a stock operation.
type Reservation struct {
	ProductID int64
	Quantity  int
}

// StockLedger is the inventory-count service the order core reserves
// against. Reserve is a single atomic conditional decrement across all
// items: it either applies fully or not at all, and its failure is the
// insufficient-stock answer. There is no separate check-then-write gap.
type StockLedger interface {
	GetAvailable(ctx context.Context, productID int64) (int, error)
	Adjust(ctx context.Context, productID int64, delta int) error
	Reserve(ctx context.Context, items []Reservation) error
	Release(ctx context.Context, items []Reservation) error
}
