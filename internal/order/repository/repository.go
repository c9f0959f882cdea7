package repository

import (
	"context"
	"errors"

	"github.com/lojavirtual/marketplace/internal/order/domain"
	"github.com/lojavirtual/marketplace/internal/outbox"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository persists order aggregates. Create writes the order.created
// outbox event in the same transaction once the generated id is known, and
// UpdateStatus takes an optional event for the same reason: a state change
// and its event cannot diverge.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, orderID int64) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error)
	ListBySupplier(ctx context.Context, supplierID int64) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus, event *outbox.Event) error
}
