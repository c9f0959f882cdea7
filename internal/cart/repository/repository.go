package repository

import (
	"context"
	"errors"

	"github.com/lojavirtual/marketplace/internal/cart/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")
)

// CartRepository defines the interface for cart data operations
// Consumers define this interface, not the MongoDB implementation
type CartRepository interface {
	GetCart(ctx context.Context, customerID int64) (*domain.Cart, error)
	SetItem(ctx context.Context, customerID int64, item domain.CartItem) error
	UpdateItemQuantity(ctx context.Context, customerID int64, productID int64, quantity int) error
	RemoveItem(ctx context.Context, customerID int64, productID int64) error
	ClearCart(ctx context.Context, customerID int64) error
}
