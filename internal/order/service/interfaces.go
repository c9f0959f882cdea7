package service

import (
	"context"

	cartdomain "github.com/lojavirtual/marketplace/internal/cart/domain"
	"github.com/shopspring/decimal"
)

// CartAccessor is the slice of the cart service checkout needs: read the
// cart to freeze it into order lines, clear it after the order commits.
type CartAccessor interface {
	GetCart(ctx context.Context, customerID int64) (*cartdomain.Cart, error)
	ClearCart(ctx context.Context, customerID int64) error
}

// PixGenerator creates the payment artifact for a pix order. A failure here
// aborts checkout: the service compensates stock and cancels the order.
type PixGenerator interface {
	GenerateForOrder(ctx context.Context, orderID int64, total decimal.Decimal) error
	CancelForOrder(ctx context.Context, orderID int64) error
}

// TrackingGenerator issues one tracking code per order line. Generation is
// best effort at checkout; codes can be regenerated later.
type TrackingGenerator interface {
	GenerateForLine(ctx context.Context, orderID, lineID int64) (string, error)
	CodesForOrder(ctx context.Context, orderID int64) (map[int64]string, error)
}
