package tracking

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCodeNotFound     = errors.New("tracking code not found")
	ErrAlreadyGenerated = errors.New("tracking code already generated for line")
)

// Code is the shipping label for one order line: the human-readable code,
// the label text its QR image encodes, and an inline copy of the image.
type Code struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	LineID    int64     `json:"line_id"`
	Code      string    `json:"code"`
	Content   string    `json:"content"`
	QRCode    string    `json:"qr_code"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, code *Code) error
	GetByLine(ctx context.Context, lineID int64) (*Code, error)
	GetByCode(ctx context.Context, code string) (*Code, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*Code, error)
}
