package payment

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, pix *Pix) error
	GetByOrderID(ctx context.Context, orderID int64) (*Pix, error)
	UpdateStatus(ctx context.Context, paymentID int64, status Status, confirmedAt *time.Time) error
}
