package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusExpired   Status = "EXPIRED"
	StatusCanceled  Status = "CANCELED"
)

// Pix is the payment artifact for a pix order: the EMV copy-and-paste
// payload, its QR image as a data URI, and a 15 minute payment window.
type Pix struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	TxID        string          `json:"tx_id"`
	Amount      decimal.Decimal `json:"amount"`
	Payload     string          `json:"payload"`
	QRCode      string          `json:"qr_code"`
	Status      Status          `json:"status"`
	ExpiresAt   time.Time       `json:"expires_at"`
	CreatedAt   time.Time       `json:"created_at"`
	ConfirmedAt *time.Time      `json:"confirmed_at,omitempty"`
}

// ExpiredByClock reports whether a still-pending payment is past its window.
// The stored status lags the clock; readers call this to decide whether to
// flip it.
func (p *Pix) ExpiredByClock(now time.Time) bool {
	return p.Status == StatusPending && now.After(p.ExpiresAt)
}
