package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lojavirtual/marketplace/pkg/qrcode"
	"github.com/shopspring/decimal"
)

const (
	// Default payment window. A pix charge not confirmed within it expires
	// and the order can be canceled.
	defaultWindow = 15 * time.Minute

	qrSize = 350

	maxConfirmAttempts   = 5
	confirmAttemptWindow = time.Minute
)

// OrderMarker is the order-side hook the payment service calls when a
// payment is confirmed.
type OrderMarker interface {
	MarkPaid(ctx context.Context, orderID int64) error
}

type Service struct {
	repo    Repository
	orders  OrderMarker
	encoder qrcode.Encoder
	cfg     Config
	limiter *attemptLimiter
}

func NewService(repo Repository, orders OrderMarker, encoder qrcode.Encoder, cfg Config) *Service {
	if cfg.Window <= 0 {
		cfg.Window = defaultWindow
	}
	return &Service{
		repo:    repo,
		orders:  orders,
		encoder: encoder,
		cfg:     cfg,
		limiter: newAttemptLimiter(maxConfirmAttempts, confirmAttemptWindow),
	}
}

// GenerateForOrder creates the pix artifact for an order. It is idempotent:
// a live payment for the same order is returned as is, so a retried
// checkout does not issue a second charge.
func (s *Service) GenerateForOrder(ctx context.Context, orderID int64, total decimal.Decimal) error {
	_, err := s.Generate(ctx, orderID, total)
	return err
}

func (s *Service) Generate(ctx context.Context, orderID int64, total decimal.Decimal) (*Pix, error) {
	existing, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil && !errors.Is(err, ErrPaymentNotFound) {
		return nil, err
	}
	if existing != nil && (existing.Status == StatusPending || existing.Status == StatusConfirmed) {
		return existing, nil
	}

	txID := fmt.Sprintf("ORDER%06d", orderID)
	payload := BuildPayload(s.cfg, txID, total)

	png, err := s.encoder.EncodePNG(payload, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode pix qr code: %w", err)
	}

	pix := &Pix{
		OrderID:   orderID,
		TxID:      txID,
		Amount:    total,
		Payload:   payload,
		QRCode:    qrcode.DataURI(png),
		Status:    StatusPending,
		ExpiresAt: time.Now().Add(s.cfg.Window),
	}
	if err := s.repo.Create(ctx, pix); err != nil {
		return nil, fmt.Errorf("persist pix payment: %w", err)
	}
	return pix, nil
}

// Confirm settles a pending pix payment and marks the order paid. The txid
// must match the one embedded in the charge. The order transition runs
// first: if the order can no longer accept payment the payment stays
// pending.
func (s *Service) Confirm(ctx context.Context, orderID int64, txID string) (*Pix, error) {
	if !s.limiter.allow(orderID) {
		return nil, ErrTooManyAttempts
	}

	pix, err := s.getFresh(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if txID != pix.TxID {
		return nil, ErrTxIDMismatch
	}

	switch pix.Status {
	case StatusConfirmed:
		return nil, ErrAlreadyConfirmed
	case StatusExpired:
		return nil, ErrPaymentExpired
	case StatusCanceled:
		return nil, ErrPaymentCanceled
	}

	if err := s.orders.MarkPaid(ctx, orderID); err != nil {
		return nil, fmt.Errorf("mark order %d paid: %w", orderID, err)
	}

	now := time.Now()
	if err := s.repo.UpdateStatus(ctx, pix.ID, StatusConfirmed, &now); err != nil {
		// The order is already PAID; the payment row is behind. Surface
		// the error so the caller retries; MarkPaid tolerates the paid
		// order on the retry and only this write runs again.
		return nil, fmt.Errorf("persist pix confirmation: %w", err)
	}
	pix.Status = StatusConfirmed
	pix.ConfirmedAt = &now
	return pix, nil
}

// CheckStatus returns the payment, flipping it to EXPIRED first when the
// window has passed.
func (s *Service) CheckStatus(ctx context.Context, orderID int64) (*Pix, error) {
	return s.getFresh(ctx, orderID)
}

// CancelForOrder voids a pending payment when its order is canceled.
// Missing or already settled payments are left alone.
func (s *Service) CancelForOrder(ctx context.Context, orderID int64) error {
	pix, err := s.repo.GetByOrderID(ctx, orderID)
	if errors.Is(err, ErrPaymentNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if pix.Status != StatusPending {
		return nil
	}
	return s.repo.UpdateStatus(ctx, pix.ID, StatusCanceled, nil)
}

// getFresh loads the payment and persists lazy expiry. Expiry is decided by
// the clock at read time, not by a background sweeper.
func (s *Service) getFresh(ctx context.Context, orderID int64) (*Pix, error) {
	pix, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if pix.ExpiredByClock(time.Now()) {
		if err := s.repo.UpdateStatus(ctx, pix.ID, StatusExpired, nil); err != nil {
			log.Printf("failed to persist pix expiry for order %d: %v", orderID, err)
		}
		pix.Status = StatusExpired
	}
	return pix, nil
}
