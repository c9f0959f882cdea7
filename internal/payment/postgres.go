package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, pix *Pix) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO pix_payments (order_id, tx_id, amount, payload, qr_code, status, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 RETURNING id, created_at`,
		pix.OrderID,
		pix.TxID,
		pix.Amount,
		pix.Payload,
		pix.QRCode,
		pix.Status,
		pix.ExpiresAt,
	).Scan(&pix.ID, &pix.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert pix payment: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByOrderID(ctx context.Context, orderID int64) (*Pix, error) {
	query := `SELECT id, order_id, tx_id, amount, payload, qr_code, status, expires_at, created_at, confirmed_at
	          FROM pix_payments WHERE order_id = $1
	          ORDER BY created_at DESC LIMIT 1`

	var pix Pix
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&pix.ID,
		&pix.OrderID,
		&pix.TxID,
		&pix.Amount,
		&pix.Payload,
		&pix.QRCode,
		&pix.Status,
		&pix.ExpiresAt,
		&pix.CreatedAt,
		&pix.ConfirmedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query pix payment: %w", err)
	}
	return &pix, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, paymentID int64, status Status, confirmedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pix_payments SET status = $2, confirmed_at = $3 WHERE id = $1`,
		paymentID, status, confirmedAt)
	if err != nil {
		return fmt.Errorf("update pix payment status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update pix payment status: %w", err)
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
