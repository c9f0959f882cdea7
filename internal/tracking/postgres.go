package tracking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, code *Code) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tracking_codes (order_id, line_id, code, content, qr_code, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING id, created_at`,
		code.OrderID,
		code.LineID,
		code.Code,
		code.Content,
		code.QRCode,
	).Scan(&code.ID, &code.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert tracking code: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByLine(ctx context.Context, lineID int64) (*Code, error) {
	return r.get(ctx, `SELECT id, order_id, line_id, code, content, qr_code, created_at
	                   FROM tracking_codes WHERE line_id = $1`, lineID)
}

func (r *PostgresRepository) GetByCode(ctx context.Context, codeStr string) (*Code, error) {
	return r.get(ctx, `SELECT id, order_id, line_id, code, content, qr_code, created_at
	                   FROM tracking_codes WHERE code = $1`, codeStr)
}

func (r *PostgresRepository) get(ctx context.Context, query string, arg any) (*Code, error) {
	var code Code
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&code.ID,
		&code.OrderID,
		&code.LineID,
		&code.Code,
		&code.Content,
		&code.QRCode,
		&code.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query tracking code: %w", err)
	}
	return &code, nil
}

func (r *PostgresRepository) ListByOrder(ctx context.Context, orderID int64) ([]*Code, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, line_id, code, content, qr_code, created_at
		 FROM tracking_codes WHERE order_id = $1 ORDER BY line_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query tracking codes: %w", err)
	}
	defer rows.Close()

	var codes []*Code
	for rows.Next() {
		var code Code
		if err := rows.Scan(
			&code.ID,
			&code.OrderID,
			&code.LineID,
			&code.Code,
			&code.Content,
			&code.QRCode,
			&code.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tracking code row: %w", err)
		}
		codes = append(codes, &code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return codes, nil
}
