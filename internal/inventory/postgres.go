package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) GetAvailable(ctx context.Context, productID int64) (int, error) {
	var stock int
	err := l.db.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query stock: %w", err)
	}
	return stock, nil
}

func (l *PostgresLedger) Adjust(ctx context.Context, productID int64, delta int) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE products SET stock = stock + $2 WHERE id = $1`, productID, delta)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Reserve decrements every item in one transaction. The decrement is
// conditional on remaining stock, so two concurrent reservations for the
// same product cannot both pass: the row lock serializes them and the
// loser's WHERE clause no longer matches.
func (l *PostgresLedger) Reserve(ctx context.Context, items []Reservation) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reserve tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, item := range items {
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2`,
			item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("reserve stock: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("reserve stock: %w", err)
		}
		if affected == 0 {
			var available int
			scanErr := tx.QueryRowContext(ctx,
				`SELECT stock FROM products WHERE id = $1`, item.ProductID).Scan(&available)
			if errors.Is(scanErr, sql.ErrNoRows) {
				return ErrProductNotFound
			}
			if scanErr != nil {
				return fmt.Errorf("reserve stock: %w", scanErr)
			}
			return &InsufficientStockError{
				ProductID: item.ProductID,
				Available: available,
				Requested: item.Quantity,
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reserve tx: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Release(ctx context.Context, items []Reservation) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin release tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, item := range items {
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock + $2 WHERE id = $1`,
			item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("release stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit release tx: %w", err)
	}
	return nil
}
