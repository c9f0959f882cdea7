package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PostgresCatalog struct {
	db *sql.DB
}

func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

func (c *PostgresCatalog) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	query := `SELECT id, name, description, price, supplier_id FROM products WHERE id = $1`

	var p Product
	err := c.db.QueryRowContext(ctx, query, productID).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.SupplierID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return &p, nil
}

func (c *PostgresCatalog) GetSupplier(ctx context.Context, supplierID int64) (*Supplier, error) {
	query := `SELECT id, name, tax_id, phone, state FROM suppliers WHERE id = $1`

	var s Supplier
	err := c.db.QueryRowContext(ctx, query, supplierID).Scan(
		&s.ID,
		&s.Name,
		&s.TaxID,
		&s.Phone,
		&s.State,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSupplierNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query supplier by id: %w", err)
	}
	return &s, nil
}
