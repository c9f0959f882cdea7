package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresBook implements Directory, AddressBook and InstrumentBook over the
// shared relational store.
type PostgresBook struct {
	db *sql.DB
}

func NewPostgresBook(db *sql.DB) *PostgresBook {
	return &PostgresBook{db: db}
}

func (b *PostgresBook) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	query := `SELECT id, name, national_id, phone FROM customers WHERE id = $1`

	var c Customer
	err := b.db.QueryRowContext(ctx, query, customerID).Scan(&c.ID, &c.Name, &c.NationalID, &c.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query customer by id: %w", err)
	}
	return &c, nil
}

func (b *PostgresBook) GetDefault(ctx context.Context, customerID int64) (*Address, error) {
	query := `SELECT id, customer_id, street, number, district, city, state, zip_code, is_default
	          FROM addresses WHERE customer_id = $1 AND is_default = TRUE`

	return b.scanAddress(b.db.QueryRowContext(ctx, query, customerID))
}

func (b *PostgresBook) GetByID(ctx context.Context, addressID int64) (*Address, error) {
	query := `SELECT id, customer_id, street, number, district, city, state, zip_code, is_default
	          FROM addresses WHERE id = $1`

	return b.scanAddress(b.db.QueryRowContext(ctx, query, addressID))
}

func (b *PostgresBook) scanAddress(row *sql.Row) (*Address, error) {
	var a Address
	err := row.Scan(&a.ID, &a.CustomerID, &a.Street, &a.Number, &a.District, &a.City, &a.State, &a.ZipCode, &a.IsDefault)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query address: %w", err)
	}
	return &a, nil
}

// Instruments returns the InstrumentBook view of the same store. Kept as a
// separate receiver so wiring reads naturally in main.
func (b *PostgresBook) Instruments() *PostgresInstrumentBook {
	return &PostgresInstrumentBook{db: b.db}
}

type PostgresInstrumentBook struct {
	db *sql.DB
}

func (b *PostgresInstrumentBook) GetDefault(ctx context.Context, customerID int64) (*Instrument, error) {
	query := `SELECT id, customer_id, brand, last_digits, expires_at, is_default
	          FROM payment_instruments WHERE customer_id = $1 AND is_default = TRUE`

	return b.scanInstrument(b.db.QueryRowContext(ctx, query, customerID))
}

func (b *PostgresInstrumentBook) GetByID(ctx context.Context, instrumentID int64) (*Instrument, error) {
	query := `SELECT id, customer_id, brand, last_digits, expires_at, is_default
	          FROM payment_instruments WHERE id = $1`

	return b.scanInstrument(b.db.QueryRowContext(ctx, query, instrumentID))
}

func (b *PostgresInstrumentBook) scanInstrument(row *sql.Row) (*Instrument, error) {
	var i Instrument
	err := row.Scan(&i.ID, &i.CustomerID, &i.Brand, &i.LastDigits, &i.ExpiresAt, &i.IsDefault)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInstrumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query payment instrument: %w", err)
	}
	return &i, nil
}
