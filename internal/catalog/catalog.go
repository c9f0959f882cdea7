package catalog

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrSupplierNotFound = errors.New("supplier not found")
)

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	SupplierID  int64
}

type Supplier struct {
	ID    int64
	Name  string
	TaxID string
	Phone string
	State string
}

// Catalog is the read-side of the product catalog. The catalog subsystem
// owns writes; this core only resolves products and suppliers by id.
type Catalog interface {
	GetProduct(ctx context.Context, productID int64) (*Product, error)
	GetSupplier(ctx context.Context, supplierID int64) (*Supplier, error)
}
