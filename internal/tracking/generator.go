package tracking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lojavirtual/marketplace/internal/catalog"
	"github.com/lojavirtual/marketplace/internal/customer"
	"github.com/lojavirtual/marketplace/internal/order/domain"
	"github.com/lojavirtual/marketplace/internal/order/repository"
	"github.com/lojavirtual/marketplace/pkg/qrcode"
	"golang.org/x/sync/singleflight"
)

const qrSize = 400

// Generator issues tracking codes and renders their label images. Labels
// are rendered once into the blob store; DownloadImage regenerates a
// missing image from the stored content.
type Generator struct {
	repo      Repository
	orders    repository.OrderRepository
	catalog   catalog.Catalog
	customers customer.Directory
	addresses customer.AddressBook
	encoder   qrcode.Encoder
	store     BlobStore
	sfg       singleflight.Group
}

func NewGenerator(
	repo Repository,
	orders repository.OrderRepository,
	cat catalog.Catalog,
	customers customer.Directory,
	addresses customer.AddressBook,
	encoder qrcode.Encoder,
	store BlobStore,
) *Generator {
	return &Generator{
		repo:      repo,
		orders:    orders,
		catalog:   cat,
		customers: customers,
		addresses: addresses,
		encoder:   encoder,
		store:     store,
	}
}

// FormatCode is the tracking code layout: order number plus line number.
func FormatCode(orderID, lineID int64) string {
	return fmt.Sprintf("ORD%04d-LINE%03d", orderID, lineID)
}

// Generate issues the tracking code for one order line. A line carries at
// most one code; generating twice returns ErrAlreadyGenerated.
func (g *Generator) Generate(ctx context.Context, orderID, lineID int64) (*Code, error) {
	if _, err := g.repo.GetByLine(ctx, lineID); err == nil {
		return nil, ErrAlreadyGenerated
	} else if !errors.Is(err, ErrCodeNotFound) {
		return nil, err
	}

	order, err := g.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	line := findLine(order, lineID)
	if line == nil {
		return nil, fmt.Errorf("order %d has no line %d", orderID, lineID)
	}

	product, err := g.catalog.GetProduct(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	supplier, err := g.catalog.GetSupplier(ctx, line.SupplierID)
	if err != nil {
		return nil, err
	}
	cust, err := g.customers.GetCustomer(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}
	address, err := g.addresses.GetByID(ctx, order.AddressID)
	if err != nil {
		return nil, err
	}

	code := &Code{
		OrderID: orderID,
		LineID:  lineID,
		Code:    FormatCode(orderID, lineID),
	}
	code.Content = buildContent(labelInput{
		Code:     code.Code,
		OrderID:  orderID,
		LineID:   lineID,
		Status:   order.Status.String(),
		Product:  product,
		Quantity: line.Quantity,
		Supplier: supplier,
		Customer: cust,
		Address:  address,
		IssuedAt: time.Now(),
	})

	png, err := g.encoder.EncodePNG(code.Content, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode label qr code: %w", err)
	}
	code.QRCode = qrcode.DataURI(png)

	if err := g.repo.Create(ctx, code); err != nil {
		return nil, err
	}

	if err := g.store.Put(ctx, code.Code, png); err != nil {
		// The code row holds the content; the image is rendered again on
		// the first download.
		log.Printf("failed to store label image for %s: %v", code.Code, err)
	}
	return code, nil
}

// GenerateForLine is the checkout-facing form: just the code string. A line
// that already has a code gets the same code back.
func (g *Generator) GenerateForLine(ctx context.Context, orderID, lineID int64) (string, error) {
	code, err := g.Generate(ctx, orderID, lineID)
	if errors.Is(err, ErrAlreadyGenerated) {
		existing, getErr := g.repo.GetByLine(ctx, lineID)
		if getErr != nil {
			return "", getErr
		}
		return existing.Code, nil
	}
	if err != nil {
		return "", err
	}
	return code.Code, nil
}

// GetByCode is the public lookup: the full label record for one tracking
// code.
func (g *Generator) GetByCode(ctx context.Context, codeStr string) (*Code, error) {
	return g.repo.GetByCode(ctx, codeStr)
}

// ListForOrder returns every label issued for the order's lines.
func (g *Generator) ListForOrder(ctx context.Context, orderID int64) ([]*Code, error) {
	return g.repo.ListByOrder(ctx, orderID)
}

// CodesForOrder maps line id to tracking code for every labeled line of the
// order.
func (g *Generator) CodesForOrder(ctx context.Context, orderID int64) (map[int64]string, error) {
	codes, err := g.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(codes))
	for _, c := range codes {
		out[c.LineID] = c.Code
	}
	return out, nil
}

// DownloadImage returns the label PNG for a tracking code, rendering it on
// demand when the store has no copy. Concurrent downloads of the same
// missing image render it once.
func (g *Generator) DownloadImage(ctx context.Context, codeStr string) ([]byte, error) {
	png, err := g.store.Get(ctx, codeStr)
	if err == nil {
		return png, nil
	}
	if !errors.Is(err, ErrBlobNotFound) {
		return nil, err
	}

	v, err, _ := g.sfg.Do(codeStr, func() (interface{}, error) {
		code, err := g.repo.GetByCode(ctx, codeStr)
		if err != nil {
			return nil, err
		}
		return g.renderImage(ctx, code)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (g *Generator) renderImage(ctx context.Context, code *Code) ([]byte, error) {
	png, err := g.encoder.EncodePNG(code.Content, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode label qr code: %w", err)
	}
	if err := g.store.Put(ctx, code.Code, png); err != nil {
		return nil, err
	}
	return png, nil
}

func findLine(order *domain.Order, lineID int64) *domain.OrderLine {
	for i := range order.Lines {
		if order.Lines[i].ID == lineID {
			return &order.Lines[i]
		}
	}
	return nil
}
