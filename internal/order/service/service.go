package service

import (
	"github.com/lojavirtual/marketplace/internal/catalog"
	"github.com/lojavirtual/marketplace/internal/customer"
	"github.com/lojavirtual/marketplace/internal/inventory"
	"github.com/lojavirtual/marketplace/internal/order/repository"
)

// OrderService orchestrates checkout: it freezes the cart into an order,
// reserves stock, creates payment artifacts and drives the status machine.
// It owns compensation when a later step fails.
type OrderService struct {
	repo        repository.OrderRepository
	carts       CartAccessor
	catalog     catalog.Catalog
	ledger      inventory.StockLedger
	addresses   customer.AddressBook
	instruments customer.InstrumentBook
	tracking    TrackingGenerator
	pix         PixGenerator
}

func NewOrderService(
	repo repository.OrderRepository,
	carts CartAccessor,
	cat catalog.Catalog,
	ledger inventory.StockLedger,
	addresses customer.AddressBook,
	instruments customer.InstrumentBook,
	tracking TrackingGenerator,
) *OrderService {
	return &OrderService{
		repo:        repo,
		carts:       carts,
		catalog:     cat,
		ledger:      ledger,
		addresses:   addresses,
		instruments: instruments,
		tracking:    tracking,
	}
}

// SetPixGenerator wires the payment side after construction. The payment
// service needs the order service to mark orders paid, so the two are
// connected once both exist.
func (s *OrderService) SetPixGenerator(pix PixGenerator) {
	s.pix = pix
}
