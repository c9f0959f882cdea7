package service

import (
	"context"
	"errors"
	"time"

	cartdomain "github.com/lojavirtual/marketplace/internal/cart/domain"
	"github.com/lojavirtual/marketplace/internal/catalog"
	"github.com/lojavirtual/marketplace/internal/customer"
	"github.com/lojavirtual/marketplace/internal/order/domain"
	"github.com/lojavirtual/marketplace/internal/order/repository"
	"github.com/lojavirtual/marketplace/internal/outbox"
	"github.com/shopspring/decimal"
)

type mockOrderRepo struct {
	orders     map[int64]*domain.Order
	nextID     int64
	nextLineID int64
	events     []*outbox.Event
	createErr  error
	updateErr  error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[int64]*domain.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *domain.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	order.ID = m.nextID
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	for i := range order.Lines {
		m.nextLineID++
		order.Lines[i].ID = m.nextLineID
		order.Lines[i].OrderID = order.ID
	}
	m.orders[order.ID] = order
	event, err := outbox.NewOrderEvent(outbox.EventOrderCreated, order.ID, order.CustomerID, order.Status.String(), order.Total)
	if err != nil {
		return err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, orderID int64) (*domain.Order, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepo) ListByCustomer(_ context.Context, customerID int64) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range m.orders {
		if order.CustomerID == customerID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListBySupplier(_ context.Context, supplierID int64) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range m.orders {
		for _, line := range order.Lines {
			if line.SupplierID == supplierID {
				out = append(out, order)
				break
			}
		}
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, orderID int64, status domain.OrderStatus, event *outbox.Event) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	order, ok := m.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	if event != nil {
		m.events = append(m.events, event)
	}
	return nil
}

func (m *mockOrderRepo) eventTypes() []string {
	types := make([]string, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.EventType)
	}
	return types
}

type mockCarts struct {
	cart    *cartdomain.Cart
	cleared []int64
	getErr  error
}

func (m *mockCarts) GetCart(_ context.Context, customerID int64) (*cartdomain.Cart, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.cart != nil {
		return m.cart, nil
	}
	return &cartdomain.Cart{CustomerID: customerID}, nil
}

func (m *mockCarts) ClearCart(_ context.Context, customerID int64) error {
	m.cleared = append(m.cleared, customerID)
	return nil
}

type mockCatalog struct {
	products  map[int64]*catalog.Product
	suppliers map[int64]*catalog.Supplier
}

func (m *mockCatalog) GetProduct(_ context.Context, productID int64) (*catalog.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

func (m *mockCatalog) GetSupplier(_ context.Context, supplierID int64) (*catalog.Supplier, error) {
	s, ok := m.suppliers[supplierID]
	if !ok {
		return nil, catalog.ErrSupplierNotFound
	}
	return s, nil
}

type mockAddressBook struct {
	addresses  map[int64]*customer.Address
	defaultFor map[int64]int64 // customer id -> address id
	defaultErr error
}

func (m *mockAddressBook) GetDefault(_ context.Context, customerID int64) (*customer.Address, error) {
	if m.defaultErr != nil {
		return nil, m.defaultErr
	}
	id, ok := m.defaultFor[customerID]
	if !ok {
		return nil, customer.ErrAddressNotFound
	}
	return m.addresses[id], nil
}

func (m *mockAddressBook) GetByID(_ context.Context, addressID int64) (*customer.Address, error) {
	a, ok := m.addresses[addressID]
	if !ok {
		return nil, customer.ErrAddressNotFound
	}
	return a, nil
}

type mockInstrumentBook struct {
	instruments map[int64]*customer.Instrument
	defaultFor  map[int64]int64
	defaultErr  error
}

func (m *mockInstrumentBook) GetDefault(_ context.Context, customerID int64) (*customer.Instrument, error) {
	if m.defaultErr != nil {
		return nil, m.defaultErr
	}
	id, ok := m.defaultFor[customerID]
	if !ok {
		return nil, customer.ErrInstrumentNotFound
	}
	return m.instruments[id], nil
}

func (m *mockInstrumentBook) GetByID(_ context.Context, instrumentID int64) (*customer.Instrument, error) {
	i, ok := m.instruments[instrumentID]
	if !ok {
		return nil, customer.ErrInstrumentNotFound
	}
	return i, nil
}

type mockTracking struct {
	codes map[int64]string // line id -> code
	err   error
}

func (m *mockTracking) GenerateForLine(_ context.Context, orderID, lineID int64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.codes == nil {
		m.codes = make(map[int64]string)
	}
	code := "ORD-LINE"
	m.codes[lineID] = code
	return code, nil
}

func (m *mockTracking) CodesForOrder(_ context.Context, _ int64) (map[int64]string, error) {
	return m.codes, nil
}

type mockPix struct {
	generated []int64
	canceled  []int64
	genErr    error
}

func (m *mockPix) GenerateForOrder(_ context.Context, orderID int64, _ decimal.Decimal) error {
	if m.genErr != nil {
		return m.genErr
	}
	m.generated = append(m.generated, orderID)
	return nil
}

func (m *mockPix) CancelForOrder(_ context.Context, orderID int64) error {
	m.canceled = append(m.canceled, orderID)
	return nil
}

var (
	errLedgerDown = errors.New("ledger unavailable")
	errBookDown   = errors.New("customer book unavailable")
)
