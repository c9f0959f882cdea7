package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/lojavirtual/marketplace/internal/catalog"
	"github.com/lojavirtual/marketplace/internal/customer"
	"github.com/lojavirtual/marketplace/internal/order/domain"
	"github.com/lojavirtual/marketplace/internal/order/repository"
	"github.com/lojavirtual/marketplace/internal/outbox"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	byLine map[int64]*Code
	byCode map[string]*Code
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{byLine: make(map[int64]*Code), byCode: make(map[string]*Code)}
}

func (m *memRepo) Create(_ context.Context, code *Code) error {
	m.nextID++
	code.ID = m.nextID
	code.CreatedAt = time.Now()
	m.byLine[code.LineID] = code
	m.byCode[code.Code] = code
	return nil
}

func (m *memRepo) GetByLine(_ context.Context, lineID int64) (*Code, error) {
	code, ok := m.byLine[lineID]
	if !ok {
		return nil, ErrCodeNotFound
	}
	return code, nil
}

func (m *memRepo) GetByCode(_ context.Context, codeStr string) (*Code, error) {
	code, ok := m.byCode[codeStr]
	if !ok {
		return nil, ErrCodeNotFound
	}
	return code, nil
}

func (m *memRepo) ListByOrder(_ context.Context, orderID int64) ([]*Code, error) {
	var out []*Code
	for _, code := range m.byLine {
		if code.OrderID == orderID {
			out = append(out, code)
		}
	}
	return out, nil
}

type memStore struct {
	blobs map[string][]byte
	puts  int
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (m *memStore) Put(_ context.Context, key string, data []byte) error {
	m.puts++
	m.blobs[key] = data
	return nil
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := m.blobs[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return data, nil
}

type stubOrders struct {
	order *domain.Order
}

func (s *stubOrders) Create(_ context.Context, _ *domain.Order) error { return nil }
func (s *stubOrders) GetByID(_ context.Context, orderID int64) (*domain.Order, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, repository.ErrOrderNotFound
	}
	return s.order, nil
}
func (s *stubOrders) ListByCustomer(_ context.Context, _ int64) ([]*domain.Order, error) {
	return nil, nil
}
func (s *stubOrders) ListBySupplier(_ context.Context, _ int64) ([]*domain.Order, error) {
	return nil, nil
}
func (s *stubOrders) UpdateStatus(_ context.Context, _ int64, _ domain.OrderStatus, _ *outbox.Event) error {
	return nil
}

type stubCatalog struct{}

func (stubCatalog) GetProduct(_ context.Context, productID int64) (*catalog.Product, error) {
	return &catalog.Product{ID: productID, Name: "Teclado Mecanico", SupplierID: 100}, nil
}
func (stubCatalog) GetSupplier(_ context.Context, supplierID int64) (*catalog.Supplier, error) {
	return &catalog.Supplier{ID: supplierID, Name: "Periferia Tech", TaxID: "12345678000190", State: "SP"}, nil
}

type stubBook struct{}

func (stubBook) GetCustomer(_ context.Context, customerID int64) (*customer.Customer, error) {
	return &customer.Customer{ID: customerID, Name: "Joana Silva", NationalID: "12345678901", Phone: "11999990000"}, nil
}
func (stubBook) GetDefault(_ context.Context, _ int64) (*customer.Address, error) {
	return nil, customer.ErrAddressNotFound
}
func (stubBook) GetByID(_ context.Context, addressID int64) (*customer.Address, error) {
	return &customer.Address{
		ID: addressID, CustomerID: 1,
		Street: "Rua das Flores", Number: "123", District: "Centro",
		City: "Sao Paulo", State: "SP", ZipCode: "01001000",
	}, nil
}

type stubEncoder struct{ calls int }

func (e *stubEncoder) EncodePNG(_ string, _ int) ([]byte, error) {
	e.calls++
	return []byte("png"), nil
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:         7,
		CustomerID: 1,
		AddressID:  50,
		Status:     domain.OrderStatusPending,
		Total:      decimal.NewFromInt(100),
		Lines: []domain.OrderLine{
			{ID: 21, OrderID: 7, ProductID: 10, ProductName: "Teclado Mecanico", SupplierID: 100, UnitPrice: decimal.NewFromInt(100), Quantity: 2},
		},
	}
}

func newTestGenerator(repo *memRepo, store *memStore, encoder *stubEncoder) *Generator {
	return NewGenerator(repo, &stubOrders{order: testOrder()}, stubCatalog{}, stubBook{}, stubBook{}, encoder, store)
}

func TestGenerate_CodeAndLabelContent(t *testing.T) {
	repo := newMemRepo()
	store := newMemStore()
	gen := newTestGenerator(repo, store, &stubEncoder{})

	code, err := gen.Generate(context.Background(), 7, 21)
	require.NoError(t, err)

	assert.Equal(t, "ORD0007-LINE021", code.Code)
	assert.Contains(t, code.Content, "CODIGO: ORD0007-LINE021")
	assert.Contains(t, code.Content, "PEDIDO: 7 ITEM: 21 SITUACAO: PENDING")
	assert.Contains(t, code.Content, "EMITIDO: "+time.Now().Format("02/01/2006"))
	assert.Contains(t, code.Content, "PRODUTO: Teclado Mecanico (x2)")
	assert.Contains(t, code.Content, "CNPJ: 12.345.678/0001-90 - SP")
	assert.Contains(t, code.Content, "CPF: 123.456.789-01")
	assert.Contains(t, code.Content, "ENDERECO: Rua das Flores, 123 - Centro, Sao Paulo/SP - 01001000")
	assert.Contains(t, code.Content, "RASTREIO: /api/v1/tracking/ORD0007-LINE021/image")
	assert.Equal(t, "data:image/png;base64,cG5n", code.QRCode)
	assert.Contains(t, store.blobs, "ORD0007-LINE021", "label image rendered at generation time")
}

func TestGenerate_SecondCallRejected(t *testing.T) {
	repo := newMemRepo()
	gen := newTestGenerator(repo, newMemStore(), &stubEncoder{})

	_, err := gen.Generate(context.Background(), 7, 21)
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), 7, 21)
	assert.ErrorIs(t, err, ErrAlreadyGenerated)
	assert.Len(t, repo.byLine, 1)
}

func TestGenerateForLine_ReturnsExistingCode(t *testing.T) {
	repo := newMemRepo()
	gen := newTestGenerator(repo, newMemStore(), &stubEncoder{})

	first, err := gen.GenerateForLine(context.Background(), 7, 21)
	require.NoError(t, err)
	second, err := gen.GenerateForLine(context.Background(), 7, 21)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, repo.byLine, 1)
}

func TestGenerate_UnknownLine(t *testing.T) {
	gen := newTestGenerator(newMemRepo(), newMemStore(), &stubEncoder{})

	_, err := gen.Generate(context.Background(), 7, 999)
	assert.Error(t, err)
}

func TestDownloadImage_RendersOnMiss(t *testing.T) {
	repo := newMemRepo()
	store := newMemStore()
	encoder := &stubEncoder{}
	gen := newTestGenerator(repo, store, encoder)

	code, err := gen.Generate(context.Background(), 7, 21)
	require.NoError(t, err)

	// Drop the stored image to force a re-render.
	delete(store.blobs, code.Code)

	png, err := gen.DownloadImage(context.Background(), code.Code)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), png)
	assert.Contains(t, store.blobs, code.Code, "re-rendered image is stored back")

	// Second download hits the store, not the encoder.
	callsBefore := encoder.calls
	_, err = gen.DownloadImage(context.Background(), code.Code)
	require.NoError(t, err)
	assert.Equal(t, callsBefore, encoder.calls)
}

func TestDownloadImage_UnknownCode(t *testing.T) {
	gen := newTestGenerator(newMemRepo(), newMemStore(), &stubEncoder{})

	_, err := gen.DownloadImage(context.Background(), "ORD9999-LINE999")
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestCodesForOrder(t *testing.T) {
	repo := newMemRepo()
	gen := newTestGenerator(repo, newMemStore(), &stubEncoder{})

	_, err := gen.Generate(context.Background(), 7, 21)
	require.NoError(t, err)

	codes, err := gen.CodesForOrder(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{21: "ORD0007-LINE021"}, codes)
}

func TestGetByCode(t *testing.T) {
	repo := newMemRepo()
	gen := newTestGenerator(repo, newMemStore(), &stubEncoder{})

	created, err := gen.Generate(context.Background(), 7, 21)
	require.NoError(t, err)

	found, err := gen.GetByCode(context.Background(), "ORD0007-LINE021")
	require.NoError(t, err)
	assert.Equal(t, created.Content, found.Content)

	_, err = gen.GetByCode(context.Background(), "ORD9999-LINE999")
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestListForOrder(t *testing.T) {
	repo := newMemRepo()
	gen := newTestGenerator(repo, newMemStore(), &stubEncoder{})

	_, err := gen.Generate(context.Background(), 7, 21)
	require.NoError(t, err)

	records, err := gen.ListForOrder(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ORD0007-LINE021", records[0].Code)

	records, err = gen.ListForOrder(context.Background(), 8)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFormatDocuments(t *testing.T) {
	assert.Equal(t, "123.456.789-01", FormatCPF("12345678901"))
	assert.Equal(t, "12.345.678/0001-90", FormatCNPJ("12345678000190"))

	// Unexpected lengths pass through untouched.
	assert.Equal(t, "123", FormatCPF("123"))
	assert.Equal(t, "", FormatCNPJ(""))
}
