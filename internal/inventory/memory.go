package inventory

import (
	"context"
	"sync"
)

// MemoryLedger implements StockLedger with in-memory storage. Used by local
// runs and tests; the semantics mirror the Postgres ledger.
type MemoryLedger struct {
	mu     sync.RWMutex
	stocks map[int64]int
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{stocks: make(map[int64]int)}
}

// SetStock sets the stock level for a product (used for initialization).
func (l *MemoryLedger) SetStock(productID int64, quantity int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stocks[productID] = quantity
}

func (l *MemoryLedger) GetAvailable(_ context.Context, productID int64) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stock, exists := l.stocks[productID]
	if !exists {
		return 0, ErrProductNotFound
	}
	return stock, nil
}

func (l *MemoryLedger) Adjust(_ context.Context, productID int64, delta int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.stocks[productID]; !exists {
		return ErrProductNotFound
	}
	l.stocks[productID] += delta
	return nil
}

func (l *MemoryLedger) Reserve(_ context.Context, items []Reservation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// First pass: validate all items have sufficient stock
	for _, item := range items {
		stock, exists := l.stocks[item.ProductID]
		if !exists {
			return ErrProductNotFound
		}
		if stock < item.Quantity {
			return &InsufficientStockError{
				ProductID: item.ProductID,
				Available: stock,
				Requested: item.Quantity,
			}
		}
	}

	// Second pass: apply the decrements
	for _, item := range items {
		l.stocks[item.ProductID] -= item.Quantity
	}
	return nil
}

func (l *MemoryLedger) Release(_ context.Context, items []Reservation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, item := range items {
		if _, exists := l.stocks[item.ProductID]; !exists {
			return ErrProductNotFound
		}
		l.stocks[item.ProductID] += item.Quantity
	}
	return nil
}
