package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedger_SetStock_And_GetAvailable(t *testing.T) {
	ledger := NewMemoryLedger()
	ledger.SetStock(1, 100)
	ledger.SetStock(2, 200)

	ctx := context.Background()

	available, err := ledger.GetAvailable(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, available)

	_, err = ledger.GetAvailable(ctx, 3)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryLedger_Reserve_Success(t *testing.T) {
	ledger := NewMemoryLedger()
	ledger.SetStock(1, 5)
	ledger.SetStock(2, 10)

	ctx := context.Background()

	err := ledger.Reserve(ctx, []Reservation{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 10},
	})
	require.NoError(t, err)

	available, err := ledger.GetAvailable(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, available)

	available, err = ledger.GetAvailable(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, available)
}

func TestMemoryLedger_Reserve_InsufficientStock_IsAllOrNothing(t *testing.T) {
	ledger := NewMemoryLedger()
	ledger.SetStock(1, 5)
	ledger.SetStock(2, 1)

	ctx := context.Background()

	err := ledger.Reserve(ctx, []Reservation{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 3},
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(2), stockErr.ProductID)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)

	// The first item must not have been decremented
	available, err := ledger.GetAvailable(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, available)
}

func TestMemoryLedger_Release_RestoresStock(t *testing.T) {
	ledger := NewMemoryLedger()
	ledger.SetStock(1, 5)

	ctx := context.Background()
	items := []Reservation{{ProductID: 1, Quantity: 4}}

	require.NoError(t, ledger.Reserve(ctx, items))
	require.NoError(t, ledger.Release(ctx, items))

	available, err := ledger.GetAvailable(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, available)
}

func TestMemoryLedger_Reserve_Concurrent_NeverOversells(t *testing.T) {
	ledger := NewMemoryLedger()
	ledger.SetStock(1, 50)

	ctx := context.Background()

	var wg sync.WaitGroup
	succeeded := make(chan struct{}, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.Reserve(ctx, []Reservation{{ProductID: 1, Quantity: 1}}); err == nil {
				succeeded <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(succeeded)

	count := 0
	for range succeeded {
		count++
	}
	assert.Equal(t, 50, count)

	available, err := ledger.GetAvailable(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, available)
}
