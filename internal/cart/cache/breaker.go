package cache

import (
	"context"
	"time"

	"github.com/lojavirtual/marketplace/internal/cart/domain"
	"github.com/sony/gobreaker/v2"
)

// BreakerCache wraps a CartCache with a circuit breaker so a dead Redis
// degrades to repository reads instead of adding a timeout to every call.
// An open circuit is reported as a cache miss.
type BreakerCache struct {
	inner CartCache
	cb    *gobreaker.CircuitBreaker[*domain.Cart]
}

func NewBreakerCache(inner CartCache) *BreakerCache {
	cb := gobreaker.NewCircuitBreaker[*domain.Cart](gobreaker.Settings{
		Name:    "cart-cache",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// A miss is a healthy answer, not a Redis failure
			return err == nil || err == ErrCacheMiss
		},
	})
	return &BreakerCache{inner: inner, cb: cb}
}

func (b *BreakerCache) Get(ctx context.Context, customerID int64) (*domain.Cart, error) {
	cart, err := b.cb.Execute(func() (*domain.Cart, error) {
		return b.inner.Get(ctx, customerID)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, ErrCacheMiss
	}
	return cart, err
}

func (b *BreakerCache) Set(ctx context.Context, customerID int64, cart *domain.Cart) error {
	_, err := b.cb.Execute(func() (*domain.Cart, error) {
		return nil, b.inner.Set(ctx, customerID, cart)
	})
	return err
}

func (b *BreakerCache) Delete(ctx context.Context, customerID int64) error {
	_, err := b.cb.Execute(func() (*domain.Cart, error) {
		return nil, b.inner.Delete(ctx, customerID)
	})
	return err
}
