package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/lojavirtual/marketplace/internal/cart/cache"
	"github.com/lojavirtual/marketplace/internal/cart/domain"
	"github.com/lojavirtual/marketplace/internal/cart/repository"
	"github.com/lojavirtual/marketplace/internal/catalog"
	"github.com/lojavirtual/marketplace/internal/inventory"
	"golang.org/x/sync/singleflight"
)

var ErrInvalidQuantity = errors.New("quantity must be greater than zero")

// CartService checks availability against the stock ledger but never
// reserves: stock is only decremented when the cart is committed into an
// order.
type CartService struct {
	repo    repository.CartRepository
	cache   cache.CartCache
	catalog catalog.Catalog
	ledger  inventory.StockLedger
	sfg     singleflight.Group // Prevents cache stampede
}

func NewCartService(
	repo repository.CartRepository,
	cache cache.CartCache,
	cat catalog.Catalog,
	ledger inventory.StockLedger,
) *CartService {
	return &CartService{
		repo:    repo,
		cache:   cache,
		catalog: cat,
		ledger:  ledger,
	}
}

func (s *CartService) GetCart(ctx context.Context, customerID int64) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(cartKey(customerID), func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, customerID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, customerID)
		if errors.Is(errGet, repository.ErrCartNotFound) {
			// Carts are created lazily: a customer without one gets an
			// empty cart, persisted on first write
			return &domain.Cart{
				CustomerID: customerID,
				Items:      nil,
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), customerID, cart); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem merges with an existing line for the same product; the post-merge
// quantity is what gets stock-checked.
func (s *CartService) AddItem(ctx context.Context, customerID int64, productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	newQuantity := quantity
	cart, err := s.repo.GetCart(ctx, customerID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		return err
	}
	if cart != nil {
		if existing := cart.Item(productID); existing != nil {
			newQuantity += existing.Quantity
		}
	}

	if err := s.checkStock(ctx, productID, newQuantity); err != nil {
		return err
	}

	item := domain.CartItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    newQuantity,
	}
	if err := s.repo.SetItem(ctx, customerID, item); err != nil {
		log.Printf("repo set item error: %v", err)
		return err
	}

	s.invalidateCache(customerID)
	return nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, customerID int64, productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	if err := s.checkStock(ctx, productID, quantity); err != nil {
		return err
	}

	if err := s.repo.UpdateItemQuantity(ctx, customerID, productID, quantity); err != nil {
		log.Printf("repo update item quantity error: %v", err)
		return err
	}

	s.invalidateCache(customerID)
	return nil
}

// RemoveItem is idempotent: removing an absent line is not an error.
func (s *CartService) RemoveItem(ctx context.Context, customerID int64, productID int64) error {
	err := s.repo.RemoveItem(ctx, customerID, productID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) && !errors.Is(err, repository.ErrItemNotFound) {
		log.Printf("repo remove item error: %v", err)
		return err
	}

	s.invalidateCache(customerID)
	return nil
}

// ClearCart empties the cart without deleting it. Idempotent.
func (s *CartService) ClearCart(ctx context.Context, customerID int64) error {
	err := s.repo.ClearCart(ctx, customerID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		log.Printf("repo clear cart error: %v", err)
		return err
	}

	s.invalidateCache(customerID)
	return nil
}

func (s *CartService) checkStock(ctx context.Context, productID int64, requested int) error {
	available, err := s.ledger.GetAvailable(ctx, productID)
	if err != nil {
		return err
	}
	if available < requested {
		return &inventory.InsufficientStockError{
			ProductID: productID,
			Available: available,
			Requested: requested,
		}
	}
	return nil
}

func (s *CartService) invalidateCache(customerID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, customerID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}

func cartKey(customerID int64) string {
	return "cart:" + strconv.FormatInt(customerID, 10)
}
