package service

import (
	"context"
	"log"

	"github.com/lojavirtual/marketplace/internal/customer"
	"github.com/lojavirtual/marketplace/internal/order/domain"
)

// OrderView is an order joined with its delivery address and the tracking
// code of each line. Lines whose code was never generated are absent from
// the map.
type OrderView struct {
	Order         *domain.Order     `json:"order"`
	Address       *customer.Address `json:"address,omitempty"`
	TrackingCodes map[int64]string  `json:"tracking_codes,omitempty"`
}

func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*OrderView, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, order), nil
}

func (s *OrderService) ListByCustomer(ctx context.Context, customerID int64) ([]*OrderView, error) {
	orders, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, orders), nil
}

// ListBySupplier returns the orders a supplier has lines in, so they can see
// what to prepare and ship.
func (s *OrderService) ListBySupplier(ctx context.Context, supplierID int64) ([]*OrderView, error) {
	orders, err := s.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, orders), nil
}

func (s *OrderService) buildViews(ctx context.Context, orders []*domain.Order) []*OrderView {
	views := make([]*OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, s.buildView(ctx, order))
	}
	return views
}

// buildView enriches the order without failing the read: a missing address
// or tracking lookup error degrades the view, it does not hide the order.
func (s *OrderService) buildView(ctx context.Context, order *domain.Order) *OrderView {
	view := &OrderView{Order: order}

	address, err := s.addresses.GetByID(ctx, order.AddressID)
	if err != nil {
		log.Printf("failed to load address %d for order %d: %v", order.AddressID, order.ID, err)
	} else {
		view.Address = address
	}

	codes, err := s.tracking.CodesForOrder(ctx, order.ID)
	if err != nil {
		log.Printf("failed to load tracking codes for order %d: %v", order.ID, err)
	} else if len(codes) > 0 {
		view.TrackingCodes = codes
	}

	return view
}
