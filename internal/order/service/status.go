package service

import (
	"context"
	"fmt"
	"log"

	"github.com/lojavirtual/marketplace/internal/inventory"
	"github.com/lojavirtual/marketplace/internal/order/domain"
	"github.com/lojavirtual/marketplace/internal/outbox"
)

// UpdateStatus moves an order to the requested status. The domain transition
// rules decide legality; this layer adds the side effects that belong to
// specific transitions: a paid or canceled event on the outbox, stock replay
// and pix cancellation when the order is canceled.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, to domain.OrderStatus) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Transition(to); err != nil {
		return nil, err
	}

	if to == domain.OrderStatusCanceled {
		// Replay the reservation before the status commits. If the replay
		// fails the order stays in its previous status and can be
		// canceled again.
		reservations := make([]inventory.Reservation, 0, len(order.Lines))
		for _, line := range order.Lines {
			reservations = append(reservations, inventory.Reservation{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}
		if err := s.ledger.Release(ctx, reservations); err != nil {
			return nil, fmt.Errorf("release stock for canceled order %d: %w", orderID, err)
		}
	}

	var event *outbox.Event
	switch to {
	case domain.OrderStatusPaid:
		event, err = outbox.NewOrderEvent(outbox.EventOrderPaid, order.ID, order.CustomerID, to.String(), order.Total)
	case domain.OrderStatusCanceled:
		event, err = outbox.NewOrderEvent(outbox.EventOrderCanceled, order.ID, order.CustomerID, to.String(), order.Total)
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, orderID, to, event); err != nil {
		return nil, err
	}
	order.Status = to

	if to == domain.OrderStatusCanceled && order.PaymentMethod == domain.PaymentMethodPix && s.pix != nil {
		if err := s.pix.CancelForOrder(ctx, orderID); err != nil {
			log.Printf("failed to cancel pix payment for order %d: %v", orderID, err)
		}
	}

	return order, nil
}

// MarkPaid is the confirmation hook the payment side calls when a pix
// payment is confirmed. An order that is already PAID is a no-op: a retried
// confirmation may have committed the order on its first attempt and only
// needs to finish the payment record.
func (s *OrderService) MarkPaid(ctx context.Context, orderID int64) error {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == domain.OrderStatusPaid {
		return nil
	}
	_, err = s.UpdateStatus(ctx, orderID, domain.OrderStatusPaid)
	return err
}

// CancelOrder cancels while the status machine still allows it, replaying
// the stock reservation back into the ledger.
func (s *OrderService) CancelOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.UpdateStatus(ctx, orderID, domain.OrderStatusCanceled)
}
