package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lojavirtual/marketplace/internal/customer"
	"github.com/lojavirtual/marketplace/internal/inventory"
	"github.com/lojavirtual/marketplace/internal/order/domain"
	"github.com/shopspring/decimal"
)

// CreateOrderInput carries the checkout request. Nil AddressID or
// InstrumentID means "use the customer's default".
type CreateOrderInput struct {
	CustomerID    int64
	PaymentMethod domain.PaymentMethod
	AddressID     *int64
	InstrumentID  *int64
}

// CreateOrder turns the customer's cart into a PENDING order.
//
// The sequence is: validate input, freeze cart lines against the catalog,
// reserve stock, persist the order with its created event, issue tracking
// codes, and for pix generate the payment artifact. Stock reservation is the
// only step before the order row exists, so a failed insert releases it. A
// failed pix generation releases stock and cancels the order, because a pix
// order without a payload is not payable.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if !in.PaymentMethod.Valid() {
		return nil, ErrInvalidPayment
	}

	cart, err := s.carts.GetCart(ctx, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	address, err := s.resolveAddress(ctx, in.CustomerID, in.AddressID)
	if err != nil {
		return nil, err
	}

	var instrumentID *int64
	if in.PaymentMethod.IsCard() {
		instrument, err := s.resolveInstrument(ctx, in.CustomerID, in.InstrumentID)
		if err != nil {
			return nil, err
		}
		instrumentID = &instrument.ID
	}

	lines := make([]domain.OrderLine, 0, len(cart.Items))
	reservations := make([]inventory.Reservation, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve product %d: %w", item.ProductID, err)
		}
		lines = append(lines, domain.OrderLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			SupplierID:  product.SupplierID,
			UnitPrice:   decimal.NewFromFloat(product.Price),
			Quantity:    item.Quantity,
		})
		reservations = append(reservations, inventory.Reservation{
			ProductID: product.ID,
			Quantity:  item.Quantity,
		})
	}

	order := &domain.Order{
		CustomerID:    in.CustomerID,
		Status:        domain.OrderStatusPending,
		PaymentMethod: in.PaymentMethod,
		AddressID:     address.ID,
		InstrumentID:  instrumentID,
		Lines:         lines,
	}
	order.Total = order.ComputeTotal()

	if err := s.ledger.Reserve(ctx, reservations); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.release(ctx, reservations)
		return nil, fmt.Errorf("persist order: %w", err)
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		if _, err := s.tracking.GenerateForLine(ctx, order.ID, line.ID); err != nil {
			log.Printf("tracking code generation failed for order %d line %d: %v", order.ID, line.ID, err)
		}
	}

	if order.PaymentMethod == domain.PaymentMethodPix {
		if err := s.pix.GenerateForOrder(ctx, order.ID, order.Total); err != nil {
			s.release(ctx, reservations)
			if cancelErr := s.repo.UpdateStatus(ctx, order.ID, domain.OrderStatusCanceled, nil); cancelErr != nil {
				log.Printf("failed to cancel order %d after pix failure: %v", order.ID, cancelErr)
			}
			return nil, fmt.Errorf("generate pix payment: %w", err)
		}
	}

	if err := s.carts.ClearCart(ctx, in.CustomerID); err != nil {
		log.Printf("failed to clear cart for customer %d after checkout: %v", in.CustomerID, err)
	}

	return order, nil
}

func (s *OrderService) resolveAddress(ctx context.Context, customerID int64, addressID *int64) (*customer.Address, error) {
	if addressID == nil {
		address, err := s.addresses.GetDefault(ctx, customerID)
		if errors.Is(err, customer.ErrAddressNotFound) {
			return nil, ErrNoDefaultAddress
		}
		if err != nil {
			return nil, fmt.Errorf("resolve default address: %w", err)
		}
		return address, nil
	}
	address, err := s.addresses.GetByID(ctx, *addressID)
	if err != nil {
		return nil, err
	}
	if address.CustomerID != customerID {
		return nil, ErrForbidden
	}
	return address, nil
}

func (s *OrderService) resolveInstrument(ctx context.Context, customerID int64, instrumentID *int64) (*customer.Instrument, error) {
	var instrument *customer.Instrument
	var err error
	if instrumentID == nil {
		instrument, err = s.instruments.GetDefault(ctx, customerID)
		if errors.Is(err, customer.ErrInstrumentNotFound) {
			return nil, ErrNoDefaultInstrument
		}
		if err != nil {
			return nil, fmt.Errorf("resolve default instrument: %w", err)
		}
	} else {
		instrument, err = s.instruments.GetByID(ctx, *instrumentID)
		if err != nil {
			return nil, err
		}
		if instrument.CustomerID != customerID {
			return nil, ErrForbidden
		}
	}
	if instrument.Expired() {
		return nil, ErrInstrumentExpired
	}
	return instrument, nil
}

func (s *OrderService) release(ctx context.Context, reservations []inventory.Reservation) {
	if err := s.ledger.Release(ctx, reservations); err != nil {
		log.Printf("failed to release stock reservation: %v", err)
	}
}
