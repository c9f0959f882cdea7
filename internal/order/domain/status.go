package domain

import (
	"errors"
	"fmt"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusPreparing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCanceled
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// next is the single legal happy-path successor for each non-terminal state.
var next = map[OrderStatus]OrderStatus{
	OrderStatusPending:   OrderStatusPaid,
	OrderStatusPaid:      OrderStatusPreparing,
	OrderStatusPreparing: OrderStatusShipped,
	OrderStatusShipped:   OrderStatusDelivered,
}

// CanTransitionTo reports whether from -> to is a legal transition. Only the
// immediate happy-path successor is reachable, plus CANCELED from PENDING or
// PAID. Terminal states reach nothing.
func CanTransitionTo(from, to OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == OrderStatusCanceled {
		return from == OrderStatusPending || from == OrderStatusPaid
	}
	return next[from] == to
}

var ErrOrderFinalized = errors.New("order is finalized and cannot change status")

type IllegalTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal order status transition: %s -> %s", e.From, e.To)
}

// Transition validates and applies a status change. Every status mutation in
// the system must go through here; there is no other write path.
func (o *Order) Transition(to OrderStatus) error {
	if o.Status.IsTerminal() {
		return ErrOrderFinalized
	}
	if !CanTransitionTo(o.Status, to) {
		return &IllegalTransitionError{From: o.Status, To: to}
	}
	o.Status = to
	return nil
}

// CanCancel reports whether inventory replay and cancellation are still
// possible.
func (o *Order) CanCancel() bool {
	return CanTransitionTo(o.Status, OrderStatusCanceled)
}
