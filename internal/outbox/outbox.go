package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated  = "order.created"
	EventOrderPaid     = "order.paid"
	EventOrderCanceled = "order.canceled"
)

// Event is one row of the transactional outbox. It is written in the same
// database transaction as the state change it describes and published to
// Kafka by the poller afterwards.
type Event struct {
	ID          string
	AggregateID string // order id, used as the Kafka message key for ordering
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

type Repository interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*Event, error)
	MarkEventProcessed(ctx context.Context, eventID string) error
}

type orderEventPayload struct {
	OrderID    int64           `json:"order_id"`
	CustomerID int64           `json:"customer_id"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewOrderEvent builds an outbox event for an order state change.
func NewOrderEvent(eventType string, orderID, customerID int64, status string, total decimal.Decimal) (*Event, error) {
	payload, err := json.Marshal(orderEventPayload{
		OrderID:    orderID,
		CustomerID: customerID,
		Status:     status,
		Total:      total,
		OccurredAt: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order event payload: %w", err)
	}
	return &Event{
		ID:          uuid.NewString(),
		AggregateID: fmt.Sprintf("%d", orderID),
		EventType:   eventType,
		Payload:     payload,
	}, nil
}
