// Package notifier consumes order events and tells the customer what
// happened. Delivery is a log line standing in for the mail gateway.
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/lojavirtual/marketplace/internal/outbox"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

type orderEvent struct {
	OrderID    int64           `json:"order_id"`
	CustomerID int64           `json:"customer_id"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
}

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    outbox.Topic,
		GroupID:  "notifier",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading message: %v", err)
		return
	}

	var event orderEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		log.Printf("error parsing message: %v", err)
		return
	}

	switch eventType(m) {
	case outbox.EventOrderCreated:
		log.Printf("notify customer %d: order %d received, total %s",
			event.CustomerID, event.OrderID, event.Total.StringFixed(2))
	case outbox.EventOrderPaid:
		log.Printf("notify customer %d: payment for order %d confirmed",
			event.CustomerID, event.OrderID)
	case outbox.EventOrderCanceled:
		log.Printf("notify customer %d: order %d canceled",
			event.CustomerID, event.OrderID)
	default:
		log.Printf("skipping unknown event type %q", eventType(m))
	}
}

func eventType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "event_type" {
			return string(h.Value)
		}
	}
	return ""
}
