package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	events       []*Event
	getErr       error
	markErr      error
	processedIDs []string
}

func (m *mockRepository) GetUnprocessedEvents(_ context.Context, _ int) ([]*Event, error) {
	return m.events, m.getErr
}

func (m *mockRepository) MarkEventProcessed(_ context.Context, eventID string) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.processedIDs = append(m.processedIDs, eventID)
	return nil
}

type mockWriter struct {
	messages []kafka.Message
	err      error
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func TestProcessUnpublishedEvents_PublishesAndMarks(t *testing.T) {
	repo := &mockRepository{
		events: []*Event{
			{ID: "evt-1", AggregateID: "42", EventType: EventOrderCreated, Payload: []byte(`{"order_id":42}`)},
			{ID: "evt-2", AggregateID: "42", EventType: EventOrderPaid, Payload: []byte(`{"order_id":42}`)},
		},
	}
	writer := &mockWriter{}
	p := &Poller{tick: time.Second, repo: repo, writer: writer}

	p.processUnpublishedEvents(context.Background())

	require.Len(t, writer.messages, 2)
	assert.Equal(t, []byte("42"), writer.messages[0].Key)
	assert.Equal(t, "event_type", writer.messages[0].Headers[0].Key)
	assert.Equal(t, []byte(EventOrderCreated), writer.messages[0].Headers[0].Value)
	assert.Equal(t, []string{"evt-1", "evt-2"}, repo.processedIDs)
}

func TestProcessUnpublishedEvents_PublishFailureLeavesEventUnprocessed(t *testing.T) {
	repo := &mockRepository{
		events: []*Event{
			{ID: "evt-1", AggregateID: "7", EventType: EventOrderCreated},
		},
	}
	writer := &mockWriter{err: errors.New("broker unavailable")}
	p := &Poller{tick: time.Second, repo: repo, writer: writer}

	p.processUnpublishedEvents(context.Background())

	assert.Empty(t, repo.processedIDs, "failed publish must not be marked processed")
}

func TestNewOrderEvent_PayloadShape(t *testing.T) {
	total, err := decimal.NewFromString("99.90")
	require.NoError(t, err)

	evt, err := NewOrderEvent(EventOrderCanceled, 7, 3, "CANCELED", total)
	require.NoError(t, err)

	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, "7", evt.AggregateID)
	assert.Equal(t, EventOrderCanceled, evt.EventType)
	assert.Contains(t, string(evt.Payload), `"order_id":7`)
	assert.Contains(t, string(evt.Payload), `"status":"CANCELED"`)
	assert.Contains(t, string(evt.Payload), `"99.9"`)
}
