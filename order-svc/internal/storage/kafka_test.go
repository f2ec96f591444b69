package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickbite/order-svc/internal/domain"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return w.err
}

func TestKafkaPublisher_PublishOrderEvent(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewKafkaPublisher(writer)

	event := domain.OrderEvent{
		Type:         "order_created",
		OrderID:      "42",
		UserID:       7,
		RestaurantID: 1,
		Status:       domain.StatusPending,
		TotalAmount:  domain.MustMoney("1398"),
		Timestamp:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, publisher.PublishOrderEvent(context.Background(), event))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "42", string(msg.Key))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "order_created", payload["type"])
	assert.Equal(t, "pending", payload["status"])
	assert.Equal(t, 1398.0, payload["total_amount"])
	assert.Equal(t, "2024-05-01T12:00:00Z", payload["timestamp"])
}

func TestKafkaPublisher_WriterError(t *testing.T) {
	writer := &recordingWriter{err: assert.AnError}
	err := NewKafkaPublisher(writer).PublishOrderEvent(context.Background(), domain.OrderEvent{OrderID: "1"})
	assert.ErrorIs(t, err, assert.AnError)
}
