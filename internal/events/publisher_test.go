package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/onlinestore/internal/config"
	"github.com/onlinestore/internal/constants"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
	deadline bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if _, ok := ctx.Deadline(); ok {
		w.deadline = true
	}
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestDisabledPublisherIsNoop(t *testing.T) {
	pub := NewPublisher(&config.KafkaConfig{Enabled: false, Brokers: []string{"localhost:9092"}})
	if pub.Enabled() {
		t.Fatalf("expected disabled publisher")
	}
	if err := pub.PublishOrderPlaced(context.Background(), "trace", OrderPlaced{OrderID: 1}); err != nil {
		t.Fatalf("disabled publish should be noop: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("close disabled publisher failed: %v", err)
	}

	pub = NewPublisher(&config.KafkaConfig{Enabled: true})
	if pub.Enabled() {
		t.Fatalf("publisher without brokers should be disabled")
	}
}

func TestPublishOrderPlacedWritesEnvelope(t *testing.T) {
	writer := &fakeWriter{}
	pub := newPublisherWithWriter(writer, "", time.Second)
	orderDate := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	err := pub.PublishOrderPlaced(context.Background(), "req-9", OrderPlaced{
		OrderID:     77,
		UserID:      5,
		Status:      constants.OrderStatusPending,
		TotalAmount: "59.97",
		OrderDate:   orderDate,
		Items: []OrderPlacedItem{
			{ProductID: 3, ProductName: "Keyboard", Quantity: 3, UnitPrice: "19.99", Subtotal: "59.97"},
		},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(writer.messages) != 1 {
		t.Fatalf("expected one message, got=%d", len(writer.messages))
	}
	if !writer.deadline {
		t.Fatalf("expected write context with deadline")
	}

	msg := writer.messages[0]
	if string(msg.Key) != "77" {
		t.Fatalf("partition key should be order id, got=%s", string(msg.Key))
	}
	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	if headers[headerEventType] != constants.EventTypeOrderPlaced || headers[headerEventVersion] != "1" {
		t.Fatalf("unexpected headers: %v", headers)
	}

	var env Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		t.Fatalf("decode envelope failed: %v", err)
	}
	if env.EventID == "" || env.EventType != constants.EventTypeOrderPlaced || env.EventVersion != 1 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Producer != defaultProducerName || env.TraceID != "req-9" {
		t.Fatalf("unexpected producer/trace: %+v", env)
	}
	if env.OccurredAt.Location() != time.UTC {
		t.Fatalf("occurred_at should be UTC")
	}

	payload, err := DecodePayload[OrderPlaced](env)
	if err != nil {
		t.Fatalf("decode payload failed: %v", err)
	}
	if payload.OrderID != 77 || payload.TotalAmount != "59.97" || len(payload.Items) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestPublishPropagatesWriterError(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker down")}
	pub := newPublisherWithWriter(writer, "checkout", time.Second)
	if err := pub.PublishOrderPlaced(context.Background(), "", OrderPlaced{OrderID: 1}); err == nil {
		t.Fatalf("expected writer error")
	}
}

func TestPublishAfterCloseFails(t *testing.T) {
	writer := &fakeWriter{}
	pub := newPublisherWithWriter(writer, "checkout", time.Second)
	if err := pub.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !writer.closed {
		t.Fatalf("expected writer closed")
	}
	if err := pub.PublishOrderPlaced(context.Background(), "", OrderPlaced{OrderID: 1}); !errors.Is(err, ErrPublisherClosed) {
		t.Fatalf("expected ErrPublisherClosed, got=%v", err)
	}
}
