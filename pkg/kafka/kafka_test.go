package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"concierge/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
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

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("booking-1").
		WithValue(map[string]int{"n": 1}).
		WithEventType("booking.created").
		WithCorrelationID("req-1").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if msg.GetEventID() == "" {
		t.Error("event id should be generated")
	}
	if msg.Headers[HeaderTimestamp] == "" {
		t.Error("timestamp header should be set")
	}
	if msg.GetCorrelationID() != "req-1" {
		t.Errorf("correlation id = %s", msg.GetCorrelationID())
	}

	var decoded map[string]int
	if err := msg.DecodeValue(&decoded); err != nil || decoded["n"] != 1 {
		t.Errorf("DecodeValue() = %v, %v", decoded, err)
	}
}

func TestMessageBuilder_EncodeError(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	if ClassifyError(err) != ErrorTypePermanent {
		t.Fatalf("expected permanent error, got %v", err)
	}
}

func TestRetryCount(t *testing.T) {
	msg := Message{Headers: map[string]string{}}
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	if msg.GetRetryCount() != 12 {
		t.Errorf("GetRetryCount() = %d, want 12", msg.GetRetryCount())
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"typed business", NewBusinessError("rejected", nil), ErrorTypeBusiness},
		{"wrapped transient", errors.Join(errors.New("x"), NewTransientError("t", nil)), ErrorTypeTransient},
		{"network message", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"unknown", errors.New("something odd"), ErrorTypePermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "bookings", log: logger.Discard()}

	var seen []string
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		seen = append(seen, msg.Topic)
		return next(ctx, msg)
	})

	msg, _ := NewMessage().WithKey("b1").WithRawValue([]byte(`{}`)).WithEventType("booking.created").Build()
	if err := p.Publish(context.Background(), msg); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(w.messages) != 1 || string(w.messages[0].Key) != "b1" {
		t.Fatalf("unexpected writes: %+v", w.messages)
	}
	if header(w.messages[0], HeaderEventType) != "booking.created" {
		t.Error("headers should be forwarded")
	}
	if len(seen) != 1 || seen[0] != "bookings" {
		t.Errorf("middleware saw %v", seen)
	}
}

func TestProducer_Validation(t *testing.T) {
	p := &Producer{writer: &fakeWriter{}, topic: "t", log: logger.Discard()}

	if err := p.Publish(context.Background(), Message{Value: []byte("x")}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}
	if err := p.Publish(context.Background(), Message{Key: "k"}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("expected ErrEmptyValue, got %v", err)
	}

	_ = p.Close()
	if err := p.Publish(context.Background(), Message{Key: "k", Value: []byte("x")}); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("expected ErrProducerClosed, got %v", err)
	}
}

func TestProducer_FailureGoesToDLQ(t *testing.T) {
	writeErr := errors.New("leader not available")
	dlq := &fakeWriter{}
	p := &Producer{writer: &fakeWriter{err: writeErr}, dlqWriter: dlq, topic: "bookings", log: logger.Discard()}

	err := p.Publish(context.Background(), Message{Key: "k", Value: []byte("x"), Headers: map[string]string{}})
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected original error, got %v", err)
	}
	if len(dlq.messages) != 1 {
		t.Fatalf("expected one DLQ message, got %d", len(dlq.messages))
	}
	if header(dlq.messages[0], HeaderOriginalTopic) != "bookings" || header(dlq.messages[0], HeaderErrorType) != "transient" {
		t.Errorf("unexpected DLQ headers: %+v", dlq.messages[0].Headers)
	}
}

func TestConsumer_RetriesTransientThenSucceeds(t *testing.T) {
	c := &Consumer{topic: "bookings", maxRetries: 3, log: logger.Discard()}
	attempts := 0
	c.handler = func(context.Context, Message) error {
		attempts++
		if attempts < 3 {
			return NewTransientError("mail server busy", nil)
		}
		return nil
	}

	if err := c.processMessage(context.Background(), Message{Headers: map[string]string{}}); err != nil {
		t.Fatalf("processMessage() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestConsumer_PermanentErrorDeadLettered(t *testing.T) {
	dlq := &fakeWriter{}
	c := &Consumer{topic: "bookings", groupID: "notifier", maxRetries: 3, dlqWriter: dlq, log: logger.Discard()}
	attempts := 0
	c.handler = func(context.Context, Message) error {
		attempts++
		return NewPermanentError("deserialization failed", nil)
	}

	err := c.processMessage(context.Background(), Message{Key: "k", Value: []byte("x"), Headers: map[string]string{}})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("permanent errors must not be retried, attempts = %d", attempts)
	}
	if len(dlq.messages) != 1 || header(dlq.messages[0], "consumer-group") != "notifier" {
		t.Errorf("unexpected DLQ writes: %+v", dlq.messages)
	}
}
