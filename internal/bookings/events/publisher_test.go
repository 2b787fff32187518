package events

import (
	"context"
	"errors"
	"testing"

	"concierge/pkg/kafka"
	"concierge/pkg/middleware"
	"concierge/pkg/model"
)

type mockProducer struct {
	publishFunc func(ctx context.Context, msg kafka.Message) error
}

func (m *mockProducer) Publish(ctx context.Context, msg kafka.Message) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, msg)
	}
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	var got kafka.Message
	p := NewKafkaPublisher(&mockProducer{publishFunc: func(_ context.Context, msg kafka.Message) error {
		got = msg
		return nil
	}}, "concierge-api")

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	event := &model.BookingEvent{
		Type:       model.EventBookingConfirmed,
		Booking:    model.Booking{ID: "65a000000000000000000001", HotelName: "Grand Hotel"},
		OwnerEmail: "john@example.com",
	}

	if err := p.Publish(ctx, event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if got.Key != event.Booking.ID {
		t.Errorf("key = %s, want booking id", got.Key)
	}
	if got.GetEventType() != model.EventBookingConfirmed {
		t.Errorf("event type = %s", got.GetEventType())
	}
	if got.GetCorrelationID() != "req-42" {
		t.Errorf("correlation id = %s", got.GetCorrelationID())
	}
	if event.ID == "" || got.GetEventID() != event.ID {
		t.Errorf("event id should be generated and propagated")
	}

	var decoded model.BookingEvent
	if err := got.DecodeValue(&decoded); err != nil {
		t.Fatalf("DecodeValue() error = %v", err)
	}
	if decoded.OwnerEmail != "john@example.com" || decoded.Booking.HotelName != "Grand Hotel" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestKafkaPublisher_ProducerError(t *testing.T) {
	wantErr := errors.New("broker down")
	p := NewKafkaPublisher(&mockProducer{publishFunc: func(context.Context, kafka.Message) error {
		return wantErr
	}}, "concierge-api")

	err := p.Publish(context.Background(), &model.BookingEvent{Type: model.EventBookingCreated, Booking: model.Booking{ID: "b1"}})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped producer error, got %v", err)
	}
}

func TestKafkaPublisher_RejectsEmptyEvent(t *testing.T) {
	p := NewKafkaPublisher(&mockProducer{}, "concierge-api")
	if err := p.Publish(context.Background(), &model.BookingEvent{}); err == nil {
		t.Fatal("expected error for event without booking")
	}
}
