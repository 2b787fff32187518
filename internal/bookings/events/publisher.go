// Package events publishes booking lifecycle events to Kafka for the
// notification worker.
package events

import (
	"context"
	"fmt"
	"time"

	"concierge/pkg/kafka"
	"concierge/pkg/middleware"
	"concierge/pkg/model"

	"github.com/google/uuid"
)

const SchemaVersion = "1"

type Publisher interface {
	Publish(ctx context.Context, event *model.BookingEvent) error
}

// MessagePublisher is satisfied by *kafka.Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaPublisher struct {
	producer MessagePublisher
	source   string
}

func NewKafkaPublisher(producer MessagePublisher, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source}
}

// Publish keys the message by booking id so a booking's events stay ordered
// within one partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event *model.BookingEvent) error {
	if event == nil || event.Booking.ID == "" {
		return kafka.NewPermanentError("invalid booking event", nil)
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg, err := kafka.NewMessage().
		WithKey(event.Booking.ID).
		WithValue(event).
		WithEventID(event.ID).
		WithEventType(event.Type).
		WithCorrelationID(middleware.RequestID(ctx)).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		Build()
	if err != nil {
		return err
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

// NoopPublisher drops events. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *model.BookingEvent) error {
	return nil
}
