package notifications

import (
	"context"
	"errors"

	"concierge/pkg/kafka"
	"concierge/pkg/logger"
	"concierge/pkg/model"
)

type confirmationSender interface {
	SendBookingConfirmationEmail(ctx context.Context, to string, details BookingDetails) Result
}

// BookingEventHandler returns the notifier's Kafka handler. Only
// booking.confirmed triggers an email; other events are acknowledged. A failed
// send is logged and acknowledged, never retried.
func BookingEventHandler(sender confirmationSender, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event model.BookingEvent
		if err := msg.DecodeValue(&event); err != nil {
			return err
		}
		if event.Type != model.EventBookingConfirmed {
			log.Debug("Ignoring booking event", "event_type", event.Type, "event_id", event.ID)
			return nil
		}
		if event.OwnerEmail == "" {
			return kafka.NewBusinessError("confirmed booking has no owner email", nil)
		}

		res := sender.SendBookingConfirmationEmail(ctx, event.OwnerEmail, DetailsFromBooking(&event.Booking, event.OwnerName))
		if res.Success {
			return nil
		}
		if errors.Is(res.Err, ErrNotConfigured) {
			log.Warn("Confirmation email skipped", "booking_id", event.Booking.ID, "reason", res.Error)
			return nil
		}
		log.Error("Confirmation email failed", "booking_id", event.Booking.ID, "event_id", event.ID, "error", res.Error)
		return nil
	}
}
