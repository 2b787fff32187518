package flows

import maestro "concierge/internal/maestro/core"

type options struct {
	bookingEvents bool
}

type Option func(*options)

// WithBookingEvents tells the flows that the booking API publishes
// booking.confirmed. The notifier then owns the confirmation email and
// checkout does not send its own.
func WithBookingEvents(enabled bool) Option {
	return func(o *options) { o.bookingEvents = enabled }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// All returns every flow the orchestrator serves.
func All(opts ...Option) []*maestro.Flow {
	return []*maestro.Flow{
		Checkout(opts...),
		RewardsOverview(),
		CatalogSearch(),
	}
}
