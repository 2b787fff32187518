package validator

import (
	bookingserrors "concierge/internal/bookings/errors"
	"concierge/pkg/logger"
	"concierge/pkg/model"
	"concierge/pkg/validation"
)

type BookingValidator struct {
	validator *validation.Validator
	log       *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validator: validation.New(log),
		log:       log,
	}
}

// Validate checks field rules first. The date ordering check only runs once
// both dates have passed the booking_date rule.
func (v *BookingValidator) Validate(req *model.BookingRequest) error {
	if req == nil {
		return validation.ValidationErrors{{Field: "body", Message: "booking is required"}}
	}

	if err := v.validator.Struct(req); err != nil {
		return err
	}

	checkIn, _ := model.ParseBookingDate(req.CheckIn)
	checkOut, _ := model.ParseBookingDate(req.CheckOut)
	if !checkOut.After(checkIn) {
		return validation.ValidationErrors{{Field: "checkOut", Message: bookingserrors.ErrInvalidDateRange.Error()}}
	}
	return nil
}
