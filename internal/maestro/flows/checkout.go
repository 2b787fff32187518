package flows

import (
	maestro "concierge/internal/maestro/core"
	"concierge/internal/maestro/types"
	"concierge/internal/notifications"
	"concierge/internal/rewards"
	"concierge/pkg/client"
	"concierge/pkg/model"
)

const CheckoutFlow = "checkout"

// Checkout books, confirms and notifies in one call. Notification failures
// are reported in the output and never fail the flow. Notifications go out
// only for confirmed bookings.
func Checkout(opts ...Option) *maestro.Flow {
	o := newOptions(opts)
	steps := []*maestro.Step{
		maestro.NewStep("parse_input", ParseCheckoutInput),
		maestro.NewStep("login", Login),
		maestro.NewStep("create_booking", CreateBooking),
		maestro.NewStep("confirm_booking", ConfirmBooking),
	}
	if !o.bookingEvents {
		steps = append(steps, maestro.NewStep("send_confirmation_email", SendConfirmationEmail))
	}
	steps = append(steps,
		maestro.NewStep("whatsapp_link", BuildWhatsAppLink),
		maestro.NewStep("estimate_points", EstimatePoints),
	)
	return maestro.NewFlow(CheckoutFlow, steps...)
}

func ParseCheckoutInput(ctx *maestro.MaestroContext) error {
	input, err := types.FromMapCheckout(ctx.Input)
	if err != nil {
		return err
	}
	ctx.Process[CHECKOUT_INPUT] = input
	return nil
}

func checkoutInput(ctx *maestro.MaestroContext) *types.CheckoutInput {
	return ctx.Process[CHECKOUT_INPUT].(*types.CheckoutInput)
}

func CreateBooking(ctx *maestro.MaestroContext) error {
	input := checkoutInput(ctx)
	checkIn, _ := model.ParseBookingDate(input.CheckIn)
	checkOut, _ := model.ParseBookingDate(input.CheckOut)

	booking, err := ctx.Client.Bookings.Create(ctx.Ctx, ctx.Session, client.BookingInput{
		HotelName: input.HotelName,
		Kind:      input.Kind,
		RoomType:  input.RoomType,
		Location:  input.Location,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    input.Guests,
		Price:     input.Price,
	})
	if err != nil {
		return err
	}
	ctx.Process[BOOKING] = booking
	ctx.Output[BOOKING] = booking
	return nil
}

// ConfirmBooking runs only when the caller already captured the payment.
func ConfirmBooking(ctx *maestro.MaestroContext) error {
	input := checkoutInput(ctx)
	if maestro.IsMissing(input.PaymentID) {
		return nil
	}

	booking := ctx.Process[BOOKING].(*model.Booking)
	confirmed, err := ctx.Client.Bookings.Confirm(ctx.Ctx, ctx.Session, booking.ID, input.PaymentID)
	if err != nil {
		return err
	}
	ctx.Process[BOOKING] = confirmed
	ctx.Output[BOOKING] = confirmed
	return nil
}

func SendConfirmationEmail(ctx *maestro.MaestroContext) error {
	input := checkoutInput(ctx)
	booking := ctx.Process[BOOKING].(*model.Booking)
	if input.SkipEmail || booking.Status != model.BookingStatusConfirmed {
		return nil
	}
	profile := ctx.Session.Profile()
	if profile == nil || profile.Email == "" {
		ctx.Output["email"] = notifications.Result{Error: "no email on profile"}
		return nil
	}

	result, err := ctx.Client.Notify.SendBookingConfirmation(ctx.Ctx, profile.Email, notifications.DetailsFromBooking(booking, profile.Name))
	if err != nil {
		ctx.Log.Warn("Confirmation email request failed", "booking_id", booking.ID, "error", err)
		ctx.Output["email"] = notifications.Result{Error: err.Error()}
		return nil
	}
	ctx.Output["email"] = result
	return nil
}

func BuildWhatsAppLink(ctx *maestro.MaestroContext) error {
	input := checkoutInput(ctx)
	booking := ctx.Process[BOOKING].(*model.Booking)
	if maestro.IsMissing(input.Phone) || booking.Status != model.BookingStatusConfirmed {
		return nil
	}

	guest := ""
	if profile := ctx.Session.Profile(); profile != nil {
		guest = profile.Name
	}
	result, err := ctx.Client.Notify.WhatsAppLink(ctx.Ctx, input.Phone, notifications.DetailsFromBooking(booking, guest))
	if err != nil {
		ctx.Log.Warn("WhatsApp link request failed", "booking_id", booking.ID, "error", err)
		return nil
	}
	if result.Success {
		ctx.Output["whatsapp_url"] = result.URL
	}
	return nil
}

// EstimatePoints reports what the booking earns once confirmed. Unknown
// tiers earn at the Bronze rate.
func EstimatePoints(ctx *maestro.MaestroContext) error {
	booking := ctx.Process[BOOKING].(*model.Booking)

	tier := rewards.Bronze
	if profile := ctx.Session.Profile(); profile != nil {
		if parsed, err := rewards.ParseTier(profile.Tier); err == nil {
			tier = parsed
		}
	}

	ctx.Output["points"] = rewards.PointsForBooking(booking.Total, tier.Multiplier())
	ctx.Output["points_earned"] = booking.Status == model.BookingStatusConfirmed
	return nil
}
