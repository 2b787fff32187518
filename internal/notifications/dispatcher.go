// Package notifications sends booking confirmations and account emails and
// builds WhatsApp share links. Every operation reports a Result and never
// returns an error to the caller.
package notifications

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"concierge/pkg/config"
	"concierge/pkg/logger"
	"concierge/pkg/model"
	"concierge/pkg/sanitizer"
)

//go:embed templates/*.html
var templateFS embed.FS

type BookingDetails struct {
	GuestName string  `json:"guestName"`
	HotelName string  `json:"hotelName"`
	RoomType  string  `json:"roomType,omitempty"`
	Location  string  `json:"location,omitempty"`
	CheckIn   string  `json:"checkIn"`
	CheckOut  string  `json:"checkOut"`
	Nights    int     `json:"nights"`
	Guests    int     `json:"guests"`
	Total     float64 `json:"total"`
	Currency  string  `json:"currency,omitempty"`
	BookingID string  `json:"bookingId"`
	PaymentID string  `json:"paymentId,omitempty"`
}

func (d BookingDetails) FormattedTotal() string {
	currency := d.Currency
	if currency == "" {
		currency = model.DefaultCurrency
	}
	return fmt.Sprintf("%s %.2f", currency, d.Total)
}

// DetailsFromBooking fills the email fields from a stored booking.
func DetailsFromBooking(b *model.Booking, guestName string) BookingDetails {
	return BookingDetails{
		GuestName: guestName,
		HotelName: b.HotelName,
		RoomType:  b.RoomType,
		Location:  b.Location,
		CheckIn:   b.CheckIn.Format(model.DateLayout),
		CheckOut:  b.CheckOut.Format(model.DateLayout),
		Nights:    b.Nights,
		Guests:    b.Guests,
		Total:     b.Total,
		Currency:  b.Currency,
		BookingID: b.ID,
		PaymentID: b.PaymentID,
	}
}

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	URL     string `json:"whatsappUrl,omitempty"`

	// Err keeps the cause for in-process callers such as the event consumer.
	Err error `json:"-"`
}

func ok(message string) Result {
	return Result{Success: true, Message: message}
}

func failed(err error) Result {
	return Result{Success: false, Error: err.Error(), Err: err}
}

type Dispatcher struct {
	mailer         Mailer
	templates      *template.Template
	frontendOrigin string
	log            *logger.Logger
}

func NewDispatcher(mailer Mailer, cfg *config.Config) (*Dispatcher, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &Dispatcher{
		mailer:         mailer,
		templates:      tmpl,
		frontendOrigin: strings.TrimRight(cfg.FrontendOrigin, "/"),
		log:            cfg.Log.Component("notifications"),
	}, nil
}

func (d *Dispatcher) SendBookingConfirmationEmail(ctx context.Context, to string, details BookingDetails) Result {
	to = sanitizer.NormalizeEmail(to)
	if to == "" {
		return failed(errors.New("recipient email is required"))
	}
	if details.GuestName == "" {
		details.GuestName = "Guest"
	}

	html, err := d.render("booking_confirmation.html", details)
	if err != nil {
		return d.fail("booking confirmation", to, err)
	}
	subject := fmt.Sprintf("Booking confirmed: %s", details.HotelName)
	return d.send(ctx, "booking confirmation", Message{To: to, Subject: subject, HTML: html})
}

func (d *Dispatcher) SendPasswordResetEmail(ctx context.Context, email, token string) Result {
	link := d.frontendOrigin + "/reset-password?token=" + url.QueryEscape(token)
	html, err := d.render("password_reset.html", struct{ Link string }{Link: link})
	if err != nil {
		return d.fail("password reset", email, err)
	}
	return d.send(ctx, "password reset", Message{To: sanitizer.NormalizeEmail(email), Subject: "Reset your Concierge password", HTML: html})
}

func (d *Dispatcher) SendCustomEmail(ctx context.Context, to, subject, html string) Result {
	to = sanitizer.NormalizeEmail(to)
	if to == "" || strings.TrimSpace(subject) == "" {
		return failed(errors.New("recipient and subject are required"))
	}
	return d.send(ctx, "custom", Message{To: to, Subject: subject, HTML: html})
}

// SendWhatsAppBookingConfirmation only builds the wa.me link. Nothing is sent.
func (d *Dispatcher) SendWhatsAppBookingConfirmation(phone string, details BookingDetails) Result {
	link, err := WhatsAppLink(phone, BookingMessage(details))
	if err != nil {
		return failed(err)
	}
	return Result{Success: true, Message: "WhatsApp link generated", URL: link}
}

func (d *Dispatcher) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := d.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (d *Dispatcher) send(ctx context.Context, kind string, msg Message) Result {
	if err := d.mailer.Send(ctx, msg); err != nil {
		return d.fail(kind, msg.To, err)
	}
	d.log.Info("Email sent", "kind", kind, "to", msg.To)
	return ok("Email sent successfully")
}

func (d *Dispatcher) fail(kind, to string, err error) Result {
	if errors.Is(err, ErrNotConfigured) {
		d.log.Warn("Email skipped, mailer not configured", "kind", kind, "to", to)
	} else {
		d.log.Error("Failed to send email", "kind", kind, "to", to, "error", err)
	}
	return failed(err)
}
