package notifications

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"concierge/pkg/config"
	"concierge/pkg/kafka"
	"concierge/pkg/logger"
	"concierge/pkg/model"
)

// ──────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────

type fakeMailer struct {
	sent []Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "info", Format: logger.JSON, Service: "test"})
}

func newTestDispatcher(t *testing.T, mailer Mailer) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(mailer, &config.Config{FrontendOrigin: "https://concierge.example.com/", Log: testLogger()})
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	return d
}

var sampleDetails = BookingDetails{
	GuestName: "John Doe",
	HotelName: "Grand Hotel",
	RoomType:  "Suite",
	CheckIn:   "2024-01-15",
	CheckOut:  "2024-01-20",
	Nights:    5,
	Guests:    2,
	Total:     2500,
	BookingID: "b-123",
	PaymentID: "pay_1",
}

// ──────────────────────────────────────────────────────────────
// Dispatcher
// ──────────────────────────────────────────────────────────────

func TestSendBookingConfirmationEmail(t *testing.T) {
	mailer := &fakeMailer{}
	d := newTestDispatcher(t, mailer)

	res := d.SendBookingConfirmationEmail(context.Background(), " John@Example.com ", sampleDetails)
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.sent))
	}

	msg := mailer.sent[0]
	if msg.To != "john@example.com" {
		t.Errorf("To = %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "Grand Hotel") {
		t.Errorf("Subject = %q", msg.Subject)
	}
	for _, want := range []string{"John Doe", "Suite", "2024-01-15", "2024-01-20", "b-123", "pay_1", "USD 2500.00"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("email body missing %q", want)
		}
	}
}

func TestSendBookingConfirmationEmail_EscapesGuestName(t *testing.T) {
	mailer := &fakeMailer{}
	d := newTestDispatcher(t, mailer)

	details := sampleDetails
	details.GuestName = "<script>alert(1)</script>"
	d.SendBookingConfirmationEmail(context.Background(), "john@example.com", details)

	if strings.Contains(mailer.sent[0].HTML, "<script>") {
		t.Error("guest name was not escaped")
	}
}

func TestSendBookingConfirmationEmail_TransportFailure(t *testing.T) {
	d := newTestDispatcher(t, &fakeMailer{err: errors.New("connection refused")})

	res := d.SendBookingConfirmationEmail(context.Background(), "john@example.com", sampleDetails)
	if res.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Error, "connection refused") {
		t.Errorf("Error = %q", res.Error)
	}
}

func TestSendBookingConfirmationEmail_NotConfigured(t *testing.T) {
	d := newTestDispatcher(t, unconfiguredMailer{})

	res := d.SendBookingConfirmationEmail(context.Background(), "john@example.com", sampleDetails)
	if res.Success || !errors.Is(res.Err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %+v", res)
	}
}

func TestSendPasswordResetEmail(t *testing.T) {
	mailer := &fakeMailer{}
	d := newTestDispatcher(t, mailer)

	res := d.SendPasswordResetEmail(context.Background(), "john@example.com", "tok-1")
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	body := mailer.sent[0].HTML
	if !strings.Contains(body, "https://concierge.example.com/reset-password?token=tok-1") {
		t.Errorf("reset link missing from body: %s", body)
	}
	if !strings.Contains(body, "1 hour") {
		t.Error("body should mention the 1 hour expiry")
	}
}

func TestSendCustomEmail(t *testing.T) {
	mailer := &fakeMailer{}
	d := newTestDispatcher(t, mailer)

	if res := d.SendCustomEmail(context.Background(), "", "Hi", "<p>x</p>"); res.Success {
		t.Error("missing recipient should fail")
	}
	if res := d.SendCustomEmail(context.Background(), "a@example.com", "Hi", "<p>x</p>"); !res.Success {
		t.Errorf("expected success, got %+v", res)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].HTML != "<p>x</p>" {
		t.Errorf("unexpected sent messages: %+v", mailer.sent)
	}
}

// ──────────────────────────────────────────────────────────────
// WhatsApp
// ──────────────────────────────────────────────────────────────

func TestWhatsAppLink(t *testing.T) {
	link, err := WhatsAppLink("+1 (212) 555-0100", "Booking confirmed!")
	if err != nil {
		t.Fatalf("WhatsAppLink() error = %v", err)
	}
	if !strings.HasPrefix(link, "https://wa.me/12125550100?text=") {
		t.Fatalf("link = %s", link)
	}

	u, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	if u.Query().Get("text") != "Booking confirmed!" {
		t.Errorf("text = %q", u.Query().Get("text"))
	}
}

func TestWhatsAppLink_InvalidPhone(t *testing.T) {
	if _, err := WhatsAppLink("abc", "x"); !errors.Is(err, ErrInvalidPhone) {
		t.Errorf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestSendWhatsAppBookingConfirmation(t *testing.T) {
	mailer := &fakeMailer{}
	d := newTestDispatcher(t, mailer)

	res := d.SendWhatsAppBookingConfirmation("+12125550100", sampleDetails)
	if !res.Success || res.URL == "" {
		t.Fatalf("expected link, got %+v", res)
	}
	u, _ := url.Parse(res.URL)
	text := u.Query().Get("text")
	for _, want := range []string{"Grand Hotel", "2024-01-15", "b-123"} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q: %s", want, text)
		}
	}
	if len(mailer.sent) != 0 {
		t.Error("whatsapp link must not send email")
	}
}

// ──────────────────────────────────────────────────────────────
// Booking event handler
// ──────────────────────────────────────────────────────────────

func eventMessage(t *testing.T, event model.BookingEvent) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().WithKey(event.Booking.ID).WithValue(event).WithEventType(event.Type).Build()
	if err != nil {
		t.Fatal(err)
	}
	return msg
}

func confirmedEvent() model.BookingEvent {
	return model.BookingEvent{
		ID:   "evt-1",
		Type: model.EventBookingConfirmed,
		Booking: model.Booking{
			ID:        "b-123",
			HotelName: "Grand Hotel",
			CheckIn:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			CheckOut:  time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
			Nights:    5,
			Guests:    2,
			Total:     2500,
			Currency:  "USD",
		},
		OwnerEmail: "john@example.com",
		OwnerName:  "John Doe",
	}
}

func TestBookingEventHandler_SendsOnConfirmed(t *testing.T) {
	mailer := &fakeMailer{}
	handle := BookingEventHandler(newTestDispatcher(t, mailer), testLogger())

	if err := handle(context.Background(), eventMessage(t, confirmedEvent())); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To != "john@example.com" {
		t.Fatalf("unexpected sent messages: %+v", mailer.sent)
	}
	if !strings.Contains(mailer.sent[0].HTML, "2024-01-20") {
		t.Error("check-out date missing")
	}
}

func TestBookingEventHandler_IgnoresOtherEvents(t *testing.T) {
	mailer := &fakeMailer{}
	handle := BookingEventHandler(newTestDispatcher(t, mailer), testLogger())

	event := confirmedEvent()
	event.Type = model.EventBookingCreated
	if err := handle(context.Background(), eventMessage(t, event)); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Error("created events must not send email")
	}
}

func TestBookingEventHandler_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		mailer   Mailer
		noOwner  bool
		wantErr  bool
		wantType kafka.ErrorType
	}{
		{name: "not configured is acknowledged", mailer: unconfiguredMailer{}},
		{name: "transport failure is acknowledged", mailer: &fakeMailer{err: errors.New("dial tcp: connection refused")}},
		{name: "missing owner email is a business error", mailer: &fakeMailer{}, noOwner: true, wantErr: true, wantType: kafka.ErrorTypeBusiness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handle := BookingEventHandler(newTestDispatcher(t, tt.mailer), testLogger())
			event := confirmedEvent()
			if tt.noOwner {
				event.OwnerEmail = ""
			}
			err := handle(context.Background(), eventMessage(t, event))
			if kafka.ShouldRetry(err, 0, 3) {
				t.Errorf("send outcome must never be retried, got %v", err)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && kafka.ClassifyError(err) != tt.wantType {
				t.Errorf("ClassifyError() = %v, want %v", kafka.ClassifyError(err), tt.wantType)
			}
		})
	}
}

func TestBookingEventHandler_BadPayloadIsPermanent(t *testing.T) {
	handle := BookingEventHandler(newTestDispatcher(t, &fakeMailer{}), testLogger())

	err := handle(context.Background(), kafka.Message{Key: "k", Value: []byte("{not json")})
	if err == nil || kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
		t.Fatalf("expected permanent error, got %v", err)
	}
}

// ──────────────────────────────────────────────────────────────
// Mailer selection
// ──────────────────────────────────────────────────────────────

func TestNewMailer(t *testing.T) {
	cfg := &config.Config{MailProvider: ProviderGmail, Log: testLogger()}
	if err := NewMailer(cfg).Send(context.Background(), Message{To: "a@example.com"}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("gmail without credentials: err = %v", err)
	}

	cfg.MailUser, cfg.MailPassword = "concierge@gmail.com", "app-password"
	m, ok := NewMailer(cfg).(*smtpMailer)
	if !ok {
		t.Fatal("expected smtp mailer")
	}
	if m.addr != "smtp.gmail.com:587" || m.from != "concierge@gmail.com" {
		t.Errorf("gmail preset = %s from %s", m.addr, m.from)
	}

	cfg.MailProvider = ProviderLog
	if err := NewMailer(cfg).Send(context.Background(), Message{To: "a@example.com"}); err != nil {
		t.Errorf("log mailer error = %v", err)
	}
}

func TestBuildMIME(t *testing.T) {
	raw := string(buildMIME("from@example.com", Message{To: "to@example.com", Subject: "Booking confirmé", HTML: "<p>hi</p>"}))
	if !strings.Contains(raw, "Content-Type: text/html") || !strings.HasSuffix(raw, "\r\n\r\n<p>hi</p>") {
		t.Errorf("unexpected MIME message:\n%s", raw)
	}
	if !strings.Contains(raw, "=?utf-8?q?") {
		t.Error("non-ASCII subject should be Q-encoded")
	}
}
