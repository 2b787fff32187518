package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"concierge/internal/notifications"
	"concierge/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"
)

type mockDispatcher struct {
	confirmationFunc func(ctx context.Context, to string, details notifications.BookingDetails) notifications.Result
	whatsAppFunc     func(phone string, details notifications.BookingDetails) notifications.Result
	customFunc       func(ctx context.Context, to, subject, html string) notifications.Result
}

func (m *mockDispatcher) SendBookingConfirmationEmail(ctx context.Context, to string, details notifications.BookingDetails) notifications.Result {
	return m.confirmationFunc(ctx, to, details)
}

func (m *mockDispatcher) SendWhatsAppBookingConfirmation(phone string, details notifications.BookingDetails) notifications.Result {
	return m.whatsAppFunc(phone, details)
}

func (m *mockDispatcher) SendCustomEmail(ctx context.Context, to, subject, html string) notifications.Result {
	return m.customFunc(ctx, to, subject, html)
}

func serve(d *mockDispatcher, method, path, body string) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewEmailHandler(d, logger.New(logger.Config{Level: "info", Format: logger.JSON, Service: "test"})).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) notifications.Result {
	t.Helper()
	var res notifications.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid body %s: %v", w.Body.String(), err)
	}
	return res
}

func TestBookingConfirmation(t *testing.T) {
	d := &mockDispatcher{
		confirmationFunc: func(_ context.Context, to string, details notifications.BookingDetails) notifications.Result {
			if to != "john@example.com" || details.HotelName != "Grand Hotel" || details.Nights != 5 {
				t.Errorf("unexpected call: %s %+v", to, details)
			}
			return notifications.Result{Success: true}
		},
	}

	body := `{"email":"john@example.com","bookingDetails":{"guestName":"John","hotelName":"Grand Hotel","nights":5,"bookingId":"b1"}}`
	w := serve(d, http.MethodPost, "/api/email/booking-confirmation", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	res := decodeResult(t, w)
	if !res.Success || res.Message == "" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestBookingConfirmation_MissingEmail(t *testing.T) {
	d := &mockDispatcher{
		confirmationFunc: func(context.Context, string, notifications.BookingDetails) notifications.Result {
			t.Fatal("dispatcher must not be called")
			return notifications.Result{}
		},
	}

	w := serve(d, http.MethodPost, "/api/email/booking-confirmation", `{"bookingDetails":{}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if res := decodeResult(t, w); res.Success || res.Error == "" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestSend_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		result notifications.Result
		want   int
	}{
		{name: "sent", result: notifications.Result{Success: true, Message: "Email sent successfully"}, want: http.StatusOK},
		{name: "not configured", result: notifications.Result{Error: notifications.ErrNotConfigured.Error(), Err: notifications.ErrNotConfigured}, want: http.StatusServiceUnavailable},
		{name: "transport failure", result: notifications.Result{Error: "connection refused"}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &mockDispatcher{
				customFunc: func(context.Context, string, string, string) notifications.Result { return tt.result },
			}
			w := serve(d, http.MethodPost, "/api/email/send", `{"to":"a@example.com","subject":"Hi","html":"<p>x</p>"}`)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if res := decodeResult(t, w); res.Success != tt.result.Success || res.Error != tt.result.Error {
				t.Errorf("result = %+v", res)
			}
		})
	}
}

func TestWhatsAppBooking(t *testing.T) {
	d := &mockDispatcher{
		whatsAppFunc: func(phone string, _ notifications.BookingDetails) notifications.Result {
			if phone != "+12125550100" {
				t.Errorf("phone = %s", phone)
			}
			return notifications.Result{Success: true, URL: "https://wa.me/12125550100?text=hi"}
		},
	}

	w := serve(d, http.MethodPost, "/api/email/whatsapp-booking", `{"phoneNumber":"+12125550100","bookingDetails":{"hotelName":"Grand Hotel"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"whatsappUrl":"https://wa.me/12125550100?text=hi"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}
