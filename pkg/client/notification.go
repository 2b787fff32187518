package client

import (
	"context"
	"net/http"

	"concierge/internal/notifications"
)

// NotificationClient reports failures in the returned Result. Only transport
// problems come back as errors.
type NotificationClient struct {
	httpClient *HttpClient
}

func NewNotificationClient(httpClient *HttpClient) *NotificationClient {
	return &NotificationClient{httpClient: httpClient}
}

func (c *NotificationClient) SendBookingConfirmation(ctx context.Context, email string, details notifications.BookingDetails) (*notifications.Result, error) {
	body := map[string]any{"email": email, "bookingDetails": details}
	return c.post(ctx, "/api/email/booking-confirmation", body)
}

func (c *NotificationClient) WhatsAppLink(ctx context.Context, phone string, details notifications.BookingDetails) (*notifications.Result, error) {
	body := map[string]any{"phoneNumber": phone, "bookingDetails": details}
	return c.post(ctx, "/api/email/whatsapp-booking", body)
}

func (c *NotificationClient) post(ctx context.Context, path string, body any) (*notifications.Result, error) {
	resp, err := c.httpClient.Do(ctx, http.MethodPost, path, "", body)
	if err != nil {
		return nil, err
	}
	var result notifications.Result
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, &TransportError{Op: "decode notification result", Err: err}
	}
	return &result, nil
}
