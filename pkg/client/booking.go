package client

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"concierge/pkg/model"
)

type BookingInput struct {
	HotelName string
	Kind      string
	RoomType  string
	Location  string
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
	Price     float64
}

// Validate applies the same rules as the server so bad input never leaves
// the process. Dates compare as UTC calendar days, the way they are sent.
func (in BookingInput) Validate() error {
	switch {
	case strings.TrimSpace(in.HotelName) == "":
		return &ValidationError{Field: "hotelName", Message: "is required"}
	case in.CheckIn.IsZero() || in.CheckOut.IsZero():
		return &ValidationError{Field: "checkIn", Message: "check-in and check-out dates are required"}
	case !model.CalendarDate(in.CheckOut).After(model.CalendarDate(in.CheckIn)):
		return &ValidationError{Field: "checkOut", Message: "check-out must be after check-in"}
	case in.Guests < 1:
		return &ValidationError{Field: "guests", Message: "at least one guest is required"}
	case in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0):
		return &ValidationError{Field: "price", Message: "must be a non-negative number"}
	case in.Price > model.MaxPrice:
		return &ValidationError{Field: "price", Message: "exceeds the maximum price"}
	}
	return nil
}

func (in BookingInput) request() model.BookingRequest {
	return model.BookingRequest{
		HotelName: strings.TrimSpace(in.HotelName),
		Kind:      in.Kind,
		RoomType:  in.RoomType,
		Location:  in.Location,
		CheckIn:   model.CalendarDate(in.CheckIn).Format(model.DateLayout),
		CheckOut:  model.CalendarDate(in.CheckOut).Format(model.DateLayout),
		Guests:    in.Guests,
		Price:     in.Price,
	}
}

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(httpClient *HttpClient) *BookingClient {
	return &BookingClient{httpClient: httpClient}
}

func (c *BookingClient) Create(ctx context.Context, session *Session, in BookingInput) (*model.Booking, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var booking model.Booking
	if err := c.call(ctx, session, http.MethodPost, "/api/bookings", in.request(), &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListMine returns the caller's bookings in the order the server sent them.
func (c *BookingClient) ListMine(ctx context.Context, session *Session) ([]model.Booking, error) {
	var body struct {
		Bookings []model.Booking `json:"bookings"`
		Count    int             `json:"count"`
	}
	if err := c.call(ctx, session, http.MethodGet, "/api/bookings", nil, &body); err != nil {
		return nil, err
	}
	return body.Bookings, nil
}

// Cancel succeeds for a booking that is already cancelled.
func (c *BookingClient) Cancel(ctx context.Context, session *Session, id string) (*model.Booking, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "id", Message: "is required"}
	}

	var body struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Booking *model.Booking `json:"booking"`
	}
	if err := c.call(ctx, session, http.MethodDelete, "/api/bookings/"+url.PathEscape(id), nil, &body); err != nil {
		return nil, err
	}
	return body.Booking, nil
}

func (c *BookingClient) Confirm(ctx context.Context, session *Session, id, paymentID string) (*model.Booking, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "id", Message: "is required"}
	}

	var booking model.Booking
	path := "/api/bookings/" + url.PathEscape(id) + "/confirm"
	if err := c.call(ctx, session, http.MethodPost, path, model.ConfirmRequest{PaymentID: paymentID}, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *BookingClient) call(ctx context.Context, session *Session, method, path string, body, target any) error {
	token := session.Token()
	if token == "" {
		return errNoSession
	}
	resp, err := c.httpClient.Do(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	return decode(resp, target)
}
