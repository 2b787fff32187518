package types

import (
	"fmt"
	"strings"

	maestro "concierge/internal/maestro/core"
	"concierge/pkg/model"

	"github.com/goccy/go-json"
)

// CheckoutInput defines the input parameters of the checkout flow
type CheckoutInput struct {
	// Credentials: email for regular users, membership_id for members
	Email        string `json:"email,omitempty"`
	MembershipID string `json:"membership_id,omitempty"`
	Password     string `json:"password"`

	// Booking fields
	HotelName string  `json:"hotel_name"`
	Kind      string  `json:"kind,omitempty"`
	RoomType  string  `json:"room_type,omitempty"`
	Location  string  `json:"location,omitempty"`
	CheckIn   string  `json:"check_in"`
	CheckOut  string  `json:"check_out"`
	Guests    int     `json:"guests"`
	Price     float64 `json:"price"`

	// Optional payment capture and notification fields
	PaymentID string `json:"payment_id,omitempty"`
	Phone     string `json:"phone,omitempty"`
	SkipEmail bool   `json:"skip_email,omitempty"`
}

// Validate lists every missing or malformed field at once
func (i *CheckoutInput) Validate() error {
	var errors []string

	if strings.TrimSpace(i.Email) == "" && strings.TrimSpace(i.MembershipID) == "" {
		errors = append(errors, "email or membership_id is required")
	}
	if i.Password == "" {
		errors = append(errors, "password is required")
	}
	if strings.TrimSpace(i.HotelName) == "" {
		errors = append(errors, "hotel_name is required")
	}

	checkIn, inErr := model.ParseBookingDate(i.CheckIn)
	if inErr != nil {
		errors = append(errors, "check_in must be a date (YYYY-MM-DD)")
	}
	checkOut, outErr := model.ParseBookingDate(i.CheckOut)
	if outErr != nil {
		errors = append(errors, "check_out must be a date (YYYY-MM-DD)")
	}
	if inErr == nil && outErr == nil && !checkOut.After(checkIn) {
		errors = append(errors, "check_out must be after check_in")
	}

	if i.Guests < 1 {
		errors = append(errors, "guests must be at least 1")
	}
	if i.Price < 0 {
		errors = append(errors, "price must be non-negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

func (i *CheckoutInput) ToMap() map[string]any {
	data, _ := json.Marshal(i)
	m := map[string]any{}
	_ = json.Unmarshal(data, &m)
	return m
}

// FromMapCheckout decodes the generic flow input and validates it
func FromMapCheckout(input map[string]any) (*CheckoutInput, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", maestro.ErrInvalidInput, err)
	}
	i := &CheckoutInput{}
	if err := json.Unmarshal(data, i); err != nil {
		return nil, fmt.Errorf("%w: %v", maestro.ErrInvalidInput, err)
	}
	if err := i.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", maestro.ErrInvalidInput, err)
	}
	return i, nil
}
