package model

import (
	"strings"
	"time"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"

	BookingTypeRegular         = "regular"
	BookingTypeExclusiveMember = "exclusive-member"

	KindHotel    = "hotel"
	KindAircraft = "aircraft"
	KindYacht    = "yacht"
	KindDining   = "dining"
	KindWellness = "wellness"

	DefaultCurrency = "USD"

	DateLayout = "2006-01-02"
)

type MemberContext struct {
	Tier         string `json:"tier" bson:"tier"`
	MembershipID string `json:"membershipId" bson:"membership_id"`
}

type Booking struct {
	ID          string         `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID     string         `json:"ownerId" bson:"owner_id"`
	OwnerKind   string         `json:"ownerKind" bson:"owner_kind"`
	HotelName   string         `json:"hotelName" bson:"hotel_name"`
	Kind        string         `json:"kind" bson:"kind"`
	RoomType    string         `json:"roomType,omitempty" bson:"room_type,omitempty"`
	Location    string         `json:"location,omitempty" bson:"location,omitempty"`
	CheckIn     time.Time      `json:"checkIn" bson:"check_in"`
	CheckOut    time.Time      `json:"checkOut" bson:"check_out"`
	Nights      int            `json:"nights" bson:"nights"`
	Guests      int            `json:"guests" bson:"guests"`
	Price       float64        `json:"price" bson:"price"`
	Total       float64        `json:"total" bson:"total"`
	Currency    string         `json:"currency" bson:"currency"`
	Status      string         `json:"status" bson:"status"`
	BookingType string         `json:"bookingType" bson:"booking_type"`
	Member      *MemberContext `json:"member,omitempty" bson:"member,omitempty"`
	PaymentID   string         `json:"paymentId,omitempty" bson:"payment_id,omitempty"`
	CreatedAt   time.Time      `json:"createdAt" bson:"created_at"`
	ConfirmedAt *time.Time     `json:"confirmedAt,omitempty" bson:"confirmed_at,omitempty"`
	CancelledAt *time.Time     `json:"cancelledAt,omitempty" bson:"cancelled_at,omitempty"`
}

// BookingRequest is the wire shape of POST /api/bookings. Dates stay strings
// until validation so both date-only and RFC 3339 input are accepted.
type BookingRequest struct {
	HotelName string  `json:"hotelName" validate:"required,max=200"`
	Kind      string  `json:"kind,omitempty" validate:"omitempty,oneof=hotel aircraft yacht dining wellness"`
	RoomType  string  `json:"roomType,omitempty" validate:"omitempty,max=100"`
	Location  string  `json:"location,omitempty" validate:"omitempty,max=200"`
	CheckIn   string  `json:"checkIn" validate:"required,booking_date"`
	CheckOut  string  `json:"checkOut" validate:"required,booking_date"`
	Guests    int     `json:"guests" validate:"min=1,max=100"`
	Price     float64 `json:"price" validate:"min=0,max=1000000"`
}

// MaxPrice mirrors the max tag on BookingRequest.Price.
const MaxPrice = 1_000_000

type ConfirmRequest struct {
	PaymentID string `json:"paymentId" validate:"max=200"`
}

// ParseBookingDate accepts YYYY-MM-DD or RFC 3339 and returns the UTC
// calendar date at midnight.
func ParseBookingDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return CalendarDate(t), nil
}

// CalendarDate truncates t to midnight UTC of its UTC calendar day.
func CalendarDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights counts whole calendar days between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// IsLodging reports whether the kind is priced per night.
func IsLodging(kind string) bool {
	return kind == "" || kind == KindHotel
}
