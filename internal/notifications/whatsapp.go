package notifications

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"concierge/pkg/sanitizer"
)

const whatsAppBaseURL = "https://wa.me/"

var ErrInvalidPhone = errors.New("invalid phone number")

// WhatsAppLink builds https://wa.me/<digits>?text=<message>. The phone is
// normalized to E.164 first and only its digits are kept.
func WhatsAppLink(phone, message string) (string, error) {
	digits := sanitizer.PhoneDigits(phone)
	if len(digits) < 7 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return whatsAppBaseURL + digits + "?text=" + url.QueryEscape(message), nil
}

func BookingMessage(d BookingDetails) string {
	var b strings.Builder
	b.WriteString("Booking confirmed!\n")
	fmt.Fprintf(&b, "Hotel: %s\n", d.HotelName)
	if d.RoomType != "" {
		fmt.Fprintf(&b, "Room: %s\n", d.RoomType)
	}
	fmt.Fprintf(&b, "Check-in: %s\n", d.CheckIn)
	fmt.Fprintf(&b, "Check-out: %s\n", d.CheckOut)
	fmt.Fprintf(&b, "Nights: %d, Guests: %d\n", d.Nights, d.Guests)
	fmt.Fprintf(&b, "Total: %s\n", d.FormattedTotal())
	fmt.Fprintf(&b, "Reference: %s", d.BookingID)
	return b.String()
}
