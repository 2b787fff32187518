package sanitizer

import (
	"strings"
	"unicode"

	"concierge/pkg/locale"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone returns the E.164 form of phone, or "" when no known region
// can parse it.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	for _, region := range locale.Regions() {
		parsed, err := phonenumbers.Parse(phone, region)
		if err == nil {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return ""
}

// PhoneOrRaw keeps unparseable input as typed (whitespace collapsed) so a
// guest's contact detail is never silently dropped.
func PhoneOrRaw(phone string) string {
	if normalized := NormalizePhone(phone); normalized != "" {
		return normalized
	}
	return TrimAndNormalize(phone)
}

// PhoneDigits returns only the digits of the normalized number, the form
// wa.me links expect.
func PhoneDigits(phone string) string {
	source := NormalizePhone(phone)
	if source == "" {
		source = phone
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, source)
}
