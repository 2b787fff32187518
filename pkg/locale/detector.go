package locale

import "strings"

// InferCountryFromPhone matches an E.164 number against the known dial
// codes, longest code first.
func InferCountryFromPhone(phone string) *Country {
	normalized := strings.TrimSpace(phone)
	if !strings.HasPrefix(normalized, "+") {
		return nil
	}

	var best *Country
	for _, country := range Countries {
		if !strings.HasPrefix(normalized, country.DialCode) {
			continue
		}
		if best == nil || len(country.DialCode) > len(best.DialCode) {
			c := country
			best = &c
		}
	}
	return best
}

func InferTimezoneFromPhone(phone string) string {
	if country := InferCountryFromPhone(phone); country != nil {
		return country.DefaultTimezone
	}
	return DefaultTimezone
}
