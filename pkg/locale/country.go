package locale

import (
	"sort"
)

const (
	DefaultRegion   = "US"
	DefaultTimezone = "UTC"
)

type Country struct {
	Code            string // ISO 3166-1 alpha-2
	Name            string
	DialCode        string // E.164 country calling code with the leading +
	DefaultTimezone string // IANA identifier
}

// Countries lists the guest home regions phone input is resolved against.
var Countries = map[string]Country{
	"US": {Code: "US", Name: "United States", DialCode: "+1", DefaultTimezone: "America/New_York"},
	"GB": {Code: "GB", Name: "United Kingdom", DialCode: "+44", DefaultTimezone: "Europe/London"},
	"FR": {Code: "FR", Name: "France", DialCode: "+33", DefaultTimezone: "Europe/Paris"},
	"IT": {Code: "IT", Name: "Italy", DialCode: "+39", DefaultTimezone: "Europe/Rome"},
	"CH": {Code: "CH", Name: "Switzerland", DialCode: "+41", DefaultTimezone: "Europe/Zurich"},
	"MC": {Code: "MC", Name: "Monaco", DialCode: "+377", DefaultTimezone: "Europe/Monaco"},
	"AE": {Code: "AE", Name: "United Arab Emirates", DialCode: "+971", DefaultTimezone: "Asia/Dubai"},
	"IL": {Code: "IL", Name: "Israel", DialCode: "+972", DefaultTimezone: "Asia/Jerusalem"},
}

// Regions returns the region codes with DefaultRegion first and the rest in
// alphabetical order.
func Regions() []string {
	regions := make([]string, 0, len(Countries))
	for code := range Countries {
		if code != DefaultRegion {
			regions = append(regions, code)
		}
	}
	sort.Strings(regions)
	return append([]string{DefaultRegion}, regions...)
}
