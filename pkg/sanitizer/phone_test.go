package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "valid E.164 format", input: "+12125551234", want: "+12125551234"},
		{name: "with spaces", input: "+44 20 7123 4567", want: "+442071234567"},
		{name: "with dashes", input: "+971-50-123-4567", want: "+971501234567"},
		{name: "with parentheses", input: "+1 (212) 555-1234", want: "+12125551234"},
		{name: "national number uses default region", input: "(212) 555-1234", want: "+12125551234"},
		{name: "leading and trailing spaces", input: "  +12125551234  ", want: "+12125551234"},
		{name: "empty string", input: "", want: ""},
		{name: "letters only", input: "call me", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPhoneOrRaw(t *testing.T) {
	if got := PhoneOrRaw("+1 212 555 1234"); got != "+12125551234" {
		t.Errorf("PhoneOrRaw() = %q", got)
	}
	if got := PhoneOrRaw("  ask   the  butler "); got != "ask the butler" {
		t.Errorf("PhoneOrRaw() kept %q", got)
	}
}

func TestPhoneDigits(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "+1 (212) 555-1234", want: "12125551234"},
		{input: "+971 50 123 4567", want: "971501234567"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := PhoneDigits(tt.input); got != tt.want {
			t.Errorf("PhoneDigits(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
