package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "booking not found"},
			expected: "NOT_FOUND: booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("mongo unreachable"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: mongo unreachable)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Booking", "abc"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusBadRequest},
		{"invalid input", InvalidInput("bad"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("no token"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("not yours"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("exists"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("Mailer"), CodeUnavailable, http.StatusServiceUnavailable},
		{"not configured", NotConfigured("Mailer", nil), CodeNotConfigured, http.StatusServiceUnavailable},
		{"insufficient points", InsufficientPoints(10, 500), CodeInsufficientPoints, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.status)
			}
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Booking", "65a1")
	if err.Details["id"] != "65a1" || err.Details["resource"] != "Booking" {
		t.Errorf("unexpected details: %v", err.Details)
	}
	if err.Message != "Booking not found" {
		t.Errorf("unexpected message: %s", err.Message)
	}
}

func TestInsufficientPoints_Details(t *testing.T) {
	err := InsufficientPoints(999, 1000)
	if err.Details["available"] != 999 || err.Details["required"] != 1000 {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	original := errors.New("original")
	appErr := Wrap(original, CodeInternal, "wrapped", http.StatusInternalServerError)

	if !errors.Is(appErr, original) {
		t.Errorf("errors.Is should reach the wrapped error")
	}
}

func TestAppError_StatusCodeDefaults(t *testing.T) {
	err := &AppError{Code: CodeInternal}
	if err.StatusCode() != http.StatusInternalServerError {
		t.Errorf("zero status should default to 500, got %d", err.StatusCode())
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("taken")
	wrapped := fmt.Errorf("create member: %w", appErr)
	plain := errors.New("plain")

	if got := AsAppError(wrapped); got != appErr {
		t.Errorf("AsAppError should unwrap to the original AppError")
	}

	got := AsAppError(plain)
	if got.Code != CodeInternal || got.Err != plain {
		t.Errorf("plain errors should become internal errors, got %+v", got)
	}
}

func TestIsAppErrorAndHasCode(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", Forbidden("nope"))

	if !IsAppError(wrapped) {
		t.Errorf("IsAppError should see through wrapping")
	}
	if !HasCode(wrapped, CodeForbidden) {
		t.Errorf("HasCode should match forbidden")
	}
	if HasCode(errors.New("x"), CodeForbidden) {
		t.Errorf("HasCode should be false for plain errors")
	}
}
