package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "concierge/pkg/errors"

	"github.com/goccy/go-json"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "validation error keeps message",
			err:         apperrors.Validation("Booking validation failed", nil),
			wantStatus:  http.StatusBadRequest,
			wantCode:    apperrors.CodeValidation,
			wantMessage: "Booking validation failed",
		},
		{
			name:        "unauthorized",
			err:         apperrors.Unauthorized("Invalid credentials"),
			wantStatus:  http.StatusUnauthorized,
			wantCode:    apperrors.CodeUnauthorized,
			wantMessage: "Invalid credentials",
		},
		{
			name:        "internal error hides cause",
			err:         apperrors.Internal("Failed to create booking", errors.New("socket closed")),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    apperrors.CodeInternal,
			wantMessage: "Internal server error",
		},
		{
			name:        "plain error becomes internal",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    apperrors.CodeInternal,
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			if err := WriteError(w, tt.err); err != nil {
				t.Fatalf("WriteError returned %v", err)
			}

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Success {
				t.Errorf("success should be false")
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
			}
			if body.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMessage)
			}
		})
	}
}

func TestWriteMessage(t *testing.T) {
	w := httptest.NewRecorder()
	if err := WriteMessage(w, http.StatusOK, "Booking cancelled successfully"); err != nil {
		t.Fatalf("WriteMessage returned %v", err)
	}

	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if !strings.Contains(w.Body.String(), `"success":true`) {
		t.Errorf("expected success flag, got %s", w.Body.String())
	}
}

func TestDecodeBody(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.c"}`))
	if err := DecodeBody(req, &dst); err != nil || dst.Email != "a@b.c" {
		t.Fatalf("DecodeBody() = %v, email %q", err, dst.Email)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeBody(req, &dst); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("empty body should be invalid input, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	if err := DecodeBody(req, &dst); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("malformed body should be invalid input, got %v", err)
	}
}

func TestExtractLimitOffset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&offset=10", nil)
	limit, offset, err := ExtractLimitOffset(req)
	if err != nil || limit != 5 || offset != 10 {
		t.Errorf("got limit=%d offset=%d err=%v", limit, offset, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)
	if _, _, err := ExtractLimitOffset(req); err == nil {
		t.Errorf("expected error for non-numeric limit")
	}
}
