package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"concierge/pkg/logger"
	"concierge/pkg/model"
	"concierge/pkg/token"

	"github.com/julienschmidt/httprouter"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

type stubParser struct {
	identity *model.Identity
	err      error
}

func (s stubParser) Parse(string) (*model.Identity, error) {
	return s.identity, s.err
}

func TestRequireAuth(t *testing.T) {
	user := &model.Identity{ID: "u1", Kind: model.IdentityUser}

	tests := []struct {
		name       string
		header     string
		parser     stubParser
		wantStatus int
	}{
		{name: "missing header", header: "", parser: stubParser{identity: user}, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", parser: stubParser{identity: user}, wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer abc", parser: stubParser{err: token.ErrInvalidToken}, wantStatus: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer abc", parser: stubParser{err: token.ErrExpiredToken}, wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer abc", parser: stubParser{identity: user}, wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer abc", parser: stubParser{identity: user}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *model.Identity
			handle := RequireAuth(tt.parser, testLogger())(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
				got, _ = IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handle(w, req, nil)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && got != user {
				t.Errorf("identity not propagated")
			}
		})
	}
}

func TestPaymentSignature(t *testing.T) {
	const secret = "whsec"
	body := `{"stagingToken":"abc","paymentId":"PAY-1","status":"COMPLETED"}`

	tests := []struct {
		name       string
		secret     string
		signature  string
		wantStatus int
	}{
		{name: "valid", secret: secret, signature: Sign([]byte(body), secret), wantStatus: http.StatusOK},
		{name: "valid with prefix", secret: secret, signature: "sha256=" + Sign([]byte(body), secret), wantStatus: http.StatusOK},
		{name: "missing", secret: secret, signature: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong", secret: secret, signature: Sign([]byte(body), "other"), wantStatus: http.StatusUnauthorized},
		{name: "not configured", secret: "", signature: "abc", wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handle := PaymentSignature(tt.secret, testLogger())(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
				raw, _ := io.ReadAll(r.Body)
				seen = string(raw)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/members/pending/confirm", strings.NewReader(body))
			if tt.signature != "" {
				req.Header.Set(PaymentSignatureHeader, tt.signature)
			}
			w := httptest.NewRecorder()
			handle(w, req, nil)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && seen != body {
				t.Errorf("body not restored for the handler: %q", seen)
			}
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, nil, testLogger())
	defer rl.Stop()

	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request within window should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other clients are limited independently")
	}

	now = now.Add(time.Minute + time.Second)
	if !rl.Allow("1.2.3.4") {
		t.Error("window should slide")
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, nil, testLogger())
	defer rl.Stop()

	h := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("request %d status = %d, want %d", i, w.Code, want)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if got := ClientIP(req); got != "10.0.0.1" {
		t.Errorf("ClientIP() = %s", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Errorf("ClientIP() with forwarded = %s", got)
	}
}

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		want        int
	}{
		{name: "json post", method: http.MethodPost, body: "{}", contentType: "application/json; charset=utf-8", want: http.StatusOK},
		{name: "form post", method: http.MethodPost, body: "a=b", contentType: "application/x-www-form-urlencoded", want: http.StatusUnsupportedMediaType},
		{name: "empty post", method: http.MethodPost, body: "", contentType: "", want: http.StatusOK},
		{name: "get", method: http.MethodGet, body: "", contentType: "", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/bookings", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	h := MaxRequestSize(8, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("boom"))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "boom") {
		t.Errorf("panic value leaked: %s", w.Body.String())
	}
}

func TestRequestTimeout(t *testing.T) {
	h := RequestTimeout(10*time.Millisecond, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", w.Code)
	}
}

func TestRequestLogging_PropagatesRequestID(t *testing.T) {
	var seen string
	h := RequestLogging(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if seen != "req-123" || w.Header().Get(RequestIDHeader) != "req-123" {
		t.Errorf("request id = %q, header = %q", seen, w.Header().Get(RequestIDHeader))
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}), mw("outer"), mw("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "outer,inner" {
		t.Errorf("order = %v", order)
	}
}
