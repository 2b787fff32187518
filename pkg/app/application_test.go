package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"concierge/pkg/config"
	"concierge/pkg/health"
	"concierge/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type pingHandler struct{}

func (pingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/ping", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func newTestApp() *Application {
	log := logger.New(logger.Config{Level: "info", Format: logger.JSON, Service: "test"})
	cfg := &config.Config{
		Port:              "8080",
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    time.Second,
		MaxRequestSize:    1024,
		Log:               log,
	}
	a := NewApplication(cfg)
	a.SetApp(health.NewHandler(log), pingHandler{})
	return a
}

func TestApplication_Routes(t *testing.T) {
	a := newTestApp()
	defer a.rateLimiter.Stop()

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("/health status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	if w.Code != http.StatusTeapot {
		t.Errorf("/api/ping status = %d", w.Code)
	}
}

func TestApplication_RateLimitSkipsHealth(t *testing.T) {
	a := newTestApp()
	defer a.rateLimiter.Stop()

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("health request %d status = %d", i, w.Code)
		}
	}

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		a.Handler().ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	}
	if last.Code != http.StatusTooManyRequests {
		t.Errorf("third api request status = %d, body = %s", last.Code, strings.TrimSpace(last.Body.String()))
	}
}
