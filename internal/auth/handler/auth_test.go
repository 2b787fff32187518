package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"concierge/internal/auth/service"
	apperrors "concierge/pkg/errors"
	"concierge/pkg/logger"
	"concierge/pkg/middleware"
	"concierge/pkg/model"

	"github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"
)

type mockAuthService struct {
	registerFunc func(ctx context.Context, req *model.RegisterRequest) (*service.AuthResult, error)
	loginFunc    func(ctx context.Context, req *model.LoginRequest) (*service.AuthResult, error)
	profileFunc  func(ctx context.Context, identity *model.Identity) (*model.Profile, error)
}

func (m *mockAuthService) Register(ctx context.Context, req *model.RegisterRequest) (*service.AuthResult, error) {
	return m.registerFunc(ctx, req)
}

func (m *mockAuthService) Login(ctx context.Context, req *model.LoginRequest) (*service.AuthResult, error) {
	return m.loginFunc(ctx, req)
}

func (m *mockAuthService) Profile(ctx context.Context, identity *model.Identity) (*model.Profile, error) {
	return m.profileFunc(ctx, identity)
}

func passThrough(next httprouter.Handle) httprouter.Handle { return next }

func newHandler(svc service.AuthService) *AuthHandler {
	return NewAuthHandler(svc, passThrough, logger.New(logger.Config{Level: "info", Format: logger.JSON, Service: "test"}))
}

func TestRegister(t *testing.T) {
	h := newHandler(&mockAuthService{
		registerFunc: func(_ context.Context, req *model.RegisterRequest) (*service.AuthResult, error) {
			return &service.AuthResult{Token: "tok", User: &model.Profile{ID: "u1", Name: req.Name}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"name":"John Doe","email":"john@example.com","password":"password123"}`))
	w := httptest.NewRecorder()
	h.Register(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["token"] != "tok" || resp["user"] == nil {
		t.Errorf("unexpected body: %v", resp)
	}
	if _, ok := resp["member"]; ok {
		t.Errorf("member key should be omitted for users")
	}
}

func TestLogin_Unauthorized(t *testing.T) {
	h := newHandler(&mockAuthService{
		loginFunc: func(context.Context, *model.LoginRequest) (*service.AuthResult, error) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.co","password":"x"}`))
	w := httptest.NewRecorder()
	h.Login(w, req, httprouter.Params{})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid email or password") {
		t.Errorf("server message should be passed verbatim, got %s", w.Body.String())
	}
}

func TestProfile(t *testing.T) {
	identity := &model.Identity{ID: "u1", Kind: model.IdentityUser}
	h := newHandler(&mockAuthService{
		profileFunc: func(_ context.Context, got *model.Identity) (*model.Profile, error) {
			if got != identity {
				t.Error("identity not passed through")
			}
			return &model.Profile{ID: "u1", Name: "John Doe", Kind: model.IdentityUser}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	w := httptest.NewRecorder()
	h.Profile(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ProfileResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.User == nil || resp.User.Name != "John Doe" {
		t.Errorf("unexpected body: %+v", resp)
	}
}
