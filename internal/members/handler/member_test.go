package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"concierge/internal/members/service"
	"concierge/pkg/logger"
	"concierge/pkg/middleware"
	"concierge/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockMemberService struct {
	registerFunc       func(ctx context.Context, req *model.MemberRegisterRequest) (*service.MemberResult, error)
	startPendingFunc   func(ctx context.Context, req *model.MemberRegisterRequest) (*service.PendingResult, error)
	pendingStatusFunc  func(ctx context.Context, stagingToken string) (*service.PendingResult, error)
	confirmPendingFunc func(ctx context.Context, req *model.PendingConfirmRequest) (*service.MemberResult, error)
}

func (m *mockMemberService) Register(ctx context.Context, req *model.MemberRegisterRequest) (*service.MemberResult, error) {
	return m.registerFunc(ctx, req)
}

func (m *mockMemberService) StartPending(ctx context.Context, req *model.MemberRegisterRequest) (*service.PendingResult, error) {
	return m.startPendingFunc(ctx, req)
}

func (m *mockMemberService) PendingStatus(ctx context.Context, stagingToken string) (*service.PendingResult, error) {
	return m.pendingStatusFunc(ctx, stagingToken)
}

func (m *mockMemberService) ConfirmPending(ctx context.Context, req *model.PendingConfirmRequest) (*service.MemberResult, error) {
	return m.confirmPendingFunc(ctx, req)
}

const webhookSecret = "whsec_test"

func newRouter(svc service.MemberService) *httprouter.Router {
	log := logger.New(logger.Config{Level: "info", Format: logger.JSON, Service: "test"})
	h := NewMemberHandler(svc, middleware.PaymentSignature(webhookSecret, log), log)
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestStartPending(t *testing.T) {
	router := newRouter(&mockMemberService{
		startPendingFunc: func(context.Context, *model.MemberRegisterRequest) (*service.PendingResult, error) {
			return &service.PendingResult{StagingToken: "tok", State: model.PendingAwaitingConfirmation, ExpiresAt: time.Now()}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/members/pending", strings.NewReader(`{"name":"Grace Kelly"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"state":"AwaitingExternalConfirmation"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestPendingStatusRoute(t *testing.T) {
	router := newRouter(&mockMemberService{
		pendingStatusFunc: func(_ context.Context, tok string) (*service.PendingResult, error) {
			if tok != "abc" {
				t.Errorf("token = %s", tok)
			}
			return &service.PendingResult{State: model.PendingCompleted}, nil
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/members/pending/abc", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestConfirmPending_RequiresSignature(t *testing.T) {
	called := false
	router := newRouter(&mockMemberService{
		confirmPendingFunc: func(_ context.Context, req *model.PendingConfirmRequest) (*service.MemberResult, error) {
			called = true
			return &service.MemberResult{Member: &model.Member{MembershipID: "EM-1A2B3C4D"}, Token: "tok"}, nil
		},
	})
	body := `{"stagingToken":"abc","paymentId":"pay_1","status":"succeeded"}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/members/pending/confirm", strings.NewReader(body)))
	if w.Code != http.StatusUnauthorized || called {
		t.Fatalf("unsigned call: status = %d called = %v", w.Code, called)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/members/pending/confirm", strings.NewReader(body))
	req.Header.Set(middleware.PaymentSignatureHeader, "sha256="+middleware.Sign([]byte(body), webhookSecret))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated || !called {
		t.Fatalf("signed call: status = %d body = %s", w.Code, w.Body.String())
	}
}
