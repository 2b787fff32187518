package handler

import (
	"net/http"

	"concierge/internal/auth/service"
	httputil "concierge/pkg/http"
	"concierge/pkg/logger"
	"concierge/pkg/middleware"
	"concierge/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ProfileResponse struct {
	User *model.Profile `json:"user"`
}

type AuthHandler struct {
	service service.AuthService
	auth    func(httprouter.Handle) httprouter.Handle
	log     *logger.Logger
}

func NewAuthHandler(service service.AuthService, auth func(httprouter.Handle) httprouter.Handle, log *logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, auth: auth, log: log}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RegisterRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "Register", err)
		return
	}

	result, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "Login", err)
		return
	}

	result, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	if err := httputil.WriteOK(w, result); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Login", "operation", "WriteJSON", "error", err)
	}
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	profile, err := h.service.Profile(r.Context(), identity)
	if err != nil {
		h.writeError(w, "Profile", err)
		return
	}

	if err := httputil.WriteOK(w, ProfileResponse{User: profile}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Profile", "operation", "WriteJSON", "error", err)
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", h.Register)
	router.POST("/api/auth/login", h.Login)
	router.GET("/api/auth/profile", h.auth(h.Profile))
}
