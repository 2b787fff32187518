package handler

import (
	"net/http"

	"concierge/internal/password/service"
	httputil "concierge/pkg/http"
	"concierge/pkg/logger"
	"concierge/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PasswordHandler struct {
	service service.PasswordService
	log     *logger.Logger
}

func NewPasswordHandler(service service.PasswordService, log *logger.Logger) *PasswordHandler {
	return &PasswordHandler{service: service, log: log}
}

func (h *PasswordHandler) Forgot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ForgotPasswordRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "Forgot", err)
		return
	}

	if err := h.service.Forgot(r.Context(), &req); err != nil {
		h.writeError(w, "Forgot", err)
		return
	}

	if err := httputil.WriteOK(w, httputil.MessageResponse{Success: true, Message: service.ForgotPasswordMessage}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Forgot", "operation", "WriteJSON", "error", err)
	}
}

func (h *PasswordHandler) Reset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ResetPasswordRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "Reset", err)
		return
	}

	if err := h.service.Reset(r.Context(), &req); err != nil {
		h.writeError(w, "Reset", err)
		return
	}

	if err := httputil.WriteOK(w, httputil.MessageResponse{Success: true, Message: service.ResetPasswordMessage}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Reset", "operation", "WriteJSON", "error", err)
	}
}

func (h *PasswordHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *PasswordHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/password/forgot-password", h.Forgot)
	router.POST("/api/password/reset-password", h.Reset)
}
