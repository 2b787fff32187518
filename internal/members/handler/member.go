package handler

import (
	"net/http"

	"concierge/internal/members/service"
	httputil "concierge/pkg/http"
	"concierge/pkg/logger"
	"concierge/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type MemberHandler struct {
	service   service.MemberService
	signature func(httprouter.Handle) httprouter.Handle
	log       *logger.Logger
}

// NewMemberHandler takes the payment signature middleware that guards the
// confirmation callback.
func NewMemberHandler(service service.MemberService, signature func(httprouter.Handle) httprouter.Handle, log *logger.Logger) *MemberHandler {
	return &MemberHandler{service: service, signature: signature, log: log}
}

func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.MemberRegisterRequest
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

func (h *MemberHandler) StartPending(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.MemberRegisterRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "StartPending", err)
		return
	}

	result, err := h.service.StartPending(r.Context(), &req)
	if err != nil {
		h.writeError(w, "StartPending", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusAccepted, result); err != nil {
		h.log.Error("failed to write JSON response", "handler", "StartPending", "operation", "WriteJSON", "error", err)
	}
}

func (h *MemberHandler) PendingStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := h.service.PendingStatus(r.Context(), ps.ByName("token"))
	if err != nil {
		h.writeError(w, "PendingStatus", err)
		return
	}

	if err := httputil.WriteOK(w, result); err != nil {
		h.log.Error("failed to write JSON response", "handler", "PendingStatus", "operation", "WriteJSON", "error", err)
	}
}

func (h *MemberHandler) ConfirmPending(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.PendingConfirmRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "ConfirmPending", err)
		return
	}

	result, err := h.service.ConfirmPending(r.Context(), &req)
	if err != nil {
		h.writeError(w, "ConfirmPending", err)
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "ConfirmPending", "operation", "WriteCreated", "error", err)
	}
}

func (h *MemberHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *MemberHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/members/register", h.Register)
	router.POST("/api/members/pending", h.StartPending)
	router.GET("/api/members/pending/:token", h.PendingStatus)
	router.POST("/api/members/pending/confirm", h.signature(h.ConfirmPending))
}
