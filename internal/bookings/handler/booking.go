package handler

import (
	"net/http"

	"concierge/internal/bookings/service"
	httputil "concierge/pkg/http"
	"concierge/pkg/logger"
	"concierge/pkg/middleware"
	"concierge/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ListResponse struct {
	Bookings []*model.Booking `json:"bookings"`
	Count    int              `json:"count"`
}

type AdminListResponse struct {
	Total    int64            `json:"total"`
	Bookings []*model.Booking `json:"bookings"`
}

type CancelResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Booking *model.Booking `json:"booking"`
}

type BookingHandler struct {
	service service.BookingService
	auth    func(httprouter.Handle) httprouter.Handle
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, auth func(httprouter.Handle) httprouter.Handle, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req model.BookingRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	booking, err := h.service.Create(r.Context(), identity, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	bookings, err := h.service.ListMine(r.Context(), identity)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}

	if err := httputil.WriteOK(w, ListResponse{Bookings: bookings, Count: len(bookings)}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "ListMine", "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	booking, err := h.service.Cancel(r.Context(), identity, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	resp := CancelResponse{Success: true, Message: "Booking cancelled successfully", Booking: booking}
	if err := httputil.WriteOK(w, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Cancel", "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	// The payment id is optional so an empty body is accepted.
	var req model.ConfirmRequest
	if r.ContentLength != 0 {
		if err := httputil.DecodeBody(r, &req); err != nil {
			h.writeError(w, "Confirm", err)
			return
		}
	}

	booking, err := h.service.Confirm(r.Context(), identity, ps.ByName("id"), req.PaymentID)
	if err != nil {
		h.writeError(w, "Confirm", err)
		return
	}

	if err := httputil.WriteOK(w, booking); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Confirm", "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) AdminList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "AdminList", err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "AdminList", err)
		return
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}

	if err := httputil.WriteOK(w, AdminListResponse{Total: total, Bookings: bookings}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "AdminList", "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/bookings", h.auth(h.ListMine))
	router.POST("/api/bookings", h.auth(h.Create))
	router.DELETE("/api/bookings/:id", h.auth(h.Cancel))
	router.POST("/api/bookings/:id/confirm", h.auth(h.Confirm))

	// TODO: put the admin listing behind an admin role once identities carry one.
	h.log.Warn("admin booking listing is served without authentication", "route", "GET /api/bookings/admin/all")
	router.GET("/api/bookings/admin/all", h.AdminList)
}
