package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"concierge/internal/notifications"
	apperrors "concierge/pkg/errors"
	httputil "concierge/pkg/http"
	"concierge/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type Dispatcher interface {
	SendBookingConfirmationEmail(ctx context.Context, to string, details notifications.BookingDetails) notifications.Result
	SendWhatsAppBookingConfirmation(phone string, details notifications.BookingDetails) notifications.Result
	SendCustomEmail(ctx context.Context, to, subject, html string) notifications.Result
}

type BookingConfirmationRequest struct {
	Email          string                       `json:"email"`
	BookingDetails notifications.BookingDetails `json:"bookingDetails"`
}

type CustomEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type WhatsAppRequest struct {
	PhoneNumber    string                       `json:"phoneNumber"`
	BookingDetails notifications.BookingDetails `json:"bookingDetails"`
}

// EmailHandler answers every route with a notifications.Result body.
type EmailHandler struct {
	dispatcher Dispatcher
	log        *logger.Logger
}

func NewEmailHandler(dispatcher Dispatcher, log *logger.Logger) *EmailHandler {
	return &EmailHandler{dispatcher: dispatcher, log: log}
}

func (h *EmailHandler) BookingConfirmation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req BookingConfirmationRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeResult(w, "BookingConfirmation", http.StatusBadRequest, rejected(err))
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		h.writeResult(w, "BookingConfirmation", http.StatusBadRequest, rejected(errors.New("email is required")))
		return
	}

	res := h.dispatcher.SendBookingConfirmationEmail(r.Context(), req.Email, req.BookingDetails)
	if res.Success {
		res.Message = "Booking confirmation email sent"
	}
	h.writeResult(w, "BookingConfirmation", statusFor(res), res)
}

func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CustomEmailRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeResult(w, "Send", http.StatusBadRequest, rejected(err))
		return
	}
	if strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.HTML) == "" {
		h.writeResult(w, "Send", http.StatusBadRequest, rejected(errors.New("to, subject and html are required")))
		return
	}

	res := h.dispatcher.SendCustomEmail(r.Context(), req.To, req.Subject, req.HTML)
	h.writeResult(w, "Send", statusFor(res), res)
}

func (h *EmailHandler) WhatsAppBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req WhatsAppRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeResult(w, "WhatsAppBooking", http.StatusBadRequest, rejected(err))
		return
	}
	if strings.TrimSpace(req.PhoneNumber) == "" {
		h.writeResult(w, "WhatsAppBooking", http.StatusBadRequest, rejected(errors.New("phoneNumber is required")))
		return
	}

	res := h.dispatcher.SendWhatsAppBookingConfirmation(req.PhoneNumber, req.BookingDetails)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
	}
	h.writeResult(w, "WhatsAppBooking", status, res)
}

func rejected(err error) notifications.Result {
	if apperrors.IsAppError(err) {
		return notifications.Result{Error: apperrors.AsAppError(err).Message}
	}
	return notifications.Result{Error: err.Error()}
}

func statusFor(res notifications.Result) int {
	switch {
	case res.Success:
		return http.StatusOK
	case errors.Is(res.Err, notifications.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *EmailHandler) writeResult(w http.ResponseWriter, handler string, status int, res notifications.Result) {
	if err := httputil.WriteJSON(w, status, res); err != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *EmailHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/email/booking-confirmation", h.BookingConfirmation)
	router.POST("/api/email/send", h.Send)
	router.POST("/api/email/whatsapp-booking", h.WhatsAppBooking)
}
