package handlers

import (
	"context"
	"errors"
	"net/http"

	maestro "concierge/internal/maestro/core"
	"concierge/pkg/client"
	httputil "concierge/pkg/http"
	"concierge/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type FlowRunner interface {
	ExecuteFlow(ctx context.Context, flowName string, input map[string]any) (map[string]any, error)
	GetAvailableFlows() []string
}

type FlowHandler struct {
	service FlowRunner
	log     *logger.Logger
}

func NewFlowHandler(service FlowRunner, log *logger.Logger) *FlowHandler {
	return &FlowHandler{
		service: service,
		log:     log,
	}
}

type ExecuteFlowRequest struct {
	Flow  string         `json:"flow"`
	Input map[string]any `json:"input"`
}

type ExecuteFlowResponse struct {
	Success bool           `json:"success"`
	Output  map[string]any `json:"output,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type ListFlowsResponse struct {
	Flows []string `json:"flows"`
}

func (h *FlowHandler) ExecuteFlow(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req ExecuteFlowRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.log.Warn("failed to decode request", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.Flow == "" {
		h.writeError(w, http.StatusBadRequest, "flow name is required")
		return
	}

	if req.Input == nil {
		req.Input = make(map[string]any)
	}

	h.log.Info("executing flow", "flow", req.Flow)

	output, err := h.service.ExecuteFlow(r.Context(), req.Flow, req.Input)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("flow execution failed", "flow", req.Flow, "error", err)
		} else {
			h.log.Warn("flow rejected", "flow", req.Flow, "status", status, "error", err)
		}
		h.writeError(w, status, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, ExecuteFlowResponse{
		Success: true,
		Output:  output,
	})
}

func (h *FlowHandler) ListFlows(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.writeJSON(w, http.StatusOK, ListFlowsResponse{
		Flows: h.service.GetAvailableFlows(),
	})
}

func (h *FlowHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/maestro/execute", h.ExecuteFlow)
	router.GET("/api/maestro/flows", h.ListFlows)
}

// statusFor maps a flow failure onto the status the caller sees. Downstream
// 4xx answers pass through; anything the API could not serve is a 502.
func statusFor(err error) int {
	var (
		validationErr *client.ValidationError
		authErr       *client.AuthError
		serverErr     *client.ServerError
		transportErr  *client.TransportError
	)
	switch {
	case errors.Is(err, maestro.ErrUnknownFlow):
		return http.StatusNotFound
	case errors.Is(err, maestro.ErrInvalidInput), errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &serverErr):
		if serverErr.Status >= 400 && serverErr.Status < 500 {
			return serverErr.Status
		}
		return http.StatusBadGateway
	case errors.As(err, &transportErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (h *FlowHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	if err := httputil.WriteJSON(w, status, data); err != nil {
		h.log.Error("failed to write JSON response", "handler", "FlowHandler", "operation", "WriteJSON", "error", err)
	}
}

func (h *FlowHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, ExecuteFlowResponse{
		Success: false,
		Error:   message,
	})
}
