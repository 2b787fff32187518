package handler

import (
	"net/http"

	"concierge/internal/rewards"
	"concierge/internal/rewards/service"
	apperrors "concierge/pkg/errors"
	httputil "concierge/pkg/http"
	"concierge/pkg/logger"
	"concierge/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type RedeemRequest struct {
	RewardID string `json:"rewardId"`
}

type CatalogResponse struct {
	Rewards []rewards.Reward `json:"rewards"`
}

type RewardsHandler struct {
	service service.RewardsService
	auth    func(httprouter.Handle) httprouter.Handle
	log     *logger.Logger
}

func NewRewardsHandler(svc service.RewardsService, auth func(httprouter.Handle) httprouter.Handle, log *logger.Logger) *RewardsHandler {
	return &RewardsHandler{service: svc, auth: auth, log: log}
}

func (h *RewardsHandler) Ledger(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	ledger, err := h.service.Ledger(r.Context(), identity)
	if err != nil {
		h.writeError(w, "Ledger", err)
		return
	}

	if err := httputil.WriteOK(w, ledger); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ledger", "operation", "WriteJSON", "error", err)
	}
}

func (h *RewardsHandler) Catalog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteOK(w, CatalogResponse{Rewards: h.service.Catalog()}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Catalog", "operation", "WriteJSON", "error", err)
	}
}

func (h *RewardsHandler) Redeem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req RedeemRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		h.writeError(w, "Redeem", err)
		return
	}
	if req.RewardID == "" {
		h.writeError(w, "Redeem", apperrors.Validation("Reward ID is required", map[string]any{"rewardId": "required"}))
		return
	}

	result, err := h.service.Redeem(r.Context(), identity, req.RewardID)
	if err != nil {
		h.writeError(w, "Redeem", err)
		return
	}

	if err := httputil.WriteOK(w, result); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Redeem", "operation", "WriteJSON", "error", err)
	}
}

func (h *RewardsHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *RewardsHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/rewards", h.auth(h.Ledger))
	router.GET("/api/rewards/catalog", h.Catalog)
	router.POST("/api/rewards/redeem", h.auth(h.Redeem))
}
