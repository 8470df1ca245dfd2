package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/neducation/spadays/internal/catalog"
	"github.com/neducation/spadays/internal/ledger"
	"github.com/neducation/spadays/internal/websocket"
)

// RewardHandler serves the reward catalog and redemption.
type RewardHandler struct {
	svc    *ledger.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewRewardHandler(svc *ledger.Service, hub *websocket.Hub, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{svc: svc, hub: hub, logger: logger}
}

// ListServices returns the static service catalog.
func (h *RewardHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Services())
}

// ListRewards returns the static reward catalog.
func (h *RewardHandler) ListRewards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Rewards())
}

// Redeem exchanges stars for a voucher. Unknown rewards are 404; an
// unaffordable reward is 409 and leaves the ledger untouched.
func (h *RewardHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	rewardID := r.PathValue("id")

	voucher, err := h.svc.Redeem(rewardID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrUnknownReward):
			writeError(w, http.StatusNotFound, "reward not found")
		case errors.Is(err, ledger.ErrInsufficientBalance):
			writeError(w, http.StatusConflict, "not enough stars")
		default:
			h.logger.Error("redeem reward", "reward_id", rewardID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to redeem reward")
		}
		return
	}

	h.logger.Info("reward redeemed", "reward_id", voucher.RewardID, "voucher_id", voucher.ID)
	broadcast(h.hub, websocket.NewMessage("ledger", "redeemed", map[string]any{
		"reward_id": voucher.RewardID,
	}))

	writeJSON(w, http.StatusCreated, voucher)
}
