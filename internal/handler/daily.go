package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/neducation/spadays/internal/ledger"
	"github.com/neducation/spadays/internal/websocket"
)

// DailyHandler serves login tracking, the daily bonus, and the derived
// streak/challenge views.
type DailyHandler struct {
	svc    *ledger.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewDailyHandler(svc *ledger.Service, hub *websocket.Hub, logger *slog.Logger) *DailyHandler {
	return &DailyHandler{svc: svc, hub: hub, logger: logger}
}

// RecordLogin marks today as a login day. Safe to call on every app
// start; repeats within a day are no-ops.
func (h *DailyHandler) RecordLogin(w http.ResponseWriter, r *http.Request) {
	h.svc.RecordLogin()

	broadcast(h.hub, websocket.NewMessage("ledger", "login_recorded", nil))

	snap := h.svc.Snapshot(0)
	writeJSON(w, http.StatusOK, map[string]any{
		"login_streak":     snap.LoginStreak,
		"total_login_days": snap.TotalLoginDays,
		"daily_bonus":      snap.DailyBonus,
	})
}

// GetDailyBonus reports today's bonus amount and whether it is claimable.
func (h *DailyHandler) GetDailyBonus(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot(0)
	writeJSON(w, http.StatusOK, snap.DailyBonus)
}

// ClaimDailyBonus credits today's login bonus. A second claim on the same
// day returns 409.
func (h *DailyHandler) ClaimDailyBonus(w http.ResponseWriter, r *http.Request) {
	amount, err := h.svc.ClaimDailyBonus()
	if err != nil {
		if errors.Is(err, ledger.ErrAlreadyClaimed) {
			writeError(w, http.StatusConflict, "daily bonus already claimed today")
			return
		}
		h.logger.Error("claim daily bonus", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to claim daily bonus")
		return
	}

	h.logger.Info("daily bonus claimed", "stars", amount)
	broadcast(h.hub, websocket.NewMessage("ledger", "bonus_claimed", map[string]any{
		"stars": amount,
	}))

	writeJSON(w, http.StatusOK, map[string]int{"awarded": amount})
}

// Milestones returns the streak badges with their reached state.
func (h *DailyHandler) Milestones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.StreakMilestones())
}

// Challenges returns the fixed weekly challenges with current progress.
func (h *DailyHandler) Challenges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.WeeklyChallenges())
}
