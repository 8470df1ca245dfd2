package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/neducation/spadays/internal/ledger"
	"github.com/neducation/spadays/internal/websocket"
)

// VisitHandler serves the award-visit intents.
type VisitHandler struct {
	svc    *ledger.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewVisitHandler(svc *ledger.Service, hub *websocket.Hub, logger *slog.Logger) *VisitHandler {
	return &VisitHandler{svc: svc, hub: hub, logger: logger}
}

type visitRequest struct {
	ServiceIDs     []string `json:"service_ids"`
	AestheticMatch bool     `json:"aesthetic_match"`
	PerfectPrep    bool     `json:"perfect_prep"`
	Photos         int      `json:"photos"`
}

func (r visitRequest) modifiers() ledger.Modifiers {
	return ledger.Modifiers{
		AestheticMatch: r.AestheticMatch,
		PerfectPrep:    r.PerfectPrep,
		Photos:         r.Photos,
	}
}

// Award records a full visit. At least one service must be selected;
// unknown ids are accepted and simply score zero.
func (h *VisitHandler) Award(w http.ResponseWriter, r *http.Request) {
	var req visitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.ServiceIDs) == 0 {
		writeError(w, http.StatusBadRequest, "select at least one service")
		return
	}

	record := h.svc.AwardVisit(req.ServiceIDs, req.modifiers())

	h.logger.Info("visit awarded",
		"services", len(record.Services),
		"stars", record.AwardedStars,
		"lucky_glitter", record.Bonuses.LuckyGlitter,
	)
	broadcast(h.hub, websocket.NewMessage("ledger", "awarded", map[string]any{
		"stars": record.AwardedStars,
	}))

	writeJSON(w, http.StatusCreated, record)
}

type quickAwardRequest struct {
	ServiceID string `json:"service_id"`
}

// QuickAward is the one-tap shortcut: a single service, no modifiers.
func (h *VisitHandler) QuickAward(w http.ResponseWriter, r *http.Request) {
	var req quickAwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.ServiceID == "" {
		writeError(w, http.StatusBadRequest, "service_id is required")
		return
	}

	record := h.svc.AwardSingleService(req.ServiceID)

	broadcast(h.hub, websocket.NewMessage("ledger", "awarded", map[string]any{
		"stars": record.AwardedStars,
	}))

	writeJSON(w, http.StatusCreated, record)
}

// Preview computes the deterministic total for a proposed visit without
// recording anything. Lucky glitter is excluded; it is drawn only when
// the visit is actually awarded.
func (h *VisitHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req visitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	total := h.svc.PreviewVisitTotal(req.ServiceIDs, req.modifiers())
	writeJSON(w, http.StatusOK, map[string]int{"total": total})
}
