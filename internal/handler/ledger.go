package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/neducation/spadays/internal/ledger"
	"github.com/neducation/spadays/internal/websocket"
)

// defaultHistoryLimit matches the original app's history screen, which
// showed the last ten visits.
const defaultHistoryLimit = 10

// LedgerHandler serves the read-only ledger snapshot.
type LedgerHandler struct {
	svc    *ledger.Service
	logger *slog.Logger
}

func NewLedgerHandler(svc *ledger.Service, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{svc: svc, logger: logger}
}

// Snapshot returns the full ledger view. ?limit=N bounds the visit
// history; limit=0 returns everything.
func (h *LedgerHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, h.svc.Snapshot(limit))
}

// broadcast is shared by the mutating handlers; a nil hub (tests) is fine.
func broadcast(hub *websocket.Hub, msg websocket.Message) {
	if hub != nil {
		hub.Broadcast(msg)
	}
}
