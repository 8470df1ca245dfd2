package handler

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/neducation/spadays/internal/backup"
	"github.com/neducation/spadays/internal/ledger"
	"github.com/neducation/spadays/internal/websocket"
)

// BackupHandler serves passphrase-encrypted export and restore of the
// ledger. Blobs travel base64-encoded inside JSON.
type BackupHandler struct {
	svc    *ledger.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewBackupHandler(svc *ledger.Service, hub *websocket.Hub, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{svc: svc, hub: hub, logger: logger}
}

type exportRequest struct {
	Passphrase string `json:"passphrase"`
}

type importRequest struct {
	Passphrase string `json:"passphrase"`
	Blob       string `json:"blob"`
}

// Export returns the encrypted ledger document.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Passphrase == "" {
		writeError(w, http.StatusBadRequest, "passphrase is required")
		return
	}

	data, err := h.svc.ExportState()
	if err != nil {
		h.logger.Error("export ledger", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export")
		return
	}

	sealed, err := backup.Encrypt(data, req.Passphrase)
	if err != nil {
		h.logger.Error("encrypt backup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to encrypt backup")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"blob": base64.StdEncoding.EncodeToString(sealed),
	})
}

// Import decrypts a backup blob and replaces the ledger with it.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Passphrase == "" || req.Blob == "" {
		writeError(w, http.StatusBadRequest, "passphrase and blob are required")
		return
	}

	sealed, err := base64.StdEncoding.DecodeString(req.Blob)
	if err != nil {
		writeError(w, http.StatusBadRequest, "blob is not valid base64")
		return
	}

	data, err := backup.Decrypt(sealed, req.Passphrase)
	if err != nil {
		// Wrong passphrase and corrupt blob are indistinguishable here.
		writeError(w, http.StatusBadRequest, "could not decrypt backup")
		return
	}

	if err := h.svc.RestoreState(data); err != nil {
		writeError(w, http.StatusBadRequest, "backup does not contain a valid ledger")
		return
	}

	h.logger.Info("ledger restored from backup")
	broadcast(h.hub, websocket.NewMessage("ledger", "restored", nil))

	w.WriteHeader(http.StatusNoContent)
}
