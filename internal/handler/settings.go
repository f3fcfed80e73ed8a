package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fruettli/hauskal/internal/store"
)

type SettingsHandler struct {
	settings *store.SettingsStore
	logger   *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: ss, logger: logger}
}

func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.All()
	if err != nil {
		h.logger.Error("list settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req) == 0 {
		writeError(w, http.StatusBadRequest, "no settings provided")
		return
	}

	for key, value := range req {
		if key == "" {
			writeError(w, http.StatusBadRequest, "empty setting key")
			return
		}
		if err := h.settings.Set(key, value); err != nil {
			h.logger.Error("set setting", "key", key, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
