package rest

import (
	"context"
	"net/http"

	"curriculos/internal/domain"
)

type settingsRepo interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, s *domain.Settings) (*domain.Settings, error)
}

// SettingsHandler serves the app settings singleton.
type SettingsHandler struct {
	settings settingsRepo
}

func NewSettingsHandler(settings settingsRepo) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var s domain.Settings
	if err := decodeBody(r, &s); err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.settings.Save(r.Context(), &s)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
