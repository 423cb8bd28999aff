package rest

import (
	"context"
	"net/http"

	"curriculos/internal/domain"
)

type personalRepo interface {
	Get(ctx context.Context) (*domain.Personal, error)
	Save(ctx context.Context, p *domain.Personal) (*domain.Personal, error)
}

// ProfileHandler serves the singleton personal profile.
type ProfileHandler struct {
	profile personalRepo
}

func NewProfileHandler(profile personalRepo) *ProfileHandler {
	return &ProfileHandler{profile: profile}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.profile.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if p == nil {
		writeError(w, domain.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	var p domain.Personal
	if err := decodeBody(r, &p); err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.profile.Save(r.Context(), &p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
