package rest

import (
	"context"
	"net/http"
	"strconv"

	"curriculos/internal/domain"
)

type historyRepo interface {
	SaveExperience(ctx context.Context, e *domain.Experience) (*domain.Experience, error)
	ListExperiences(ctx context.Context) ([]*domain.Experience, error)
	DeleteExperience(ctx context.Context, id int64) error

	SaveEducation(ctx context.Context, e *domain.Education) (*domain.Education, error)
	ListEducation(ctx context.Context) ([]*domain.Education, error)
	DeleteEducation(ctx context.Context, id int64) error

	SaveCertification(ctx context.Context, c *domain.Certification) (*domain.Certification, error)
	ListCertifications(ctx context.Context) ([]*domain.Certification, error)
	DeleteCertification(ctx context.Context, id int64) error

	SaveLanguage(ctx context.Context, l *domain.Language) (*domain.Language, error)
	ListLanguages(ctx context.Context) ([]*domain.Language, error)
	DeleteLanguage(ctx context.Context, id int64) error
}

// HistoryHandler serves the structured professional history collections.
type HistoryHandler struct {
	history historyRepo
}

func NewHistoryHandler(history historyRepo) *HistoryHandler {
	return &HistoryHandler{history: history}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

func (h *HistoryHandler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	items, err := h.history.ListExperiences(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *HistoryHandler) SaveExperience(w http.ResponseWriter, r *http.Request) {
	var e domain.Experience
	if err := decodeBody(r, &e); err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.history.SaveExperience(r.Context(), &e)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *HistoryHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.history.DeleteExperience(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *HistoryHandler) ListEducation(w http.ResponseWriter, r *http.Request) {
	items, err := h.history.ListEducation(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *HistoryHandler) SaveEducation(w http.ResponseWriter, r *http.Request) {
	var e domain.Education
	if err := decodeBody(r, &e); err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.history.SaveEducation(r.Context(), &e)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *HistoryHandler) DeleteEducation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.history.DeleteEducation(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *HistoryHandler) ListCertifications(w http.ResponseWriter, r *http.Request) {
	items, err := h.history.ListCertifications(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *HistoryHandler) SaveCertification(w http.ResponseWriter, r *http.Request) {
	var c domain.Certification
	if err := decodeBody(r, &c); err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.history.SaveCertification(r.Context(), &c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *HistoryHandler) DeleteCertification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.history.DeleteCertification(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *HistoryHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	items, err := h.history.ListLanguages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *HistoryHandler) SaveLanguage(w http.ResponseWriter, r *http.Request) {
	var l domain.Language
	if err := decodeBody(r, &l); err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.history.SaveLanguage(r.Context(), &l)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *HistoryHandler) DeleteLanguage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.history.DeleteLanguage(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
