package rest

import (
	"context"
	"net/http"

	"curriculos/internal/domain"
)

type curriculoRepo interface {
	Get(ctx context.Context, vagaUUID string) (*domain.Curriculo, error)
	Delete(ctx context.Context, vagaUUID string) error
}

// CurriculoHandler serves the generated resume attached to a vaga.
type CurriculoHandler struct {
	curriculos curriculoRepo
}

func NewCurriculoHandler(curriculos curriculoRepo) *CurriculoHandler {
	return &CurriculoHandler{curriculos: curriculos}
}

func (h *CurriculoHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.curriculos.Get(r.Context(), r.PathValue("uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CurriculoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.curriculos.Delete(r.Context(), r.PathValue("uuid")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
