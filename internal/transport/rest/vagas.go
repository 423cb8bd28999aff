package rest

import (
	"context"
	"net/http"

	"curriculos/internal/adapter/sqlite/vaga"
	"curriculos/internal/domain"
)

type vagaRepo interface {
	Create(ctx context.Context, empresa, cargo, descricao string) (*domain.Vaga, error)
	Get(ctx context.Context, vagaUUID string) (*domain.Vaga, error)
	List(ctx context.Context) ([]*domain.Vaga, error)
	Update(ctx context.Context, vagaUUID string, patch domain.VagaPatch) (*domain.Vaga, error)
	Delete(ctx context.Context, vagaUUID string) (vaga.DeleteResult, error)
}

// VagaHandler serves CRUD for tracked job listings.
type VagaHandler struct {
	vagas vagaRepo
}

func NewVagaHandler(vagas vagaRepo) *VagaHandler {
	return &VagaHandler{vagas: vagas}
}

type createVagaRequest struct {
	Empresa   string `json:"empresa"`
	Cargo     string `json:"cargo"`
	Descricao string `json:"descricao"`
}

type patchVagaRequest struct {
	Empresa   *string            `json:"empresa"`
	Cargo     *string            `json:"cargo"`
	Descricao *string            `json:"descricao"`
	Status    *domain.VagaStatus `json:"status"`
}

type deleteVagaResponse struct {
	Deleted          bool `json:"deleted"`
	CurriculoRemoved bool `json:"curriculo_removed"`
}

func (h *VagaHandler) List(w http.ResponseWriter, r *http.Request) {
	vagas, err := h.vagas.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vagas)
}

func (h *VagaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createVagaRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	v, err := h.vagas.Create(r.Context(), req.Empresa, req.Cargo, req.Descricao)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *VagaHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.vagas.Get(r.Context(), r.PathValue("uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *VagaHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var req patchVagaRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	patch := domain.VagaPatch{
		Empresa:   req.Empresa,
		Cargo:     req.Cargo,
		Descricao: req.Descricao,
		Status:    req.Status,
	}
	v, err := h.vagas.Update(r.Context(), r.PathValue("uuid"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *VagaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.vagas.Delete(r.Context(), r.PathValue("uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteVagaResponse{
		Deleted:          true,
		CurriculoRemoved: res.CurriculoRemoved,
	})
}
