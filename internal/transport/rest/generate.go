package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"curriculos/internal/domain"
	"curriculos/internal/service/generate"
)

type generateService interface {
	Generate(ctx context.Context, vagaUUID string) (*generate.Outcome, error)
	SaveManual(ctx context.Context, vagaUUID string, raw json.RawMessage) (*domain.Curriculo, error)
	TestKey(ctx context.Context, key string) (string, error)
	BuildHistoryMarkdown(ctx context.Context) (string, error)
}

// GenerateHandler serves resume generation and the manual fallback flow.
type GenerateHandler struct {
	generator generateService
}

func NewGenerateHandler(generator generateService) *GenerateHandler {
	return &GenerateHandler{generator: generator}
}

type generateResponse struct {
	Generated bool              `json:"generated"`
	Curriculo *domain.Curriculo `json:"curriculo,omitempty"`
	Prompt    string            `json:"prompt,omitempty"`
	Reason    string            `json:"reason,omitempty"`
}

type testKeyRequest struct {
	Key string `json:"key"`
}

type testKeyResponse struct {
	OK    bool   `json:"ok"`
	Model string `json:"model,omitempty"`
	Error string `json:"error,omitempty"`
}

// Generate runs the automatic flow for a vaga. When the LLM is unavailable
// it still responds 200 with the assembled prompt and a fallback reason.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	out, err := h.generator.Generate(r.Context(), r.PathValue("uuid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Generated: out.Generated,
		Curriculo: out.Curriculo,
		Prompt:    out.Prompt,
		Reason:    out.Reason,
	})
}

// SaveManual stores an LLM response the user pasted in by hand.
func (h *GenerateHandler) SaveManual(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decodeBody(r, &raw); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.generator.SaveManual(r.Context(), r.PathValue("uuid"), raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// TestKey checks an API key against the provider without persisting it.
// Provider rejections are a normal outcome here, so they come back as a
// 200 with ok=false instead of an error status.
func (h *GenerateHandler) TestKey(w http.ResponseWriter, r *http.Request) {
	var req testKeyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	model, err := h.generator.TestKey(r.Context(), req.Key)
	if err != nil {
		writeJSON(w, http.StatusOK, testKeyResponse{OK: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, testKeyResponse{OK: true, Model: model})
}

// HistoryMarkdown returns the assembled professional history document.
func (h *GenerateHandler) HistoryMarkdown(w http.ResponseWriter, r *http.Request) {
	md, err := h.generator.BuildHistoryMarkdown(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"markdown": md})
}
