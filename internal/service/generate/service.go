// Package generate turns structured history plus a job description into a
// targeted resume, by calling the configured completion API when active or
// by preparing a prompt for the manual copy/paste flow otherwise.
//
// API trouble (missing key, disabled toggle, auth or quota failures,
// network errors, unparseable output) never fails the operation: it
// downgrades to the manual flow with a human-readable reason.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"curriculos/internal/config"
	"curriculos/internal/domain"
)

type vagaRepo interface {
	Get(ctx context.Context, vagaUUID string) (*domain.Vaga, error)
	Update(ctx context.Context, vagaUUID string, patch domain.VagaPatch) (*domain.Vaga, error)
}

type curriculoRepo interface {
	Save(ctx context.Context, c *domain.Curriculo) (*domain.Curriculo, error)
}

type settingsRepo interface {
	Get(ctx context.Context) (*domain.Settings, error)
}

type historyRepo interface {
	ListExperiences(ctx context.Context) ([]*domain.Experience, error)
	ListEducation(ctx context.Context) ([]*domain.Education, error)
	ListCertifications(ctx context.Context) ([]*domain.Certification, error)
	ListLanguages(ctx context.Context) ([]*domain.Language, error)
}

type completionClient interface {
	Complete(ctx context.Context, key, model, prompt string) (string, error)
	Test(ctx context.Context, key, model string) (string, error)
}

// Outcome is the result of a generation attempt. Either Generated is true
// and Curriculo holds the saved document, or the operation fell back to the
// manual flow and Prompt carries the text for the user to paste elsewhere.
type Outcome struct {
	Generated bool
	Curriculo *domain.Curriculo
	Prompt    string
	Reason    string
}

// Service orchestrates resume generation.
type Service struct {
	vagas      vagaRepo
	curriculos curriculoRepo
	settings   settingsRepo
	history    historyRepo
	client     completionClient
	template   string
	log        *slog.Logger
}

// NewService creates a new generation service. The prompt template is
// loaded once, from cfg.PromptPath when set.
func NewService(
	log *slog.Logger,
	cfg config.LLMConfig,
	client completionClient,
	vagas vagaRepo,
	curriculos curriculoRepo,
	settings settingsRepo,
	history historyRepo,
) (*Service, error) {
	template, err := loadPromptTemplate(cfg.PromptPath)
	if err != nil {
		return nil, err
	}
	return &Service{
		vagas:      vagas,
		curriculos: curriculos,
		settings:   settings,
		history:    history,
		client:     client,
		template:   template,
		log:        log.With("service", "generate"),
	}, nil
}

// BuildHistoryMarkdown flattens the stored history into the markdown
// document interpolated into the prompt. Empty history yields "".
func (s *Service) BuildHistoryMarkdown(ctx context.Context) (string, error) {
	experiences, err := s.history.ListExperiences(ctx)
	if err != nil {
		return "", fmt.Errorf("history: %w", err)
	}
	education, err := s.history.ListEducation(ctx)
	if err != nil {
		return "", fmt.Errorf("history: %w", err)
	}
	certifications, err := s.history.ListCertifications(ctx)
	if err != nil {
		return "", fmt.Errorf("history: %w", err)
	}
	languages, err := s.history.ListLanguages(ctx)
	if err != nil {
		return "", fmt.Errorf("history: %w", err)
	}
	return renderHistory(experiences, education, certifications, languages), nil
}

// Generate builds the prompt for a listing and tries the completion API.
// On success the result is saved as the listing's curriculo and the
// eligibility snapshot is cached on the listing itself.
func (s *Service) Generate(ctx context.Context, vagaUUID string) (*Outcome, error) {
	vaga, err := s.vagas.Get(ctx, vagaUUID)
	if err != nil {
		return nil, err
	}

	history, err := s.BuildHistoryMarkdown(ctx)
	if err != nil {
		return nil, err
	}
	if history == "" {
		return nil, domain.NewValidationError("history",
			"histórico profissional vazio, adicione experiências primeiro")
	}

	prompt := buildPrompt(s.template, history, vaga.Descricao)

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if reason, active := activeReason(cfg); !active {
		return &Outcome{Prompt: prompt, Reason: reason}, nil
	}

	text, err := s.client.Complete(ctx, cfg.GroqKey, cfg.Model(), prompt)
	if err != nil {
		reason := fallbackReason(err)
		s.log.Warn("generation fell back to manual flow", "vaga", vagaUUID, "reason", reason)
		return &Outcome{Prompt: prompt, Reason: reason}, nil
	}

	raw, ok := ExtractJSON(text)
	if !ok {
		return &Outcome{Prompt: prompt,
			Reason: "resposta em formato inválido — usando fluxo manual"}, nil
	}

	curr, err := s.finalize(ctx, vagaUUID, raw)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return &Outcome{Prompt: prompt,
				Reason: "resposta em formato inválido — usando fluxo manual"}, nil
		}
		return nil, err
	}
	return &Outcome{Generated: true, Curriculo: curr}, nil
}

// SaveManual stores a resume JSON pasted in by the user after the manual
// flow. The same shape rules apply as for generated output.
func (s *Service) SaveManual(ctx context.Context, vagaUUID string, raw json.RawMessage) (*domain.Curriculo, error) {
	if _, err := s.vagas.Get(ctx, vagaUUID); err != nil {
		return nil, err
	}
	return s.finalize(ctx, vagaUUID, raw)
}

// TestKey checks a candidate API key against the configured endpoint.
func (s *Service) TestKey(ctx context.Context, key string) (string, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return "", err
	}
	return s.client.Test(ctx, key, cfg.Model())
}

// finalize validates the generated document shape, saves it as the
// listing's curriculo and caches the eligibility snapshot on the listing.
func (s *Service) finalize(ctx context.Context, vagaUUID string, raw json.RawMessage) (*domain.Curriculo, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("parse document: %w", domain.ErrValidation)
	}
	eligibility, body := fields["elegibilidade"], fields["curriculo"]
	if len(eligibility) == 0 || len(body) == 0 {
		return nil, domain.NewValidationError("curriculo",
			"faltam os campos elegibilidade e curriculo")
	}

	curr, err := s.curriculos.Save(ctx, &domain.Curriculo{
		VagaUUID:    vagaUUID,
		Eligibility: eligibility,
		Body:        body,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.vagas.Update(ctx, vagaUUID, domain.VagaPatch{Eligibility: eligibility}); err != nil {
		// The curriculo is saved; a stale eligibility cache is tolerable.
		s.log.Warn("eligibility cache not updated", "vaga", vagaUUID, "error", err)
	}
	return curr, nil
}

func activeReason(cfg *domain.Settings) (string, bool) {
	if cfg.GroqEnabled != nil && !*cfg.GroqEnabled {
		return "geração automática desabilitada nas configurações", false
	}
	if !cfg.GroqActive() {
		return "chave da API não configurada", false
	}
	return "", true
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "chave da API inválida — usando fluxo manual"
	case errors.Is(err, ErrQuota):
		return "quota da API excedida — usando fluxo manual"
	default:
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return fmt.Sprintf("erro %d da API — usando fluxo manual", statusErr.Code)
		}
		return fmt.Sprintf("erro de rede: %v — usando fluxo manual", err)
	}
}
