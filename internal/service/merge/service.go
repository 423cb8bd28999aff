// Package merge reconciles an imported dataset against the local store.
//
// Import is additive: every incoming record either overwrites its local
// counterpart (when it is the later edit), is inserted as new, or is
// skipped. Local records with no incoming counterpart are never touched.
// A single bad record never aborts the run; it is absorbed into the tally.
package merge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"curriculos/internal/domain"
)

type personalRepo interface {
	Get(ctx context.Context) (*domain.Personal, error)
	Put(ctx context.Context, p *domain.Personal) error
}

type settingsRepo interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Put(ctx context.Context, s *domain.Settings) error
}

type vagaRepo interface {
	Get(ctx context.Context, vagaUUID string) (*domain.Vaga, error)
	Put(ctx context.Context, v *domain.Vaga) error
}

type curriculoRepo interface {
	Get(ctx context.Context, vagaUUID string) (*domain.Curriculo, error)
	Put(ctx context.Context, c *domain.Curriculo) error
}

type historyRepo interface {
	ListExperiences(ctx context.Context) ([]*domain.Experience, error)
	InsertExperience(ctx context.Context, e *domain.Experience) (int64, error)
	PutExperience(ctx context.Context, e *domain.Experience) error

	ListEducation(ctx context.Context) ([]*domain.Education, error)
	InsertEducation(ctx context.Context, e *domain.Education) (int64, error)
	PutEducation(ctx context.Context, e *domain.Education) error

	ListCertifications(ctx context.Context) ([]*domain.Certification, error)
	InsertCertification(ctx context.Context, c *domain.Certification) (int64, error)
	PutCertification(ctx context.Context, c *domain.Certification) error

	ListLanguages(ctx context.Context) ([]*domain.Language, error)
	InsertLanguage(ctx context.Context, l *domain.Language) (int64, error)
	PutLanguage(ctx context.Context, l *domain.Language) error
}

// Service reconciles snapshots against the local repositories.
type Service struct {
	personal   personalRepo
	settings   settingsRepo
	vagas      vagaRepo
	curriculos curriculoRepo
	history    historyRepo
	log        *slog.Logger
}

// NewService creates a new merge service.
func NewService(
	log *slog.Logger,
	personal personalRepo,
	settings settingsRepo,
	vagas vagaRepo,
	curriculos curriculoRepo,
	history historyRepo,
) *Service {
	return &Service{
		personal:   personal,
		settings:   settings,
		vagas:      vagas,
		curriculos: curriculos,
		history:    history,
		log:        log.With("service", "merge"),
	}
}

// Merge reconciles the snapshot into the local store and reports what it
// did. The only upfront rejection is a snapshot without a version marker;
// after that, per-record failures are logged, counted as skipped and the
// run continues.
func (s *Service) Merge(ctx context.Context, snap *domain.Snapshot) (*Report, error) {
	if snap == nil || snap.Version == 0 {
		return nil, fmt.Errorf("snapshot has no version marker: %w", domain.ErrInvalidBackup)
	}

	var rep Report
	s.mergePersonal(ctx, snap.Personal, &rep.Personal)
	s.mergeSettings(ctx, snap.Settings, &rep.Settings)
	s.mergeVagas(ctx, snap.Vagas, &rep.Vagas)
	s.mergeCurriculos(ctx, snap.Curriculos, &rep.Curriculos)
	s.mergeExperiences(ctx, snap.Experiences, &rep.Experiences)
	s.mergeEducation(ctx, snap.Education, &rep.Education)
	s.mergeCertifications(ctx, snap.Certifications, &rep.Certifications)
	s.mergeLanguages(ctx, snap.Languages, &rep.Languages)

	s.log.Info("merge finished",
		"vagas_added", rep.Vagas.Added,
		"vagas_updated", rep.Vagas.Updated,
		"vagas_skipped", rep.Vagas.Skipped,
	)
	return &rep, nil
}

func (s *Service) mergePersonal(ctx context.Context, incoming *domain.Personal, t *Tally) {
	if incoming == nil {
		return
	}

	local, err := s.personal.Get(ctx)
	if err != nil && !errors.Is(err, domain.ErrWrongKey) && !errors.Is(err, domain.ErrCiphertext) {
		s.skip(t, "personal", err)
		return
	}
	// An unreadable local profile is treated as absent: the import is the
	// only recoverable copy.
	if local == nil || err != nil {
		if err := s.personal.Put(ctx, incoming); err != nil {
			s.skip(t, "personal", err)
			return
		}
		t.Added++
		return
	}

	switch pickNewer(local.UpdatedAt, incoming.UpdatedAt) {
	case keepLocal:
		t.Skipped++
	case adoptNewer:
		if err := s.personal.Put(ctx, incoming); err != nil {
			s.skip(t, "personal", err)
			return
		}
		t.Updated++
	case adoptTie:
		if err := s.personal.Put(ctx, incoming); err != nil {
			s.skip(t, "personal", err)
			return
		}
		t.Skipped++
	}
}

// mergeSettings adopts foreign settings only into an empty local store.
// Settings are device configuration; a backup from another device must
// never silently replace them.
func (s *Service) mergeSettings(ctx context.Context, incoming *domain.Settings, t *Tally) {
	if incoming == nil || incoming.IsZero() {
		return
	}

	local, err := s.settings.Get(ctx)
	if err != nil {
		s.skip(t, "settings", err)
		return
	}
	if !local.IsZero() {
		t.Skipped++
		return
	}
	if err := s.settings.Put(ctx, incoming); err != nil {
		s.skip(t, "settings", err)
		return
	}
	t.Added++
}

func (s *Service) mergeVagas(ctx context.Context, incoming []*domain.Vaga, t *Tally) {
	for _, f := range incoming {
		if f == nil || f.UUID == "" {
			t.Skipped++
			continue
		}

		local, err := s.vagas.Get(ctx, f.UUID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.skip(t, "vaga", err)
			continue
		}
		if local == nil {
			if err := s.vagas.Put(ctx, f); err != nil {
				s.skip(t, "vaga", err)
				continue
			}
			t.Added++
			continue
		}

		switch pickNewer(local.UpdatedAt, f.UpdatedAt) {
		case keepLocal:
			t.Skipped++
		case adoptNewer:
			if err := s.vagas.Put(ctx, f); err != nil {
				s.skip(t, "vaga", err)
				continue
			}
			t.Updated++
		case adoptTie:
			if err := s.vagas.Put(ctx, f); err != nil {
				s.skip(t, "vaga", err)
				continue
			}
			t.Skipped++
		}
	}
}

func (s *Service) mergeCurriculos(ctx context.Context, incoming []*domain.Curriculo, t *Tally) {
	for _, f := range incoming {
		if f == nil || f.VagaUUID == "" {
			t.Skipped++
			continue
		}

		local, err := s.curriculos.Get(ctx, f.VagaUUID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.skip(t, "curriculo", err)
			continue
		}
		if local == nil {
			if err := s.curriculos.Put(ctx, f); err != nil {
				s.skip(t, "curriculo", err)
				continue
			}
			t.Added++
			continue
		}

		switch pickNewer(local.UpdatedAt, f.UpdatedAt) {
		case keepLocal:
			t.Skipped++
		case adoptNewer:
			if err := s.curriculos.Put(ctx, f); err != nil {
				s.skip(t, "curriculo", err)
				continue
			}
			t.Updated++
		case adoptTie:
			if err := s.curriculos.Put(ctx, f); err != nil {
				s.skip(t, "curriculo", err)
				continue
			}
			t.Skipped++
		}
	}
}

// History kinds match two-tiered: by surrogate id when the foreign item
// carries one known locally, else by the kind's natural key. Unmatched
// items insert with a fresh local id; matched overwrites keep the local id.

func (s *Service) mergeExperiences(ctx context.Context, incoming []*domain.Experience, t *Tally) {
	locals, err := s.history.ListExperiences(ctx)
	if err != nil {
		s.skipAll(t, len(incoming), "experiences", err)
		return
	}

	byID := make(map[int64]*domain.Experience, len(locals))
	byKey := make(map[string]*domain.Experience, len(locals))
	for _, l := range locals {
		byID[l.ID] = l
		if k := l.NaturalKey(); k != "" {
			byKey[k] = l
		}
	}

	for _, f := range incoming {
		if f == nil {
			t.Skipped++
			continue
		}

		local := byID[f.ID]
		if local == nil {
			if k := f.NaturalKey(); k != "" {
				local = byKey[k]
			} else if f.ID == 0 {
				t.Skipped++ // no usable key at all
				continue
			}
		}

		if local == nil {
			if _, err := s.history.InsertExperience(ctx, f); err != nil {
				s.skip(t, "experience", err)
				continue
			}
			t.Added++
			continue
		}

		decision := pickNewer(local.UpdatedAt, f.UpdatedAt)
		if decision == keepLocal {
			t.Skipped++
			continue
		}
		adopted := *f
		adopted.ID = local.ID
		if err := s.history.PutExperience(ctx, &adopted); err != nil {
			s.skip(t, "experience", err)
			continue
		}
		if decision == adoptTie {
			t.Skipped++
		} else {
			t.Updated++
		}
	}
}

func (s *Service) mergeEducation(ctx context.Context, incoming []*domain.Education, t *Tally) {
	locals, err := s.history.ListEducation(ctx)
	if err != nil {
		s.skipAll(t, len(incoming), "education", err)
		return
	}

	byID := make(map[int64]*domain.Education, len(locals))
	byKey := make(map[string]*domain.Education, len(locals))
	for _, l := range locals {
		byID[l.ID] = l
		if k := l.NaturalKey(); k != "" {
			byKey[k] = l
		}
	}

	for _, f := range incoming {
		if f == nil {
			t.Skipped++
			continue
		}

		local := byID[f.ID]
		if local == nil {
			if k := f.NaturalKey(); k != "" {
				local = byKey[k]
			} else if f.ID == 0 {
				t.Skipped++
				continue
			}
		}

		if local == nil {
			if _, err := s.history.InsertEducation(ctx, f); err != nil {
				s.skip(t, "education", err)
				continue
			}
			t.Added++
			continue
		}

		decision := pickNewer(local.UpdatedAt, f.UpdatedAt)
		if decision == keepLocal {
			t.Skipped++
			continue
		}
		adopted := *f
		adopted.ID = local.ID
		if err := s.history.PutEducation(ctx, &adopted); err != nil {
			s.skip(t, "education", err)
			continue
		}
		if decision == adoptTie {
			t.Skipped++
		} else {
			t.Updated++
		}
	}
}

func (s *Service) mergeCertifications(ctx context.Context, incoming []*domain.Certification, t *Tally) {
	locals, err := s.history.ListCertifications(ctx)
	if err != nil {
		s.skipAll(t, len(incoming), "certifications", err)
		return
	}

	byID := make(map[int64]*domain.Certification, len(locals))
	byKey := make(map[string]*domain.Certification, len(locals))
	for _, l := range locals {
		byID[l.ID] = l
		if k := l.NaturalKey(); k != "" {
			byKey[k] = l
		}
	}

	for _, f := range incoming {
		if f == nil {
			t.Skipped++
			continue
		}

		local := byID[f.ID]
		if local == nil {
			if k := f.NaturalKey(); k != "" {
				local = byKey[k]
			} else if f.ID == 0 {
				t.Skipped++
				continue
			}
		}

		if local == nil {
			if _, err := s.history.InsertCertification(ctx, f); err != nil {
				s.skip(t, "certification", err)
				continue
			}
			t.Added++
			continue
		}

		decision := pickNewer(local.UpdatedAt, f.UpdatedAt)
		if decision == keepLocal {
			t.Skipped++
			continue
		}
		adopted := *f
		adopted.ID = local.ID
		if err := s.history.PutCertification(ctx, &adopted); err != nil {
			s.skip(t, "certification", err)
			continue
		}
		if decision == adoptTie {
			t.Skipped++
		} else {
			t.Updated++
		}
	}
}

func (s *Service) mergeLanguages(ctx context.Context, incoming []*domain.Language, t *Tally) {
	locals, err := s.history.ListLanguages(ctx)
	if err != nil {
		s.skipAll(t, len(incoming), "languages", err)
		return
	}

	byID := make(map[int64]*domain.Language, len(locals))
	byKey := make(map[string]*domain.Language, len(locals))
	for _, l := range locals {
		byID[l.ID] = l
		if k := l.NaturalKey(); k != "" {
			byKey[k] = l
		}
	}

	for _, f := range incoming {
		if f == nil {
			t.Skipped++
			continue
		}

		local := byID[f.ID]
		if local == nil {
			if k := f.NaturalKey(); k != "" {
				local = byKey[k]
			} else if f.ID == 0 {
				t.Skipped++
				continue
			}
		}

		if local == nil {
			if _, err := s.history.InsertLanguage(ctx, f); err != nil {
				s.skip(t, "language", err)
				continue
			}
			t.Added++
			continue
		}

		decision := pickNewer(local.UpdatedAt, f.UpdatedAt)
		if decision == keepLocal {
			t.Skipped++
			continue
		}
		adopted := *f
		adopted.ID = local.ID
		if err := s.history.PutLanguage(ctx, &adopted); err != nil {
			s.skip(t, "language", err)
			continue
		}
		if decision == adoptTie {
			t.Skipped++
		} else {
			t.Updated++
		}
	}
}

func (s *Service) skip(t *Tally, kind string, err error) {
	t.Skipped++
	s.log.Warn("record skipped", "kind", kind, "error", err)
}

func (s *Service) skipAll(t *Tally, n int, kind string, err error) {
	t.Skipped += n
	s.log.Warn("section skipped", "kind", kind, "count", n, "error", err)
}
