// Package backup serializes the full dataset to a portable file and feeds
// imported files into reconciliation.
//
// Plaintext exports are portable across devices. Encrypted exports are bound
// to the encryption key, so without a shared passphrase they only restore on
// the device that wrote them; the file carries a magic prefix so the
// importer can tell the two modes apart unambiguously.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"curriculos/internal/config"
	"curriculos/internal/domain"
	"curriculos/internal/service/merge"
)

// MagicPrefix marks an encrypted backup file.
const MagicPrefix = "curriculos.enc.v1:"

type personalRepo interface {
	Get(ctx context.Context) (*domain.Personal, error)
}

type settingsRepo interface {
	Get(ctx context.Context) (*domain.Settings, error)
}

type vagaRepo interface {
	List(ctx context.Context) ([]*domain.Vaga, error)
}

type curriculoRepo interface {
	List(ctx context.Context) ([]*domain.Curriculo, error)
}

type historyRepo interface {
	ListExperiences(ctx context.Context) ([]*domain.Experience, error)
	ListEducation(ctx context.Context) ([]*domain.Education, error)
	ListCertifications(ctx context.Context) ([]*domain.Certification, error)
	ListLanguages(ctx context.Context) ([]*domain.Language, error)
}

type merger interface {
	Merge(ctx context.Context, snap *domain.Snapshot) (*merge.Report, error)
}

type cipher interface {
	Encrypt(v any) (string, error)
	Decrypt(token string, out any) error
}

// Service exports and imports backup files.
type Service struct {
	personal   personalRepo
	settings   settingsRepo
	vagas      vagaRepo
	curriculos curriculoRepo
	history    historyRepo
	merger     merger
	cipher     cipher
	cfg        config.BackupConfig
	log        *slog.Logger
}

// NewService creates a new backup service.
func NewService(
	log *slog.Logger,
	cfg config.BackupConfig,
	cipher cipher,
	personal personalRepo,
	settings settingsRepo,
	vagas vagaRepo,
	curriculos curriculoRepo,
	history historyRepo,
	merger merger,
) *Service {
	return &Service{
		personal:   personal,
		settings:   settings,
		vagas:      vagas,
		curriculos: curriculos,
		history:    history,
		merger:     merger,
		cipher:     cipher,
		cfg:        cfg,
		log:        log.With("service", "backup"),
	}
}

// Export assembles the full dataset into one envelope. The profile is
// decrypted into the envelope; with the encrypted toggle on, the whole
// envelope is sealed and prefixed instead.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	if !s.cfg.Encrypted {
		return raw, nil
	}

	token, err := s.cipher.Encrypt(json.RawMessage(raw))
	if err != nil {
		return nil, fmt.Errorf("encrypt snapshot: %w", err)
	}
	return []byte(MagicPrefix + token), nil
}

// Import decodes a backup file and reconciles it into the local store.
//
// An encrypted file that fails to open yields domain.ErrWrongKey: the
// backup came from a device with a different key, which is a different
// problem than a corrupt file. An envelope without a version marker yields
// domain.ErrInvalidBackup.
func (s *Service) Import(ctx context.Context, data []byte) (*merge.Report, error) {
	snap, err := s.Decode(data)
	if err != nil {
		return nil, err
	}
	return s.merger.Merge(ctx, snap)
}

// Decode parses a backup file into a snapshot without touching the store.
func (s *Service) Decode(data []byte) (*domain.Snapshot, error) {
	text := strings.TrimSpace(string(data))

	if strings.HasPrefix(text, MagicPrefix) {
		token := strings.TrimPrefix(text, MagicPrefix)
		var raw json.RawMessage
		if err := s.cipher.Decrypt(token, &raw); err != nil {
			if errors.Is(err, domain.ErrWrongKey) {
				return nil, fmt.Errorf("backup was encrypted on another device: %w", err)
			}
			return nil, fmt.Errorf("decrypt backup: %w", err)
		}
		return decodeEnvelope(raw)
	}

	snap, err := decodeEnvelope([]byte(text))
	if err != nil {
		// One retry after stripping a BOM; some editors add one on save.
		if retry, ok := bytes.CutPrefix([]byte(text), []byte("\ufeff")); ok {
			if snap2, err2 := decodeEnvelope(retry); err2 == nil {
				return snap2, nil
			}
		}
	}
	return snap, err
}

func decodeEnvelope(raw []byte) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("parse backup: %w", domain.ErrInvalidBackup)
	}
	if snap.Version == 0 {
		return nil, fmt.Errorf("backup has no version marker: %w", domain.ErrInvalidBackup)
	}
	return &snap, nil
}

func (s *Service) snapshot(ctx context.Context) (*domain.Snapshot, error) {
	p, err := s.personal.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("export profile: %w", err)
	}
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("export settings: %w", err)
	}
	vagas, err := s.vagas.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export vagas: %w", err)
	}
	curriculos, err := s.curriculos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export curriculos: %w", err)
	}
	experiences, err := s.history.ListExperiences(ctx)
	if err != nil {
		return nil, fmt.Errorf("export experiences: %w", err)
	}
	education, err := s.history.ListEducation(ctx)
	if err != nil {
		return nil, fmt.Errorf("export education: %w", err)
	}
	certifications, err := s.history.ListCertifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("export certifications: %w", err)
	}
	languages, err := s.history.ListLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("export languages: %w", err)
	}

	return &domain.Snapshot{
		Version:        domain.FormatVersion,
		ExportedAt:     time.Now().UTC(),
		Personal:       p,
		Vagas:          vagas,
		Curriculos:     curriculos,
		Experiences:    experiences,
		Education:      education,
		Certifications: certifications,
		Languages:      languages,
		Settings:       cfg,
	}, nil
}
