// Package vaga implements the job-listing repository.
package vaga

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"curriculos/internal/adapter/sqlite"
	"curriculos/internal/domain"
)

// Repo provides job-listing persistence over the store engine.
type Repo struct {
	eng *sqlite.Engine
}

// New creates a new job-listing repository.
func New(eng *sqlite.Engine) *Repo {
	return &Repo{eng: eng}
}

// DeleteResult reports what a cascading delete actually did. Removing the
// listing is authoritative; removing its curriculo is best effort and a
// failure there is surfaced, not fatal.
type DeleteResult struct {
	CurriculoRemoved bool
	CurriculoErr     error
}

// Create inserts a new listing with a fresh UUID and status "created".
func (r *Repo) Create(ctx context.Context, empresa, cargo, descricao string) (*domain.Vaga, error) {
	if empresa == "" && cargo == "" {
		return nil, domain.NewValidationError("empresa", "empresa or cargo is required")
	}

	now := time.Now().UTC()
	v := &domain.Vaga{
		UUID:      uuid.NewString(),
		Empresa:   empresa,
		Cargo:     cargo,
		Descricao: descricao,
		Status:    domain.StatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.put(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Get returns a listing by UUID.
// Returns domain.ErrNotFound if the listing does not exist.
func (r *Repo) Get(ctx context.Context, vagaUUID string) (*domain.Vaga, error) {
	raw, err := r.eng.Get(ctx, sqlite.PartVagas, vagaUUID)
	if err != nil {
		return nil, fmt.Errorf("get vaga: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("vaga %s: %w", vagaUUID, domain.ErrNotFound)
	}

	var v domain.Vaga
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode vaga %s: %w", vagaUUID, err)
	}
	return &v, nil
}

// List returns all listings, newest registration first.
// Returns an empty slice (not nil) when there are none.
func (r *Repo) List(ctx context.Context) ([]*domain.Vaga, error) {
	raws, err := r.eng.ListAll(ctx, sqlite.PartVagas)
	if err != nil {
		return nil, fmt.Errorf("list vagas: %w", err)
	}

	vagas := make([]*domain.Vaga, 0, len(raws))
	for _, raw := range raws {
		var v domain.Vaga
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode vaga: %w", err)
		}
		vagas = append(vagas, &v)
	}

	sort.SliceStable(vagas, func(i, j int) bool {
		return vagas[i].CreatedAt.After(vagas[j].CreatedAt)
	})
	return vagas, nil
}

// Update applies a partial update and restamps updatedAt.
// Returns domain.ErrNotFound if the listing does not exist.
func (r *Repo) Update(ctx context.Context, vagaUUID string, patch domain.VagaPatch) (*domain.Vaga, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	v, err := r.Get(ctx, vagaUUID)
	if err != nil {
		return nil, err
	}

	patch.Apply(v)
	v.UpdatedAt = time.Now().UTC()

	if err := r.put(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes a listing and, best effort, its generated curriculo.
// Returns domain.ErrNotFound if the listing does not exist; a curriculo
// cleanup failure is reported in the result, not as an error.
func (r *Repo) Delete(ctx context.Context, vagaUUID string) (DeleteResult, error) {
	if _, err := r.Get(ctx, vagaUUID); err != nil {
		return DeleteResult{}, err
	}

	var res DeleteResult
	curr, err := r.eng.Get(ctx, sqlite.PartCurriculos, vagaUUID)
	switch {
	case err != nil:
		res.CurriculoErr = err
	case curr != nil:
		if err := r.eng.Delete(ctx, sqlite.PartCurriculos, vagaUUID); err != nil {
			res.CurriculoErr = err
		} else {
			res.CurriculoRemoved = true
		}
	}

	if err := r.eng.Delete(ctx, sqlite.PartVagas, vagaUUID); err != nil {
		return res, fmt.Errorf("delete vaga %s: %w", vagaUUID, err)
	}
	return res, nil
}

// Put writes a listing verbatim, keeping its UUID and timestamps. Used when
// adopting a listing from an imported backup.
func (r *Repo) Put(ctx context.Context, v *domain.Vaga) error {
	if v.UUID == "" {
		return domain.NewValidationError("uuid", "is required")
	}
	return r.put(ctx, v)
}

func (r *Repo) put(ctx context.Context, v *domain.Vaga) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode vaga %s: %w", v.UUID, err)
	}
	if err := r.eng.Put(ctx, sqlite.PartVagas, raw); err != nil {
		return fmt.Errorf("put vaga %s: %w", v.UUID, err)
	}
	return nil
}
