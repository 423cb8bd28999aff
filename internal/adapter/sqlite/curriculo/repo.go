// Package curriculo implements the generated-resume repository. A curriculo
// is keyed by the UUID of the listing it was generated for.
package curriculo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"curriculos/internal/adapter/sqlite"
	"curriculos/internal/domain"
)

// Repo provides curriculo persistence over the store engine.
type Repo struct {
	eng *sqlite.Engine
}

// New creates a new curriculo repository.
func New(eng *sqlite.Engine) *Repo {
	return &Repo{eng: eng}
}

// Save stamps updatedAt and upserts the curriculo for a listing.
func (r *Repo) Save(ctx context.Context, c *domain.Curriculo) (*domain.Curriculo, error) {
	if c.VagaUUID == "" {
		return nil, domain.NewValidationError("vaga_uuid", "is required")
	}

	saved := *c
	saved.UpdatedAt = time.Now().UTC()

	if err := r.put(ctx, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Get returns the curriculo for a listing.
// Returns domain.ErrNotFound if none was generated yet.
func (r *Repo) Get(ctx context.Context, vagaUUID string) (*domain.Curriculo, error) {
	raw, err := r.eng.Get(ctx, sqlite.PartCurriculos, vagaUUID)
	if err != nil {
		return nil, fmt.Errorf("get curriculo: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("curriculo %s: %w", vagaUUID, domain.ErrNotFound)
	}

	var c domain.Curriculo
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode curriculo %s: %w", vagaUUID, err)
	}
	return &c, nil
}

// Exists reports whether a curriculo was generated for the listing.
func (r *Repo) Exists(ctx context.Context, vagaUUID string) (bool, error) {
	raw, err := r.eng.Get(ctx, sqlite.PartCurriculos, vagaUUID)
	if err != nil {
		return false, fmt.Errorf("get curriculo: %w", err)
	}
	return raw != nil, nil
}

// Delete removes the curriculo for a listing. Absent is not an error.
func (r *Repo) Delete(ctx context.Context, vagaUUID string) error {
	if err := r.eng.Delete(ctx, sqlite.PartCurriculos, vagaUUID); err != nil {
		return fmt.Errorf("delete curriculo %s: %w", vagaUUID, err)
	}
	return nil
}

// List returns all stored curriculos.
// Returns an empty slice (not nil) when there are none.
func (r *Repo) List(ctx context.Context) ([]*domain.Curriculo, error) {
	raws, err := r.eng.ListAll(ctx, sqlite.PartCurriculos)
	if err != nil {
		return nil, fmt.Errorf("list curriculos: %w", err)
	}

	out := make([]*domain.Curriculo, 0, len(raws))
	for _, raw := range raws {
		var c domain.Curriculo
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode curriculo: %w", err)
		}
		out = append(out, &c)
	}
	return out, nil
}

// Put writes a curriculo verbatim, keeping its timestamp. Used when
// adopting a curriculo from an imported backup.
func (r *Repo) Put(ctx context.Context, c *domain.Curriculo) error {
	if c.VagaUUID == "" {
		return domain.NewValidationError("vaga_uuid", "is required")
	}
	return r.put(ctx, c)
}

func (r *Repo) put(ctx context.Context, c *domain.Curriculo) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode curriculo %s: %w", c.VagaUUID, err)
	}
	if err := r.eng.Put(ctx, sqlite.PartCurriculos, raw); err != nil {
		return fmt.Errorf("put curriculo %s: %w", c.VagaUUID, err)
	}
	return nil
}
