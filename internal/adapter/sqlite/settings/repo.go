// Package settings implements the app-settings repository. Settings are a
// plaintext singleton: they configure the device, they are not user content.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"curriculos/internal/adapter/sqlite"
	"curriculos/internal/domain"
)

// storeKey is the fixed key of the settings singleton.
const storeKey = "config"

// Repo provides settings persistence over the store engine.
type Repo struct {
	eng *sqlite.Engine
}

// New creates a new settings repository.
func New(eng *sqlite.Engine) *Repo {
	return &Repo{eng: eng}
}

// Get returns the stored settings. Absence yields zero settings, never an
// error: defaults apply until the user saves something.
func (r *Repo) Get(ctx context.Context) (*domain.Settings, error) {
	raw, err := r.eng.Get(ctx, sqlite.PartSettings, storeKey)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if raw == nil {
		return &domain.Settings{}, nil
	}

	var s domain.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &s, nil
}

// Save stamps updatedAt and persists the settings.
func (r *Repo) Save(ctx context.Context, s *domain.Settings) (*domain.Settings, error) {
	saved := *s
	saved.UpdatedAt = time.Now().UTC()

	if err := r.write(ctx, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Put persists the settings verbatim, keeping their timestamp. Used when
// adopting settings from an imported backup into an empty store.
func (r *Repo) Put(ctx context.Context, s *domain.Settings) error {
	return r.write(ctx, s)
}

func (r *Repo) write(ctx context.Context, s *domain.Settings) error {
	value, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := r.eng.Put(ctx, sqlite.PartSettings, value, storeKey); err != nil {
		return fmt.Errorf("put settings: %w", err)
	}
	return nil
}
