// Package personal implements the profile repository. The profile is a
// singleton stored encrypted at rest; databases written before encryption
// was introduced hold a plaintext object and are still readable.
package personal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"curriculos/internal/adapter/sqlite"
	"curriculos/internal/crypto"
	"curriculos/internal/domain"
)

// storeKey is the fixed key of the profile singleton.
const storeKey = "data"

// Repo provides profile persistence over the store engine.
type Repo struct {
	eng    *sqlite.Engine
	cipher *crypto.Cipher
}

// New creates a new profile repository.
func New(eng *sqlite.Engine, cipher *crypto.Cipher) *Repo {
	return &Repo{eng: eng, cipher: cipher}
}

// Save validates, stamps updatedAt and writes the profile encrypted.
func (r *Repo) Save(ctx context.Context, p *domain.Personal) (*domain.Personal, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	saved := *p
	saved.UpdatedAt = time.Now().UTC()

	if err := r.write(ctx, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Put writes the profile verbatim, keeping its timestamps. Used when
// adopting a profile from an imported backup.
func (r *Repo) Put(ctx context.Context, p *domain.Personal) error {
	return r.write(ctx, p)
}

// Get returns the stored profile, or (nil, nil) when none was ever saved.
//
// An unreadable ciphertext is an error distinct from absence: the caller
// must be able to tell "no profile yet" from "profile exists but this key
// cannot open it".
func (r *Repo) Get(ctx context.Context) (*domain.Personal, error) {
	raw, err := r.eng.Get(ctx, sqlite.PartPersonal, storeKey)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	// Encrypted profiles are stored as a JSON string holding the token.
	var token string
	if err := json.Unmarshal(raw, &token); err == nil {
		var p domain.Personal
		if err := r.cipher.Decrypt(token, &p); err != nil {
			if errors.Is(err, domain.ErrCiphertext) || errors.Is(err, domain.ErrWrongKey) {
				return nil, fmt.Errorf("profile: %w", err)
			}
			return nil, fmt.Errorf("decrypt profile: %w", err)
		}
		return &p, nil
	}

	// Legacy plaintext object from before encryption.
	var p domain.Personal
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("profile: decode: %w", domain.ErrCiphertext)
	}
	return &p, nil
}

func (r *Repo) write(ctx context.Context, p *domain.Personal) error {
	token, err := r.cipher.Encrypt(p)
	if err != nil {
		return fmt.Errorf("encrypt profile: %w", err)
	}
	value, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := r.eng.Put(ctx, sqlite.PartPersonal, value, storeKey); err != nil {
		return fmt.Errorf("put profile: %w", err)
	}
	return nil
}
