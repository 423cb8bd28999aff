package personal_test

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curriculos/internal/adapter/sqlite"
	"curriculos/internal/adapter/sqlite/personal"
	"curriculos/internal/adapter/sqlite/testhelper"
	"curriculos/internal/crypto"
	"curriculos/internal/domain"
)

func newCipher(t *testing.T) *crypto.Cipher {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	c, err := crypto.NewWithKey(key)
	require.NoError(t, err)
	return c
}

func TestRepo_SaveAndGet(t *testing.T) {
	t.Parallel()

	eng := testhelper.OpenEngine(t)
	repo := personal.New(eng, newCipher(t))
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.Personal{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "ana@example.com", got.Email)

	// The stored value must be a cipher token, not the plaintext object.
	raw, err := eng.Get(ctx, sqlite.PartPersonal, "data")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Ana")
}

func TestRepo_GetAbsent(t *testing.T) {
	t.Parallel()

	repo := personal.New(testhelper.OpenEngine(t), newCipher(t))

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepo_SaveValidates(t *testing.T) {
	t.Parallel()

	repo := personal.New(testhelper.OpenEngine(t), newCipher(t))

	_, err := repo.Save(context.Background(), &domain.Personal{Name: "Ana"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRepo_GetLegacyPlaintext(t *testing.T) {
	t.Parallel()

	eng := testhelper.OpenEngine(t)
	repo := personal.New(eng, newCipher(t))
	ctx := context.Background()

	// Databases written before encryption hold the object directly.
	legacy := json.RawMessage(`{"name":"Ana","email":"ana@example.com"}`)
	require.NoError(t, eng.Put(ctx, sqlite.PartPersonal, legacy, "data"))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
}

func TestRepo_GetWrongKey(t *testing.T) {
	t.Parallel()

	eng := testhelper.OpenEngine(t)
	ctx := context.Background()

	// Written under one key, read under another.
	_, err := personal.New(eng, newCipher(t)).Save(ctx, &domain.Personal{Name: "Ana", Email: "a@b.c"})
	require.NoError(t, err)

	_, err = personal.New(eng, newCipher(t)).Get(ctx)
	assert.ErrorIs(t, err, domain.ErrWrongKey)
}

func TestRepo_PutKeepsTimestamp(t *testing.T) {
	t.Parallel()

	eng := testhelper.OpenEngine(t)
	repo := personal.New(eng, newCipher(t))
	ctx := context.Background()

	imported := &domain.Personal{Name: "Bia", Email: "bia@example.com"}
	imported.UpdatedAt = imported.UpdatedAt.AddDate(2024, 0, 0)

	require.NoError(t, repo.Put(ctx, imported))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, imported.UpdatedAt, got.UpdatedAt)
}
