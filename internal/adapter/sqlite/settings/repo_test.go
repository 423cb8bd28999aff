package settings_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curriculos/internal/adapter/sqlite/settings"
	"curriculos/internal/adapter/sqlite/testhelper"
	"curriculos/internal/domain"
)

func TestRepo_GetAbsentIsZero(t *testing.T) {
	t.Parallel()

	repo := settings.New(testhelper.OpenEngine(t))

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestRepo_SaveAndGet(t *testing.T) {
	t.Parallel()

	repo := settings.New(testhelper.OpenEngine(t))
	ctx := context.Background()

	enabled := true
	saved, err := repo.Save(ctx, &domain.Settings{
		GroqKey:     "gsk_test",
		GroqModel:   "llama-3.3-70b-versatile",
		GroqEnabled: &enabled,
	})
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gsk_test", got.GroqKey)
	assert.True(t, got.GroqActive())
}

func TestRepo_RoundTripKeepsUnknownFields(t *testing.T) {
	t.Parallel()

	repo := settings.New(testhelper.OpenEngine(t))
	ctx := context.Background()

	s := &domain.Settings{
		GroqKey: "gsk_x",
		Extra:   map[string]json.RawMessage{"theme": json.RawMessage(`"dark"`)},
	}
	_, err := repo.Save(ctx, s)
	require.NoError(t, err)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Contains(t, got.Extra, "theme")
	assert.JSONEq(t, `"dark"`, string(got.Extra["theme"]))
}
