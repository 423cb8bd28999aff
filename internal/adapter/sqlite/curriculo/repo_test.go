package curriculo_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curriculos/internal/adapter/sqlite/curriculo"
	"curriculos/internal/adapter/sqlite/testhelper"
	"curriculos/internal/domain"
)

func TestRepo_SaveAndGet(t *testing.T) {
	t.Parallel()

	repo := curriculo.New(testhelper.OpenEngine(t))
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.Curriculo{
		VagaUUID:    "v1",
		Eligibility: json.RawMessage(`{"nota":8}`),
		Body:        json.RawMessage(`{"resumo":"..."}`),
	})
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err := repo.Get(ctx, "v1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"nota":8}`, string(got.Eligibility))
}

func TestRepo_SaveRequiresVagaUUID(t *testing.T) {
	t.Parallel()

	repo := curriculo.New(testhelper.OpenEngine(t))

	_, err := repo.Save(context.Background(), &domain.Curriculo{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRepo_GetNotFound(t *testing.T) {
	t.Parallel()

	repo := curriculo.New(testhelper.OpenEngine(t))

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_ExistsAndDelete(t *testing.T) {
	t.Parallel()

	repo := curriculo.New(testhelper.OpenEngine(t))
	ctx := context.Background()

	_, err := repo.Save(ctx, &domain.Curriculo{VagaUUID: "v1"})
	require.NoError(t, err)

	exists, err := repo.Exists(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, "v1"))
	require.NoError(t, repo.Delete(ctx, "v1")) // idempotent

	exists, err = repo.Exists(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepo_List(t *testing.T) {
	t.Parallel()

	repo := curriculo.New(testhelper.OpenEngine(t))
	ctx := context.Background()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = repo.Save(ctx, &domain.Curriculo{VagaUUID: "v1"})
	require.NoError(t, err)
	_, err = repo.Save(ctx, &domain.Curriculo{VagaUUID: "v2"})
	require.NoError(t, err)

	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
