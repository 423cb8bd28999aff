// Package testhelper opens throwaway store engines for adapter tests.
package testhelper

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"curriculos/internal/adapter/sqlite"
	"curriculos/internal/config"
)

// OpenEngine opens a fully migrated engine over a fresh database file in a
// per-test temp dir. The engine is closed automatically at test cleanup.
func OpenEngine(t *testing.T) *sqlite.Engine {
	t.Helper()

	cfg := config.StorageConfig{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		BusyTimeout: 5 * time.Second,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	eng, err := sqlite.Open(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	return eng
}
