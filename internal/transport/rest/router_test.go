package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curriculos/internal/adapter/sqlite/curriculo"
	"curriculos/internal/adapter/sqlite/history"
	"curriculos/internal/adapter/sqlite/personal"
	"curriculos/internal/adapter/sqlite/settings"
	"curriculos/internal/adapter/sqlite/testhelper"
	"curriculos/internal/adapter/sqlite/vaga"
	"curriculos/internal/config"
	"curriculos/internal/crypto"
	"curriculos/internal/domain"
	"curriculos/internal/service/backup"
	"curriculos/internal/service/generate"
	"curriculos/internal/service/merge"
	"curriculos/internal/transport/rest"
)

const stubDocument = `{
	"elegibilidade": {"nota": 8, "veredicto": "apto"},
	"curriculo": {"resumo": "Dev backend."}
}`

type stubClient struct {
	reply string
}

func (c *stubClient) Complete(ctx context.Context, key, model, prompt string) (string, error) {
	return c.reply, nil
}

func (c *stubClient) Test(ctx context.Context, key, model string) (string, error) {
	return "llama-3.3-70b-versatile", nil
}

// newServer wires the whole API over a throwaway store.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	eng := testhelper.OpenEngine(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cipher, err := crypto.NewWithKey(bytes.Repeat([]byte{0x42}, 32))
	require.NoError(t, err)

	personalRepo := personal.New(eng, cipher)
	settingsRepo := settings.New(eng)
	vagaRepo := vaga.New(eng)
	curriculoRepo := curriculo.New(eng)
	historyRepo := history.New(eng)

	merger := merge.NewService(log, personalRepo, settingsRepo, vagaRepo, curriculoRepo, historyRepo)
	backups := backup.NewService(log, config.BackupConfig{}, cipher,
		personalRepo, settingsRepo, vagaRepo, curriculoRepo, historyRepo, merger)

	generator, err := generate.NewService(log, config.LLMConfig{}, &stubClient{reply: stubDocument},
		vagaRepo, curriculoRepo, settingsRepo, historyRepo)
	require.NoError(t, err)

	mux := rest.NewRouter(rest.Handlers{
		Health:    rest.NewHealthHandler(eng, "test"),
		Profile:   rest.NewProfileHandler(personalRepo),
		Settings:  rest.NewSettingsHandler(settingsRepo),
		Vagas:     rest.NewVagaHandler(vagaRepo),
		Curriculo: rest.NewCurriculoHandler(curriculoRepo),
		History:   rest.NewHistoryHandler(historyRepo),
		Backup:    rest.NewBackupHandler(backups),
		Generate:  rest.NewGenerateHandler(generator),
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, srv.URL+path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	var got map[string]string
	code := doJSON(t, srv, http.MethodGet, "/health", nil, &got)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", got["status"])
	assert.Equal(t, "test", got["version"])
}

func TestVagaLifecycle(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	var created domain.Vaga
	code := doJSON(t, srv, http.MethodPost, "/vagas",
		map[string]string{"empresa": "Acme", "cargo": "Backend Dev", "descricao": "Go."}, &created)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, created.UUID)
	assert.Equal(t, domain.StatusCreated, created.Status)

	var patched domain.Vaga
	code = doJSON(t, srv, http.MethodPatch, "/vagas/"+created.UUID,
		map[string]string{"status": "applied"}, &patched)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.StatusApplied, patched.Status)

	var listed []domain.Vaga
	code = doJSON(t, srv, http.MethodGet, "/vagas", nil, &listed)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, listed, 1)

	var deleted map[string]any
	code = doJSON(t, srv, http.MethodDelete, "/vagas/"+created.UUID, nil, &deleted)
	require.Equal(t, http.StatusOK, code)

	code = doJSON(t, srv, http.MethodGet, "/vagas/"+created.UUID, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestVagaPatchRejectsUnknownStatus(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	var created domain.Vaga
	code := doJSON(t, srv, http.MethodPost, "/vagas",
		map[string]string{"empresa": "Acme", "cargo": "Dev"}, &created)
	require.Equal(t, http.StatusCreated, code)

	code = doJSON(t, srv, http.MethodPatch, "/vagas/"+created.UUID,
		map[string]string{"status": "bogus"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestProfileRoundTrip(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	code := doJSON(t, srv, http.MethodGet, "/profile", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	var saved domain.Personal
	code = doJSON(t, srv, http.MethodPut, "/profile",
		map[string]any{"name": "Ana", "email": "ana@example.com"}, &saved)
	require.Equal(t, http.StatusOK, code)

	var got domain.Personal
	code = doJSON(t, srv, http.MethodGet, "/profile", nil, &got)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Ana", got.Name)
}

func TestProfileRejectsMissingName(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	code := doJSON(t, srv, http.MethodPut, "/profile",
		map[string]any{"email": "ana@example.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHistoryExperienceLifecycle(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	var saved domain.Experience
	code := doJSON(t, srv, http.MethodPost, "/history/experiences",
		map[string]any{"role": "Dev", "company": "Initech", "startDate": "2022-01"}, &saved)
	require.Equal(t, http.StatusOK, code)
	require.NotZero(t, saved.ID)

	var listed []domain.Experience
	code = doJSON(t, srv, http.MethodGet, "/history/experiences", nil, &listed)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, listed, 1)

	code = doJSON(t, srv, http.MethodDelete, "/history/experiences/999", nil, nil)
	assert.Equal(t, http.StatusOK, code)

	code = doJSON(t, srv, http.MethodDelete, "/history/experiences/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGenerateFlow(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	code := doJSON(t, srv, http.MethodPut, "/settings",
		map[string]any{"groq_key": "gsk_test"}, nil)
	require.Equal(t, http.StatusOK, code)

	code = doJSON(t, srv, http.MethodPost, "/history/experiences",
		map[string]any{"role": "Dev", "company": "Initech", "startDate": "2022-01"}, nil)
	require.Equal(t, http.StatusOK, code)

	var created domain.Vaga
	code = doJSON(t, srv, http.MethodPost, "/vagas",
		map[string]string{"empresa": "Acme", "cargo": "Backend Dev", "descricao": "Vaga Go."}, &created)
	require.Equal(t, http.StatusCreated, code)

	var out map[string]any
	code = doJSON(t, srv, http.MethodPost, "/vagas/"+created.UUID+"/generate", nil, &out)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["generated"])

	var c domain.Curriculo
	code = doJSON(t, srv, http.MethodGet, "/vagas/"+created.UUID+"/curriculo", nil, &c)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, created.UUID, c.VagaUUID)
}

func TestBackupExportImport(t *testing.T) {
	t.Parallel()
	src := newServer(t)
	dst := newServer(t)

	var created domain.Vaga
	code := doJSON(t, src, http.MethodPost, "/vagas",
		map[string]string{"empresa": "Acme", "cargo": "Dev"}, &created)
	require.Equal(t, http.StatusCreated, code)

	resp, err := src.Client().Post(src.URL+"/backup/export", "application/json", nil)
	require.NoError(t, err)
	blob, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(blob), "Acme")

	resp, err = dst.Client().Post(dst.URL+"/backup/import", "application/octet-stream", bytes.NewReader(blob))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report merge.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 1, report.Vagas.Added)

	var listed []domain.Vaga
	code = doJSON(t, dst, http.MethodGet, "/vagas", nil, &listed)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, listed, 1)
	assert.Equal(t, created.UUID, listed[0].UUID)
}

func TestBackupImportRejectsGarbage(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	resp, err := srv.Client().Post(srv.URL+"/backup/import", "application/octet-stream",
		strings.NewReader("definitely not a backup"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLLMTestKey(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	var got map[string]any
	code := doJSON(t, srv, http.MethodPost, "/llm/test",
		map[string]string{"key": "gsk_test"}, &got)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, got["ok"])
}
