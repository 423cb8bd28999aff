package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"curriculos/internal/domain"
	"curriculos/internal/service/merge"
)

// maxBackupSize caps the import payload at 32 MiB.
const maxBackupSize = 32 << 20

type backupService interface {
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) (*merge.Report, error)
}

// BackupHandler serves backup export and import.
type BackupHandler struct {
	backups backupService
}

func NewBackupHandler(backups backupService) *BackupHandler {
	return &BackupHandler{backups: backups}
}

// Export streams the full backup file. The payload is either a plaintext
// JSON envelope or an encrypted token, so it is served as a download rather
// than a JSON response.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.backups.Export(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	name := fmt.Sprintf("curriculos-backup-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Import reads a backup payload from the request body and reconciles it into
// the local store, responding with the per-section merge report.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupSize))
	if err != nil {
		writeError(w, domain.NewValidationError("body", "could not read backup payload"))
		return
	}
	report, err := h.backups.Import(r.Context(), data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
