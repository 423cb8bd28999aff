// Package rest exposes the application over a local HTTP API.
package rest

import "net/http"

// Handlers groups everything the router mounts.
type Handlers struct {
	Health    *HealthHandler
	Profile   *ProfileHandler
	Settings  *SettingsHandler
	Vagas     *VagaHandler
	Curriculo *CurriculoHandler
	History   *HistoryHandler
	Backup    *BackupHandler
	Generate  *GenerateHandler
}

// NewRouter builds the route table. Middleware is applied by the caller.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	mux.HandleFunc("GET /profile", h.Profile.Get)
	mux.HandleFunc("PUT /profile", h.Profile.Put)

	mux.HandleFunc("GET /settings", h.Settings.Get)
	mux.HandleFunc("PUT /settings", h.Settings.Put)

	mux.HandleFunc("GET /vagas", h.Vagas.List)
	mux.HandleFunc("POST /vagas", h.Vagas.Create)
	mux.HandleFunc("GET /vagas/{uuid}", h.Vagas.Get)
	mux.HandleFunc("PATCH /vagas/{uuid}", h.Vagas.Patch)
	mux.HandleFunc("DELETE /vagas/{uuid}", h.Vagas.Delete)

	mux.HandleFunc("GET /vagas/{uuid}/curriculo", h.Curriculo.Get)
	mux.HandleFunc("PUT /vagas/{uuid}/curriculo", h.Generate.SaveManual)
	mux.HandleFunc("DELETE /vagas/{uuid}/curriculo", h.Curriculo.Delete)
	mux.HandleFunc("POST /vagas/{uuid}/generate", h.Generate.Generate)

	mux.HandleFunc("GET /history/markdown", h.Generate.HistoryMarkdown)

	mux.HandleFunc("GET /history/experiences", h.History.ListExperiences)
	mux.HandleFunc("POST /history/experiences", h.History.SaveExperience)
	mux.HandleFunc("DELETE /history/experiences/{id}", h.History.DeleteExperience)

	mux.HandleFunc("GET /history/education", h.History.ListEducation)
	mux.HandleFunc("POST /history/education", h.History.SaveEducation)
	mux.HandleFunc("DELETE /history/education/{id}", h.History.DeleteEducation)

	mux.HandleFunc("GET /history/certifications", h.History.ListCertifications)
	mux.HandleFunc("POST /history/certifications", h.History.SaveCertification)
	mux.HandleFunc("DELETE /history/certifications/{id}", h.History.DeleteCertification)

	mux.HandleFunc("GET /history/languages", h.History.ListLanguages)
	mux.HandleFunc("POST /history/languages", h.History.SaveLanguage)
	mux.HandleFunc("DELETE /history/languages/{id}", h.History.DeleteLanguage)

	mux.HandleFunc("POST /backup/export", h.Backup.Export)
	mux.HandleFunc("POST /backup/import", h.Backup.Import)

	mux.HandleFunc("POST /llm/test", h.Generate.TestKey)

	return mux
}
