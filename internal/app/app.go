package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"curriculos/internal/adapter/sqlite"
	"curriculos/internal/adapter/sqlite/curriculo"
	"curriculos/internal/adapter/sqlite/history"
	"curriculos/internal/adapter/sqlite/personal"
	"curriculos/internal/adapter/sqlite/settings"
	"curriculos/internal/adapter/sqlite/vaga"
	"curriculos/internal/config"
	"curriculos/internal/crypto"
	"curriculos/internal/service/backup"
	"curriculos/internal/service/generate"
	"curriculos/internal/service/merge"
	"curriculos/internal/transport/middleware"
	"curriculos/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, opens the
// store, wires services and handlers, and serves HTTP until the context is
// cancelled, then shuts down gracefully within the configured timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	cipher, err := crypto.New(cfg.Crypto.KeyPath, cfg.Crypto.Passphrase)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}

	eng, err := sqlite.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Error("close store", slog.String("error", err.Error()))
		}
	}()

	personalRepo := personal.New(eng, cipher)
	settingsRepo := settings.New(eng)
	vagaRepo := vaga.New(eng)
	curriculoRepo := curriculo.New(eng)
	historyRepo := history.New(eng)

	merger := merge.NewService(logger, personalRepo, settingsRepo, vagaRepo, curriculoRepo, historyRepo)
	backups := backup.NewService(logger, cfg.Backup, cipher,
		personalRepo, settingsRepo, vagaRepo, curriculoRepo, historyRepo, merger)

	llmClient := generate.NewClient(cfg.LLM)
	generator, err := generate.NewService(logger, cfg.LLM, llmClient,
		vagaRepo, curriculoRepo, settingsRepo, historyRepo)
	if err != nil {
		return fmt.Errorf("init generation service: %w", err)
	}

	mux := rest.NewRouter(rest.Handlers{
		Health:    rest.NewHealthHandler(eng, BuildVersion()),
		Profile:   rest.NewProfileHandler(personalRepo),
		Settings:  rest.NewSettingsHandler(settingsRepo),
		Vagas:     rest.NewVagaHandler(vagaRepo),
		Curriculo: rest.NewCurriculoHandler(curriculoRepo),
		History:   rest.NewHistoryHandler(historyRepo),
		Backup:    rest.NewBackupHandler(backups),
		Generate:  rest.NewGenerateHandler(generator),
	})

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	)(mux)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
