// Command backup exports or imports a backup file against the local store.
// It is the offline counterpart of the /backup HTTP endpoints, useful for
// cron jobs and migrating between devices.
//
// Usage:
//
//	backup -mode export -file backup.json
//	backup -mode import -file backup.json
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"curriculos/internal/adapter/sqlite"
	"curriculos/internal/adapter/sqlite/curriculo"
	"curriculos/internal/adapter/sqlite/history"
	"curriculos/internal/adapter/sqlite/personal"
	"curriculos/internal/adapter/sqlite/settings"
	"curriculos/internal/adapter/sqlite/vaga"
	"curriculos/internal/app"
	"curriculos/internal/config"
	"curriculos/internal/crypto"
	"curriculos/internal/service/backup"
	"curriculos/internal/service/merge"
)

func main() {
	mode := flag.String("mode", "export", "export or import")
	file := flag.String("file", "", "backup file path")
	flag.Parse()

	if *file == "" {
		log.Fatal("backup: -file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cipher, err := crypto.New(cfg.Crypto.KeyPath, cfg.Crypto.Passphrase)
	if err != nil {
		logger.Error("init cipher", slog.String("error", err.Error()))
		os.Exit(1)
	}

	eng, err := sqlite.Open(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Error("open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer eng.Close()

	personalRepo := personal.New(eng, cipher)
	settingsRepo := settings.New(eng)
	vagaRepo := vaga.New(eng)
	curriculoRepo := curriculo.New(eng)
	historyRepo := history.New(eng)

	merger := merge.NewService(logger, personalRepo, settingsRepo, vagaRepo, curriculoRepo, historyRepo)
	svc := backup.NewService(logger, cfg.Backup, cipher,
		personalRepo, settingsRepo, vagaRepo, curriculoRepo, historyRepo, merger)

	switch *mode {
	case "export":
		data, err := svc.Export(ctx)
		if err != nil {
			logger.Error("export failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := os.WriteFile(*file, data, 0o600); err != nil {
			logger.Error("write backup file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("backup exported",
			slog.String("file", *file),
			slog.Int("bytes", len(data)),
		)
	case "import":
		data, err := os.ReadFile(*file)
		if err != nil {
			logger.Error("read backup file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		report, err := svc.Import(ctx, data)
		if err != nil {
			logger.Error("import failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Error("encode report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Println(string(out))
	default:
		log.Fatalf("backup: unknown mode %q", *mode)
	}
}
