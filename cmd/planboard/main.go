package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/planboard/internal/cli"
	"github.com/alexanderramin/planboard/internal/config"
	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/alexanderramin/planboard/internal/service"
	"github.com/alexanderramin/planboard/internal/workflow"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()

	wfCfg := workflow.DefaultConfig()
	if cfg.WorkflowPath != "" {
		loaded, err := workflow.LoadConfig(cfg.WorkflowPath)
		if err != nil {
			return err
		}
		wfCfg = loaded
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	// The database always holds the undo history, even when the board
	// document lives in a file.
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	docs, err := openDocumentStore(cfg, database, logger)
	if err != nil {
		return err
	}

	observer := service.UseCaseObserver(service.NoopUseCaseObserver{})
	if cfg.LogUseCases {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	store := service.NewScheduleStore(docs, service.StoreConfig{
		Workflow:      wfCfg,
		HistoryLimit:  cfg.HistoryLimit,
		AutosaveDelay: cfg.AutosaveDelay(),
		History:       repository.NewSQLiteHistoryRepo(database),
	}, observer)
	defer store.Close()

	ctx := context.Background()
	if res, err := store.Load(ctx); err != nil {
		return err
	} else if res.Degraded {
		logger.Warn("board loaded in degraded mode", "detail", res.Message)
	}

	app := &cli.App{
		Board:  store,
		Config: cfg,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
		},
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

func openDocumentStore(cfg config.Config, database *sql.DB, logger *slog.Logger) (repository.DocumentStore, error) {
	sqliteStore := func() repository.DocumentStore {
		return repository.NewSQLiteDocumentStore(database, db.NewSQLiteUnitOfWork(database),
			repository.WithDocumentLogger(logger))
	}
	fileStore := func() repository.DocumentStore {
		return repository.NewFileStore(cfg.FilePath,
			repository.WithQuota(cfg.LocalQuotaBytes),
			repository.WithFileLogger(logger))
	}

	switch cfg.Store {
	case config.StoreSQLite:
		return sqliteStore(), nil
	case config.StoreFile:
		return fileStore(), nil
	case config.StoreReplicated:
		return repository.NewReplicatedStore(fileStore(), sqliteStore(), logger), nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}
