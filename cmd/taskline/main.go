package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alexanderramin/taskline/internal/cli"
	"github.com/alexanderramin/taskline/internal/config"
	"github.com/alexanderramin/taskline/internal/db"
	"github.com/alexanderramin/taskline/internal/repository"
	"github.com/alexanderramin/taskline/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(os.Stderr, cfg)
	if cfg.File != "" {
		logger.Debug("config loaded", "file", cfg.File)
	}

	// Wire the snapshot store
	var (
		repo      repository.SnapshotRepo
		revisions repository.RevisionLister
	)
	switch cfg.Store {
	case config.StoreFile:
		repo = repository.NewFileSnapshotRepo(cfg.SnapshotPath)
		logger.Debug("using file store", "path", cfg.SnapshotPath)
	default:
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		sqliteRepo := repository.NewSQLiteSnapshotRepo(database, db.NewSQLiteUnitOfWork(database))
		repo, revisions = sqliteRepo, sqliteRepo
		logger.Debug("using sqlite store", "path", cfg.DBPath)
	}

	ws, err := service.OpenWorkspace(ctx, repo,
		service.WithLogger(logger),
		service.WithObserver(service.NewLogUseCaseObserver(logger)),
	)
	if err != nil {
		return err
	}

	app := cli.NewApp(service.New(ws), cfg, logger)
	app.Revisions = revisions

	// Forms and the TUI need a terminal on stdin.
	app.IsInteractive = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
