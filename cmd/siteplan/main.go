package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/siteplan/internal/cli"
	"github.com/alexanderramin/siteplan/internal/config"
	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/notify"
	"github.com/alexanderramin/siteplan/internal/service"
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
	logger := cfg.NewLogger(os.Stderr)

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return err
	}
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Notify {
		notifier = notify.Multi(cli.NewToastNotifier(os.Stderr), notify.NewLogNotifier(logger))
	}

	// Use-case records are Info level; surface them even when the process
	// logger is quieter.
	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		obsCfg := cfg
		obsCfg.LogLevel = min(cfg.LogLevel, slog.LevelInfo)
		observers = append(observers, service.NewLogUseCaseObserver(obsCfg.NewLogger(os.Stderr)))
	}

	env := service.Env{
		UoW:      db.NewSQLiteUnitOfWork(database),
		Notifier: notifier,
		Logger:   logger,
	}

	app := &cli.App{
		Tasks:  service.NewTaskService(env, observers...),
		Views:  service.NewViewService(env, observers...),
		Import: service.NewImportService(env, observers...),
	}

	// The calendar TUI and import confirmation need a real terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
