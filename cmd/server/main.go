// Package main implements the entry point for the boliye API server,
// which runs spaced-repetition review sessions over Hindi learning
// content and grades learner answers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/jlenaghan/boliye/internal/config"
	"github.com/jlenaghan/boliye/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, reset, status, version, create) and exit")
	migrationName := flag.String("migration-name", "",
		"name of the migration to create (used with -migrate create)")
	verbose := flag.Bool("verbose", false, "enable verbose migration logging")
	flag.Parse()

	if err := run(*migrateCmd, *migrationName, *verbose); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// run loads configuration, sets up logging, and either executes the
// requested migration command or starts the HTTP server. Split from main
// so every exit path flows through a single os.Exit call.
func run(migrateCmd, migrationName string, verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)
	if cfg.LLM.GeminiAPIKey != "" {
		log.Debug("LLM configuration", "api_key_present", true)
	}

	if migrateCmd != "" {
		return runMigrations(cfg, migrateCmd, verbose, migrationName)
	}

	ctx := context.Background()

	db, err := setupAppDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		// newApplication does not own the connection until it returns.
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database connection", "error", closeErr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
