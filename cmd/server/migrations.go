package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/jlenaghan/boliye/internal/config"
)

// migrationTableName is the table goose uses to track applied migrations.
const migrationTableName = "schema_migrations"

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct{}

// Printf forwards goose messages to slog.Info.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf forwards goose error messages to slog.Error. Unlike the standard
// Fatalf behavior, this does NOT call os.Exit: the error is returned to
// main, which handles the exit consistently.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations executes a goose migration command against the configured
// database. migrationName is only consulted for the create command.
func runMigrations(cfg *config.Config, command string, verbose bool, migrationName string) error {
	switch command {
	case "up", "down", "reset", "status", "version":
	case "create":
		if migrationName == "" {
			return fmt.Errorf("migration name is required for 'create' command")
		}
	default:
		return fmt.Errorf(
			"unknown migration command: %s (expected up, down, reset, status, version, or create)",
			command,
		)
	}

	// A correlation ID on every log line lets the whole operation be traced.
	migrationLogger := slog.Default().With(
		"correlation_id", uuid.New().String(),
		"component", "migrations",
		"command", command,
	)

	startTime := time.Now()
	migrationLogger.Info("starting migration operation",
		"operation", fmt.Sprintf("goose %s", command),
		"verbose", verbose)

	goose.SetLogger(&slogGooseLogger{})

	dbURL := cfg.Database.URL
	if dbURL == "" {
		return fmt.Errorf("database URL is empty: check your configuration")
	}
	migrationLogger.Info("using database URL", "url", maskDatabaseURL(dbURL))

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			migrationLogger.Error("error closing database connection", "error", closeErr)
		}
		migrationLogger.Info("migration operation completed",
			"duration_ms", time.Since(startTime).Milliseconds())
	}()

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	migrationsDir, err := findMigrationsDir()
	if err != nil {
		return fmt.Errorf("failed to locate migrations directory: %w", err)
	}
	migrationLogger.Info("using migrations directory", "path", migrationsDir)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	goose.SetTableName(migrationTableName)

	previousVersion := currentMigrationVersion(db)
	migrationLogger.Info("current database migration version", "version", previousVersion)

	switch command {
	case "up":
		err = goose.Up(db, migrationsDir)
	case "down":
		err = goose.Down(db, migrationsDir)
	case "reset":
		err = goose.Reset(db, migrationsDir)
	case "status":
		err = goose.Status(db, migrationsDir)
	case "version":
		err = goose.Version(db, migrationsDir)
	case "create":
		err = goose.Create(db, migrationsDir, migrationName, "sql")
	}
	if err != nil {
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	if command == "up" || command == "down" || command == "reset" {
		newVersion := currentMigrationVersion(db)
		if newVersion != previousVersion {
			migrationLogger.Info("database schema version changed",
				"previous_version", previousVersion,
				"new_version", newVersion)
		} else {
			migrationLogger.Info("database schema version unchanged", "version", newVersion)
		}
	}

	return nil
}

// currentMigrationVersion reads the latest applied version from the goose
// table, returning "0" for a clean database or when the table is missing.
func currentMigrationVersion(db *sql.DB) string {
	var version string
	query := fmt.Sprintf(
		"SELECT version_id FROM %s ORDER BY version_id DESC LIMIT 1", migrationTableName)
	if err := db.QueryRow(query).Scan(&version); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Debug("failed to read migration version", "error", err)
		}
		return "0"
	}
	return version
}

// findMigrationsDir locates the migrations directory relative to the
// project root, walking up from the working directory until a go.mod is
// found.
func findMigrationsDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			migrationsPath := filepath.Join(dir, "migrations")
			if info, err := os.Stat(migrationsPath); err == nil && info.IsDir() {
				return migrationsPath, nil
			}
			return "", fmt.Errorf("migrations directory not found at %s", migrationsPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("project root not found (no go.mod in directory tree)")
		}
		dir = parent
	}
}

// maskDatabaseURL masks the password in a database URL for safe logging.
func maskDatabaseURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}

	if parsedURL.User != nil {
		if _, hasPassword := parsedURL.User.Password(); hasPassword {
			parsedURL.User = url.UserPassword(parsedURL.User.Username(), "****")
		}
	}

	return parsedURL.String()
}
