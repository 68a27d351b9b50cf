package testutils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/pressly/goose/v3"
)

// migrationsRunOnce ensures migrations are only run once across all tests.
var migrationsRunOnce sync.Once

// SetupTestDatabaseSchema initializes the database schema using project
// migrations. It resets the schema to baseline (by running migrations down
// to version 0), then applies all migrations, so tests run against the
// canonical schema.
//
// Call this once in TestMain rather than per test. It uses sync.Once so
// repeated calls are harmless.
func SetupTestDatabaseSchema(db *sql.DB) error {
	var setupErr error
	migrationsRunOnce.Do(func() {
		if err := goose.SetDialect("postgres"); err != nil {
			setupErr = fmt.Errorf("failed to set goose dialect: %w", err)
			return
		}

		projectRoot, err := findProjectRoot()
		if err != nil {
			setupErr = fmt.Errorf("failed to find project root: %w", err)
			return
		}

		migrationsDir := filepath.Join(projectRoot, "migrations")
		if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
			setupErr = fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
			return
		}

		// Keep goose quiet during tests
		goose.SetLogger(&testGooseLogger{})

		if err := goose.DownTo(db, migrationsDir, 0); err != nil {
			setupErr = fmt.Errorf("failed to reset database schema: %w", err)
			return
		}

		if err := goose.Up(db, migrationsDir); err != nil {
			setupErr = fmt.Errorf("failed to apply migrations: %w", err)
			return
		}
	})

	return setupErr
}

// WithTx runs a test function with transaction-based isolation.
// It creates a new transaction, runs the test function with it, and rolls
// the transaction back afterward. Safe to combine with t.Parallel() since
// each test sees only its own uncommitted changes.
//
// Usage:
//
//	testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
//	    cardStore := postgres.NewPostgresCardStore(tx, nil)
//	    // ... exercise the store; changes roll back automatically
//	})
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	defer AssertRollbackNoError(t, tx)

	fn(t, tx)
}

// AssertRollbackNoError rolls back the transaction, tolerating
// sql.ErrTxDone for transactions that were already committed or
// rolled back by the test body.
func AssertRollbackNoError(t *testing.T, tx *sql.Tx) {
	t.Helper()
	if tx == nil {
		return
	}
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		t.Logf("Failed to rollback transaction: %v", err)
	}
}

// findProjectRoot locates the project root by searching for the go.mod file
// starting from this file's directory and walking up the directory tree.
func findProjectRoot() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to get current file path")
	}

	dir := filepath.Dir(currentFile)
	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			return "", fmt.Errorf("could not find project root (go.mod file)")
		}
		dir = parentDir
	}
}

// testGooseLogger implements goose.Logger without producing output, to
// keep migration noise out of test logs.
type testGooseLogger struct{}

func (*testGooseLogger) Fatal(v ...interface{}) {
	fmt.Println(v...)
	os.Exit(1)
}

func (*testGooseLogger) Fatalf(format string, v ...interface{}) {
	fmt.Printf(format, v...)
	os.Exit(1)
}

func (*testGooseLogger) Print(v ...interface{})                 {}
func (*testGooseLogger) Println(v ...interface{})               {}
func (*testGooseLogger) Printf(format string, v ...interface{}) {}
