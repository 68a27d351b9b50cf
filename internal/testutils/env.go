// Package testutils provides common utilities for testing across the
// application, centered on database testing with transaction isolation.
// Each integration test runs in its own transaction, rolled back when the
// test completes, so tests can run in parallel against the same tables
// without interfering with each other and without manual cleanup.
package testutils

import (
	"os"
	"testing"
)

// IsIntegrationTestEnvironment returns true if the environment is configured
// for running integration tests with a database connection.
// Integration test entry points should check this and skip if not.
func IsIntegrationTestEnvironment() bool {
	return os.Getenv("DATABASE_URL") != ""
}

// GetTestDatabaseURL returns the database URL for integration tests,
// failing the test if DATABASE_URL is not set. For use within individual
// test functions.
func GetTestDatabaseURL(t *testing.T) string {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL environment variable is required for this test")
	}
	return dbURL
}

// MustGetTestDatabaseURL returns the database URL for integration tests.
// For use in TestMain functions where a testing.T is not available.
// It panics if DATABASE_URL is not set.
func MustGetTestDatabaseURL() string {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		panic("DATABASE_URL environment variable is required for integration tests")
	}
	return dbURL
}
