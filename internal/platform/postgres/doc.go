// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces (repositories) defined in the internal/store package.
// It handles query execution and the mapping between domain entities and
// database records, including JSONB encoding for list-valued columns and
// translation of driver errors into the store package's sentinel errors.
package postgres
