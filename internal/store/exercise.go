package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jlenaghan/boliye/internal/domain"
)

// ExerciseStore defines the interface for exercise persistence.
type ExerciseStore interface {
	// Create saves a single exercise to the store.
	Create(ctx context.Context, exercise *domain.Exercise) error

	// CreateMultiple saves multiple exercises to the store.
	// This method MUST be run within a transaction for atomicity.
	// Use WithTx together with store.RunInTransaction.
	CreateMultiple(ctx context.Context, exercises []*domain.Exercise) error

	// GetByID retrieves an exercise by its unique ID.
	// Returns ErrExerciseNotFound if the exercise does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)

	// ListByContentItem retrieves all exercises attached to a content item,
	// oldest first. Returns an empty slice when the item has none.
	ListByContentItem(ctx context.Context, contentItemID uuid.UUID) ([]*domain.Exercise, error)

	// UpdateStatus moves an exercise through its review workflow
	// (generated, approved, rejected).
	// Returns ErrExerciseNotFound if the exercise does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ExerciseStatus) error

	// WithTx returns a new ExerciseStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ExerciseStore
}
