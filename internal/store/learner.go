package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jlenaghan/boliye/internal/domain"
)

// LearnerStore defines the interface for learner data persistence.
type LearnerStore interface {
	// Create saves a new learner to the store.
	// It handles domain validation and password hashing internally.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain Learner if data is invalid.
	Create(ctx context.Context, learner *domain.Learner) error

	// GetByID retrieves a learner by their unique ID.
	// Returns ErrLearnerNotFound if the learner does not exist.
	// The returned learner contains all fields except the plaintext password.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error)

	// GetByEmail retrieves a learner by their email address.
	// Returns ErrLearnerNotFound if the learner does not exist.
	// The returned learner contains all fields except the plaintext password.
	GetByEmail(ctx context.Context, email string) (*domain.Learner, error)

	// Update modifies an existing learner's details.
	// The caller MUST provide a complete learner object including HashedPassword.
	// If a new plaintext Password is provided, it will be hashed and the HashedPassword updated.
	// Returns ErrLearnerNotFound if the learner does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, learner *domain.Learner) error

	// Delete removes a learner from the store by their ID.
	// Returns ErrLearnerNotFound if the learner does not exist.
	// This operation is permanent and cascades to the learner's cards and review logs.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new LearnerStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) LearnerStore
}
