package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jlenaghan/boliye/internal/domain"
)

// ContentItemStore defines the interface for content item persistence.
// Content items are shared across learners; per-learner scheduling state
// lives on cards.
type ContentItemStore interface {
	// Create saves a single content item to the store.
	Create(ctx context.Context, item *domain.ContentItem) error

	// CreateMultiple saves multiple content items to the store.
	// This method MUST be run within a transaction so a failed bulk import
	// does not leave a partial content set behind. Use WithTx together
	// with store.RunInTransaction.
	CreateMultiple(ctx context.Context, items []*domain.ContentItem) error

	// GetByID retrieves a content item by its unique ID.
	// Returns ErrContentItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error)

	// GetByIDs retrieves the content items for the given IDs, in no
	// particular order. Missing IDs are skipped rather than treated
	// as an error.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.ContentItem, error)

	// WithTx returns a new ContentItemStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ContentItemStore
}
