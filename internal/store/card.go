package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jlenaghan/boliye/internal/domain"
)

// CardCounts summarizes a learner's card collection for the stats surface.
type CardCounts struct {
	// Total is the number of cards assigned to the learner.
	Total int

	// Due is the number of started cards whose due time has passed.
	Due int

	// New is the number of cards never reviewed.
	New int

	// Mature is the number of cards with at least five successful reviews.
	Mature int
}

// CardStore defines the interface for per-learner card persistence.
// A card holds the scheduling state for one (learner, content item) pair.
type CardStore interface {
	// Create saves a new card with its neutral initial state.
	// Returns ErrCardExists if the learner already has a card for the
	// card's content item.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves multiple cards to the store.
	// This method MUST be run within a transaction so a failed bulk
	// assignment does not leave a partial card set behind. Use WithTx
	// together with store.RunInTransaction.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetByLearnerAndContent retrieves the card a learner holds for a
	// specific content item.
	// Returns ErrCardNotFound if no such card exists.
	GetByLearnerAndContent(
		ctx context.Context,
		learnerID, contentItemID uuid.UUID,
	) (*domain.Card, error)

	// Update replaces a card's scheduling state wholesale. Partial field
	// updates are never exposed; callers construct the full replacement
	// state and write it in one statement.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// ListDue retrieves started cards (reps > 0) whose due time is at or
	// before now, most overdue first, truncated to limit.
	ListDue(ctx context.Context, learnerID uuid.UUID, now time.Time, limit int) ([]*domain.Card, error)

	// ListNew retrieves never-reviewed cards (reps == 0 and lapses == 0)
	// in creation order, truncated to limit.
	ListNew(ctx context.Context, learnerID uuid.UUID, limit int) ([]*domain.Card, error)

	// CountsForLearner returns the card counts backing the learner stats
	// surface, evaluated at the given time.
	CountsForLearner(ctx context.Context, learnerID uuid.UUID, now time.Time) (CardCounts, error)

	// WithTx returns a new CardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CardStore
}
