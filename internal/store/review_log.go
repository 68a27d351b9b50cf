package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jlenaghan/boliye/internal/domain"
)

// ReviewLogStore defines the interface for the append-only review audit log.
type ReviewLogStore interface {
	// Append records one completed review. Logs are immutable once written.
	Append(ctx context.Context, log *domain.ReviewLog) error

	// ListByCard retrieves a card's review history, most recent first,
	// truncated to limit.
	ListByCard(ctx context.Context, cardID uuid.UUID, limit int) ([]*domain.ReviewLog, error)

	// CountByLearner returns the total number of reviews a learner has
	// ever completed.
	CountByLearner(ctx context.Context, learnerID uuid.UUID) (int, error)

	// RetentionCounts returns the number of reviews since the given time
	// and how many of them were rated Good or better.
	RetentionCounts(
		ctx context.Context,
		learnerID uuid.UUID,
		since time.Time,
	) (reviews int, successes int, err error)

	// ListReviewDays returns the distinct UTC days on which the learner
	// reviewed, most recent first, truncated to limit. Used for streak
	// calculation.
	ListReviewDays(ctx context.Context, learnerID uuid.UUID, limit int) ([]time.Time, error)

	// WithTx returns a new ReviewLogStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
