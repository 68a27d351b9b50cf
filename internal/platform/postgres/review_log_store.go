package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/platform/logger"
	"github.com/jlenaghan/boliye/internal/store"
)

// Default history window when a caller does not specify a limit.
const defaultReviewLogLimit = 50

// PostgresReviewLogStore implements the store.ReviewLogStore interface
// using a PostgreSQL database as the storage backend. The log is
// append-only: no update or delete operations exist.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the
// ReviewLogStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReviewLogStore(db store.DBTX, logger *slog.Logger) *PostgresReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

// Ensure PostgresReviewLogStore implements store.ReviewLogStore interface
var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// Append implements store.ReviewLogStore.Append
// Returns store.ErrInvalidEntity if the referenced card or learner does
// not exist.
func (s *PostgresReviewLogStore) Append(ctx context.Context, reviewLog *domain.ReviewLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := reviewLog.Validate(); err != nil {
		log.Warn("review log validation failed",
			slog.String("error", err.Error()),
			slog.String("review_log_id", reviewLog.ID.String()))
		return err
	}

	query := `
		INSERT INTO review_logs (
			id, card_id, learner_id, exercise_id, kind, rating, time_ms,
			stability_before, stability_after, difficulty_before, difficulty_after, reviewed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		reviewLog.ID,
		reviewLog.CardID,
		reviewLog.LearnerID,
		reviewLog.ExerciseID,
		reviewLog.Kind,
		reviewLog.Rating,
		reviewLog.TimeMs,
		reviewLog.StabilityBefore,
		reviewLog.StabilityAfter,
		reviewLog.DifficultyBefore,
		reviewLog.DifficultyAfter,
		reviewLog.ReviewedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
			switch pgErr.ConstraintName {
			case "review_logs_card_id_fkey":
				return fmt.Errorf("%w: card with ID %s not found", store.ErrInvalidEntity, reviewLog.CardID)
			case "review_logs_learner_id_fkey":
				return fmt.Errorf("%w: learner with ID %s not found", store.ErrInvalidEntity, reviewLog.LearnerID)
			}
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		log.Error("failed to append review log",
			slog.String("error", err.Error()),
			slog.String("review_log_id", reviewLog.ID.String()))
		return MapError(err)
	}

	log.Info("review log appended",
		slog.String("review_log_id", reviewLog.ID.String()),
		slog.String("card_id", reviewLog.CardID.String()),
		slog.String("rating", reviewLog.Rating.String()))
	return nil
}

// ListByCard implements store.ReviewLogStore.ListByCard
// Most recent reviews first. A non-positive limit falls back to a
// default window.
func (s *PostgresReviewLogStore) ListByCard(ctx context.Context, cardID uuid.UUID, limit int) ([]*domain.ReviewLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = defaultReviewLogLimit
	}

	query := `
		SELECT id, card_id, learner_id, exercise_id, kind, rating, time_ms,
			stability_before, stability_after, difficulty_before, difficulty_after, reviewed_at
		FROM review_logs
		WHERE card_id = $1
		ORDER BY reviewed_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, cardID, limit)
	if err != nil {
		log.Error("failed to query review logs",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows",
				slog.String("error", err.Error()))
		}
	}()

	logs := make([]*domain.ReviewLog, 0, limit)
	for rows.Next() {
		entry, err := scanReviewLog(rows)
		if err != nil {
			log.Error("failed to scan review log row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating review log rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return logs, nil
}

// CountByLearner implements store.ReviewLogStore.CountByLearner
func (s *PostgresReviewLogStore) CountByLearner(ctx context.Context, learnerID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM review_logs WHERE learner_id = $1`,
		learnerID,
	).Scan(&count)
	if err != nil {
		log.Error("failed to count review logs",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// RetentionCounts implements store.ReviewLogStore.RetentionCounts
// A review counts as a success when rated Good or better.
func (s *PostgresReviewLogStore) RetentionCounts(
	ctx context.Context,
	learnerID uuid.UUID,
	since time.Time,
) (int, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE rating >= $3)
		FROM review_logs
		WHERE learner_id = $1 AND reviewed_at >= $2
	`

	var reviews, successes int
	err := s.db.QueryRowContext(ctx, query, learnerID, since, int(domain.RatingGood)).
		Scan(&reviews, &successes)
	if err != nil {
		log.Error("failed to compute retention counts",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return 0, 0, MapError(err)
	}

	return reviews, successes, nil
}

// ListReviewDays implements store.ReviewLogStore.ListReviewDays
// Days are truncated to UTC dates, most recent first.
func (s *PostgresReviewLogStore) ListReviewDays(ctx context.Context, learnerID uuid.UUID, limit int) ([]time.Time, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = defaultReviewLogLimit
	}

	query := `
		SELECT DISTINCT (reviewed_at AT TIME ZONE 'UTC')::date AS day
		FROM review_logs
		WHERE learner_id = $1
		ORDER BY day DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID, limit)
	if err != nil {
		log.Error("failed to query review days",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows",
				slog.String("error", err.Error()))
		}
	}()

	days := make([]time.Time, 0, limit)
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			log.Error("failed to scan review day row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating review day rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return days, nil
}

// WithTx implements store.ReviewLogStore.WithTx
// It returns a new store instance backed by the given transaction.
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanReviewLog reads one review log row.
func scanReviewLog(row rowScanner) (*domain.ReviewLog, error) {
	var entry domain.ReviewLog
	if err := row.Scan(
		&entry.ID,
		&entry.CardID,
		&entry.LearnerID,
		&entry.ExerciseID,
		&entry.Kind,
		&entry.Rating,
		&entry.TimeMs,
		&entry.StabilityBefore,
		&entry.StabilityAfter,
		&entry.DifficultyBefore,
		&entry.DifficultyAfter,
		&entry.ReviewedAt,
	); err != nil {
		return nil, err
	}
	return &entry, nil
}
