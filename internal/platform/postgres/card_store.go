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

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// Create implements store.CardStore.Create
// Returns store.ErrCardExists if the learner already has a card for the
// content item, and store.ErrInvalidEntity if the learner or content item
// does not exist.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.insert(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	log.Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("learner_id", card.LearnerID.String()),
		slog.String("content_item_id", card.ContentItemID.String()))
	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple
// The caller is responsible for running this within a transaction
// (WithTx + store.RunInTransaction) so a failed bulk assignment rolls
// back completely.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, card := range cards {
		if err := s.insert(ctx, card); err != nil {
			log.Error("failed to create card in batch",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()))
			return fmt.Errorf("failed to create card %s: %w", card.ID, err)
		}
	}

	log.Info("cards created",
		slog.Int("count", len(cards)))
	return nil
}

// insert validates and writes one card. Shared by Create and CreateMultiple.
func (s *PostgresCardStore) insert(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO cards (id, learner_id, content_item_id, stability, difficulty, due, reps, lapses, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.LearnerID,
		card.ContentItemID,
		card.Stability,
		card.Difficulty,
		card.Due,
		card.Reps,
		card.Lapses,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: learner %s already has a card for content item %s",
				store.ErrCardExists, card.LearnerID, card.ContentItemID)
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
			switch pgErr.ConstraintName {
			case "cards_learner_id_fkey":
				return fmt.Errorf("%w: learner with ID %s not found", store.ErrInvalidEntity, card.LearnerID)
			case "cards_content_item_id_fkey":
				return fmt.Errorf("%w: content item with ID %s not found", store.ErrInvalidEntity, card.ContentItemID)
			}
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		return MapError(err)
	}

	return nil
}

// GetByID implements store.CardStore.GetByID
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, learner_id, content_item_id, stability, difficulty, due, reps, lapses, created_at, updated_at
		FROM cards
		WHERE id = $1
	`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}

	return card, nil
}

// GetByLearnerAndContent implements store.CardStore.GetByLearnerAndContent
// Returns store.ErrCardNotFound if the learner has no card for the item.
func (s *PostgresCardStore) GetByLearnerAndContent(
	ctx context.Context,
	learnerID, contentItemID uuid.UUID,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, learner_id, content_item_id, stability, difficulty, due, reps, lapses, created_at, updated_at
		FROM cards
		WHERE learner_id = $1 AND content_item_id = $2
	`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, learnerID, contentItemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found for learner and content item",
				slog.String("learner_id", learnerID.String()),
				slog.String("content_item_id", contentItemID.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by learner and content item",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}

	return card, nil
}

// Update implements store.CardStore.Update
// The scheduling state is replaced wholesale in a single statement.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		UPDATE cards
		SET stability = $1, difficulty = $2, due = $3, reps = $4, lapses = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Stability,
		card.Difficulty,
		card.Due,
		card.Reps,
		card.Lapses,
		card.UpdatedAt,
		card.ID,
	)
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		return err
	}

	log.Debug("card updated",
		slog.String("card_id", card.ID.String()),
		slog.Int("reps", card.Reps),
		slog.Int("lapses", card.Lapses))
	return nil
}

// ListDue implements store.CardStore.ListDue
// Started cards at or past their due time, most overdue first.
func (s *PostgresCardStore) ListDue(ctx context.Context, learnerID uuid.UUID, now time.Time, limit int) ([]*domain.Card, error) {
	if limit <= 0 {
		return []*domain.Card{}, nil
	}

	query := `
		SELECT id, learner_id, content_item_id, stability, difficulty, due, reps, lapses, created_at, updated_at
		FROM cards
		WHERE learner_id = $1 AND reps > 0 AND due <= $2
		ORDER BY due ASC
		LIMIT $3
	`

	return s.listCards(ctx, query, learnerID, now, limit)
}

// ListNew implements store.CardStore.ListNew
// Never-reviewed cards in creation order.
func (s *PostgresCardStore) ListNew(ctx context.Context, learnerID uuid.UUID, limit int) ([]*domain.Card, error) {
	if limit <= 0 {
		return []*domain.Card{}, nil
	}

	query := `
		SELECT id, learner_id, content_item_id, stability, difficulty, due, reps, lapses, created_at, updated_at
		FROM cards
		WHERE learner_id = $1 AND reps = 0 AND lapses = 0
		ORDER BY created_at ASC
		LIMIT $2
	`

	return s.listCards(ctx, query, learnerID, limit)
}

// listCards runs a card list query and scans the results.
func (s *PostgresCardStore) listCards(ctx context.Context, query string, args ...any) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query cards",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows",
				slog.String("error", err.Error()))
		}
	}()

	cards := make([]*domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating card rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return cards, nil
}

// CountsForLearner implements store.CardStore.CountsForLearner
// One aggregate query covers all four counters.
func (s *PostgresCardStore) CountsForLearner(ctx context.Context, learnerID uuid.UUID, now time.Time) (store.CardCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE reps > 0 AND due <= $2),
			COUNT(*) FILTER (WHERE reps = 0 AND lapses = 0),
			COUNT(*) FILTER (WHERE reps >= 5)
		FROM cards
		WHERE learner_id = $1
	`

	var counts store.CardCounts
	err := s.db.QueryRowContext(ctx, query, learnerID, now).Scan(
		&counts.Total,
		&counts.Due,
		&counts.New,
		&counts.Mature,
	)
	if err != nil {
		log.Error("failed to count cards",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return store.CardCounts{}, MapError(err)
	}

	return counts, nil
}

// WithTx implements store.CardStore.WithTx
// It returns a new store instance backed by the given transaction.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanCard reads one card row.
func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	if err := row.Scan(
		&card.ID,
		&card.LearnerID,
		&card.ContentItemID,
		&card.Stability,
		&card.Difficulty,
		&card.Due,
		&card.Reps,
		&card.Lapses,
		&card.CreatedAt,
		&card.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &card, nil
}
