package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/platform/logger"
	"github.com/jlenaghan/boliye/internal/store"
)

// PostgresExerciseStore implements the store.ExerciseStore interface
// using a PostgreSQL database as the storage backend. MCQ options are
// stored as a JSONB array.
type PostgresExerciseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresExerciseStore creates a new PostgreSQL implementation of the
// ExerciseStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresExerciseStore(db store.DBTX, logger *slog.Logger) *PostgresExerciseStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresExerciseStore{
		db:     db,
		logger: logger.With(slog.String("component", "exercise_store")),
	}
}

// Ensure PostgresExerciseStore implements store.ExerciseStore interface
var _ store.ExerciseStore = (*PostgresExerciseStore)(nil)

// Create implements store.ExerciseStore.Create
// Returns store.ErrInvalidEntity if the referenced content item does not exist.
func (s *PostgresExerciseStore) Create(ctx context.Context, exercise *domain.Exercise) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.insert(ctx, exercise); err != nil {
		log.Error("failed to create exercise",
			slog.String("error", err.Error()),
			slog.String("exercise_id", exercise.ID.String()))
		return err
	}

	log.Info("exercise created",
		slog.String("exercise_id", exercise.ID.String()),
		slog.String("kind", string(exercise.Kind)),
		slog.String("content_item_id", exercise.ContentItemID.String()))
	return nil
}

// CreateMultiple implements store.ExerciseStore.CreateMultiple
// The caller is responsible for running this within a transaction
// (WithTx + store.RunInTransaction).
func (s *PostgresExerciseStore) CreateMultiple(ctx context.Context, exercises []*domain.Exercise) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, exercise := range exercises {
		if err := s.insert(ctx, exercise); err != nil {
			log.Error("failed to create exercise in batch",
				slog.String("error", err.Error()),
				slog.String("exercise_id", exercise.ID.String()))
			return fmt.Errorf("failed to create exercise %s: %w", exercise.ID, err)
		}
	}

	log.Info("exercises created",
		slog.Int("count", len(exercises)))
	return nil
}

// insert validates and writes one exercise. Shared by Create and
// CreateMultiple.
func (s *PostgresExerciseStore) insert(ctx context.Context, exercise *domain.Exercise) error {
	if err := exercise.Validate(); err != nil {
		return err
	}

	optionsJSON, err := json.Marshal(exercise.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}

	query := `
		INSERT INTO exercises (id, content_item_id, kind, prompt, answer, options, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		exercise.ID,
		exercise.ContentItemID,
		exercise.Kind,
		exercise.Prompt,
		exercise.Answer,
		optionsJSON,
		exercise.Status,
		exercise.CreatedAt,
		exercise.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: content item with ID %s not found", store.ErrInvalidEntity, exercise.ContentItemID)
		}
		return MapError(err)
	}

	return nil
}

// GetByID implements store.ExerciseStore.GetByID
// Returns store.ErrExerciseNotFound if the exercise does not exist.
func (s *PostgresExerciseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, content_item_id, kind, prompt, answer, options, status, created_at, updated_at
		FROM exercises
		WHERE id = $1
	`

	exercise, err := scanExercise(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("exercise not found",
				slog.String("exercise_id", id.String()))
			return nil, store.ErrExerciseNotFound
		}
		log.Error("failed to get exercise",
			slog.String("error", err.Error()),
			slog.String("exercise_id", id.String()))
		return nil, MapError(err)
	}

	return exercise, nil
}

// ListByContentItem implements store.ExerciseStore.ListByContentItem
// Exercises come back oldest first so presentation order is stable.
func (s *PostgresExerciseStore) ListByContentItem(ctx context.Context, contentItemID uuid.UUID) ([]*domain.Exercise, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, content_item_id, kind, prompt, answer, options, status, created_at, updated_at
		FROM exercises
		WHERE content_item_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, contentItemID)
	if err != nil {
		log.Error("failed to query exercises",
			slog.String("error", err.Error()),
			slog.String("content_item_id", contentItemID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows",
				slog.String("error", err.Error()))
		}
	}()

	exercises := make([]*domain.Exercise, 0)
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			log.Error("failed to scan exercise row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		exercises = append(exercises, exercise)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating exercise rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return exercises, nil
}

// UpdateStatus implements store.ExerciseStore.UpdateStatus
// Returns store.ErrInvalidEntity for an unknown status and
// store.ErrExerciseNotFound if the exercise does not exist.
func (s *PostgresExerciseStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ExerciseStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	switch status {
	case domain.ExerciseStatusGenerated, domain.ExerciseStatusApproved, domain.ExerciseStatusRejected:
	default:
		log.Warn("invalid exercise status",
			slog.String("exercise_id", id.String()),
			slog.String("status", string(status)))
		return fmt.Errorf("%w: unknown exercise status %q", store.ErrInvalidEntity, status)
	}

	query := `
		UPDATE exercises
		SET status = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		log.Error("failed to update exercise status",
			slog.String("error", err.Error()),
			slog.String("exercise_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrExerciseNotFound); err != nil {
		return err
	}

	log.Info("exercise status updated",
		slog.String("exercise_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// WithTx implements store.ExerciseStore.WithTx
// It returns a new store instance backed by the given transaction.
func (s *PostgresExerciseStore) WithTx(tx *sql.Tx) store.ExerciseStore {
	return &PostgresExerciseStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanExercise reads one exercise row, decoding the options JSONB column.
func scanExercise(row rowScanner) (*domain.Exercise, error) {
	var (
		exercise    domain.Exercise
		optionsJSON []byte
	)
	if err := row.Scan(
		&exercise.ID,
		&exercise.ContentItemID,
		&exercise.Kind,
		&exercise.Prompt,
		&exercise.Answer,
		&optionsJSON,
		&exercise.Status,
		&exercise.CreatedAt,
		&exercise.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(optionsJSON) > 0 {
		if err := json.Unmarshal(optionsJSON, &exercise.Options); err != nil {
			return nil, fmt.Errorf("failed to unmarshal options: %w", err)
		}
	}

	return &exercise, nil
}
