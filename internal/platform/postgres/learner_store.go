package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/platform/logger"
	"github.com/jlenaghan/boliye/internal/store"
)

// PostgresLearnerStore implements the store.LearnerStore interface
// using a PostgreSQL database as the storage backend. Password hashing
// happens here, so plaintext passwords never cross the store boundary
// into SQL.
type PostgresLearnerStore struct {
	db         store.DBTX
	bcryptCost int
	logger     *slog.Logger
}

// NewPostgresLearnerStore creates a new PostgreSQL implementation of the
// LearnerStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. A bcryptCost
// outside bcrypt's valid range selects bcrypt.DefaultCost.
// If logger is nil, a default logger will be used.
func NewPostgresLearnerStore(db store.DBTX, bcryptCost int, logger *slog.Logger) *PostgresLearnerStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLearnerStore{
		db:         db,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "learner_store")),
	}
}

// Ensure PostgresLearnerStore implements store.LearnerStore interface
var _ store.LearnerStore = (*PostgresLearnerStore)(nil)

// Create implements store.LearnerStore.Create
// It validates the learner, hashes the plaintext password, and saves the
// record. The plaintext password is cleared from the struct afterward.
// Returns store.ErrEmailExists if the email is already taken.
func (s *PostgresLearnerStore) Create(ctx context.Context, learner *domain.Learner) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := learner.Validate(); err != nil {
		log.Warn("learner validation failed during create",
			slog.String("error", err.Error()),
			slog.String("learner_id", learner.ID.String()))
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(learner.Password), s.bcryptCost)
	if err != nil {
		log.Error("failed to hash password",
			slog.String("error", err.Error()),
			slog.String("learner_id", learner.ID.String()))
		return fmt.Errorf("failed to hash password: %w", err)
	}
	learner.HashedPassword = string(hashed)
	learner.Password = ""

	query := `
		INSERT INTO learners (id, name, email, hashed_password, cefr_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		learner.ID,
		learner.Name,
		learner.Email,
		learner.HashedPassword,
		learner.CEFRLevel,
		learner.CreatedAt,
		learner.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate email during learner creation",
				slog.String("learner_id", learner.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}

		log.Error("failed to create learner",
			slog.String("error", err.Error()),
			slog.String("learner_id", learner.ID.String()))
		return MapError(err)
	}

	log.Info("learner created",
		slog.String("learner_id", learner.ID.String()))
	return nil
}

// GetByID implements store.LearnerStore.GetByID
// Returns store.ErrLearnerNotFound if the learner does not exist.
func (s *PostgresLearnerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, email, hashed_password, cefr_level, created_at, updated_at
		FROM learners
		WHERE id = $1
	`

	learner, err := scanLearner(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("learner not found", slog.String("learner_id", id.String()))
			return nil, store.ErrLearnerNotFound
		}
		log.Error("failed to get learner by ID",
			slog.String("error", err.Error()),
			slog.String("learner_id", id.String()))
		return nil, MapError(err)
	}

	return learner, nil
}

// GetByEmail implements store.LearnerStore.GetByEmail
// Returns store.ErrLearnerNotFound if the learner does not exist.
func (s *PostgresLearnerStore) GetByEmail(ctx context.Context, email string) (*domain.Learner, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, email, hashed_password, cefr_level, created_at, updated_at
		FROM learners
		WHERE email = $1
	`

	learner, err := scanLearner(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("learner not found by email")
			return nil, store.ErrLearnerNotFound
		}
		log.Error("failed to get learner by email",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return learner, nil
}

// Update implements store.LearnerStore.Update
// When a plaintext Password is set it is validated, rehashed, and cleared;
// otherwise the existing HashedPassword is written back unchanged.
// Returns store.ErrLearnerNotFound if the learner does not exist and
// store.ErrEmailExists when updating to a taken email.
func (s *PostgresLearnerStore) Update(ctx context.Context, learner *domain.Learner) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := learner.Validate(); err != nil {
		log.Warn("learner validation failed during update",
			slog.String("error", err.Error()),
			slog.String("learner_id", learner.ID.String()))
		return err
	}

	if learner.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(learner.Password), s.bcryptCost)
		if err != nil {
			log.Error("failed to hash password",
				slog.String("error", err.Error()),
				slog.String("learner_id", learner.ID.String()))
			return fmt.Errorf("failed to hash password: %w", err)
		}
		learner.HashedPassword = string(hashed)
		learner.Password = ""
	}

	query := `
		UPDATE learners
		SET name = $1, email = $2, hashed_password = $3, cefr_level = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		learner.Name,
		learner.Email,
		learner.HashedPassword,
		learner.CEFRLevel,
		learner.UpdatedAt,
		learner.ID,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate email during learner update",
				slog.String("learner_id", learner.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}

		log.Error("failed to update learner",
			slog.String("error", err.Error()),
			slog.String("learner_id", learner.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrLearnerNotFound); err != nil {
		return err
	}

	log.Info("learner updated",
		slog.String("learner_id", learner.ID.String()))
	return nil
}

// Delete implements store.LearnerStore.Delete
// The learner's cards and review logs go with them (ON DELETE CASCADE).
// Returns store.ErrLearnerNotFound if the learner does not exist.
func (s *PostgresLearnerStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM learners WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete learner",
			slog.String("error", err.Error()),
			slog.String("learner_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrLearnerNotFound); err != nil {
		return err
	}

	log.Info("learner deleted",
		slog.String("learner_id", id.String()))
	return nil
}

// WithTx implements store.LearnerStore.WithTx
// It returns a new store instance backed by the given transaction.
func (s *PostgresLearnerStore) WithTx(tx *sql.Tx) store.LearnerStore {
	return &PostgresLearnerStore{
		db:         tx,
		bcryptCost: s.bcryptCost,
		logger:     s.logger,
	}
}

// scanLearner reads one learner row. The plaintext Password field is never
// stored, so it is always empty on the way out.
func scanLearner(row *sql.Row) (*domain.Learner, error) {
	var learner domain.Learner
	if err := row.Scan(
		&learner.ID,
		&learner.Name,
		&learner.Email,
		&learner.HashedPassword,
		&learner.CEFRLevel,
		&learner.CreatedAt,
		&learner.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &learner, nil
}
