package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/platform/logger"
	"github.com/jlenaghan/boliye/internal/store"
)

// rowScanner abstracts over *sql.Row and *sql.Rows so the same scan
// helper can serve single-row lookups and list queries.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresContentItemStore implements the store.ContentItemStore interface
// using a PostgreSQL database as the storage backend. Topics are stored as
// a JSONB array.
type PostgresContentItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContentItemStore creates a new PostgreSQL implementation of the
// ContentItemStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresContentItemStore(db store.DBTX, logger *slog.Logger) *PostgresContentItemStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresContentItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "content_item_store")),
	}
}

// Ensure PostgresContentItemStore implements store.ContentItemStore interface
var _ store.ContentItemStore = (*PostgresContentItemStore)(nil)

// Create implements store.ContentItemStore.Create
func (s *PostgresContentItemStore) Create(ctx context.Context, item *domain.ContentItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.insert(ctx, item); err != nil {
		log.Error("failed to create content item",
			slog.String("error", err.Error()),
			slog.String("content_item_id", item.ID.String()))
		return err
	}

	log.Info("content item created",
		slog.String("content_item_id", item.ID.String()),
		slog.String("term", item.Term))
	return nil
}

// CreateMultiple implements store.ContentItemStore.CreateMultiple
// The caller is responsible for running this within a transaction
// (WithTx + store.RunInTransaction) so a failed bulk import rolls
// back completely.
func (s *PostgresContentItemStore) CreateMultiple(ctx context.Context, items []*domain.ContentItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, item := range items {
		if err := s.insert(ctx, item); err != nil {
			log.Error("failed to create content item in batch",
				slog.String("error", err.Error()),
				slog.String("content_item_id", item.ID.String()))
			return fmt.Errorf("failed to create content item %s: %w", item.ID, err)
		}
	}

	log.Info("content items created",
		slog.Int("count", len(items)))
	return nil
}

// insert validates and writes one content item. Shared by Create and
// CreateMultiple so both apply the same validation and topic encoding.
func (s *PostgresContentItemStore) insert(ctx context.Context, item *domain.ContentItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	topicsJSON, err := json.Marshal(item.Topics)
	if err != nil {
		return fmt.Errorf("failed to marshal topics: %w", err)
	}

	query := `
		INSERT INTO content_items (id, term, definition, romanization, context, kind, cefr_level, topics, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Term,
		item.Definition,
		item.Romanization,
		item.Context,
		item.Kind,
		item.CEFRLevel,
		topicsJSON,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetByID implements store.ContentItemStore.GetByID
// Returns store.ErrContentItemNotFound if the item does not exist.
func (s *PostgresContentItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, term, definition, romanization, context, kind, cefr_level, topics, created_at, updated_at
		FROM content_items
		WHERE id = $1
	`

	item, err := scanContentItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("content item not found",
				slog.String("content_item_id", id.String()))
			return nil, store.ErrContentItemNotFound
		}
		log.Error("failed to get content item",
			slog.String("error", err.Error()),
			slog.String("content_item_id", id.String()))
		return nil, MapError(err)
	}

	return item, nil
}

// GetByIDs implements store.ContentItemStore.GetByIDs
// Missing IDs are skipped; the result carries only the items that exist.
func (s *PostgresContentItemStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.ContentItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return []*domain.ContentItem{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, term, definition, romanization, context, kind, cefr_level, topics, created_at, updated_at
		FROM content_items
		WHERE id IN (%s)
	`, strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query content items",
			slog.String("error", err.Error()),
			slog.Int("id_count", len(ids)))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows",
				slog.String("error", err.Error()))
		}
	}()

	items := make([]*domain.ContentItem, 0, len(ids))
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			log.Error("failed to scan content item row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating content item rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return items, nil
}

// WithTx implements store.ContentItemStore.WithTx
// It returns a new store instance backed by the given transaction.
func (s *PostgresContentItemStore) WithTx(tx *sql.Tx) store.ContentItemStore {
	return &PostgresContentItemStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanContentItem reads one content item row, decoding the topics JSONB
// column. A NULL topics column leaves the slice nil.
func scanContentItem(row rowScanner) (*domain.ContentItem, error) {
	var (
		item       domain.ContentItem
		topicsJSON []byte
	)
	if err := row.Scan(
		&item.ID,
		&item.Term,
		&item.Definition,
		&item.Romanization,
		&item.Context,
		&item.Kind,
		&item.CEFRLevel,
		&topicsJSON,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(topicsJSON) > 0 {
		if err := json.Unmarshal(topicsJSON, &item.Topics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal topics: %w", err)
		}
	}

	return &item, nil
}
