package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlenaghan/boliye/internal/store"
)

// mockResult implements sql.Result for exercising CheckRowsAffected.
type mockResult struct {
	rows int64
	err  error
}

func (m mockResult) LastInsertId() (int64, error) { return 0, nil }
func (m mockResult) RowsAffected() (int64, error) { return m.rows, m.err }

func TestMapError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		wantIs   error
		passThru bool
	}{
		{
			name: "nil maps to nil",
			err:  nil,
		},
		{
			name:   "no rows maps to not found",
			err:    fmt.Errorf("query failed: %w", sql.ErrNoRows),
			wantIs: store.ErrNotFound,
		},
		{
			name:   "unique violation maps to duplicate",
			err:    &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "learners_email_key"},
			wantIs: store.ErrDuplicate,
		},
		{
			name:   "foreign key violation maps to invalid entity",
			err:    &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "cards_learner_id_fkey"},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "check violation maps to invalid entity",
			err:    &pgconn.PgError{Code: checkViolationCode, ConstraintName: "cards_reps_check"},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:     "unrelated errors pass through",
			err:      errors.New("connection reset"),
			passThru: true,
		},
		{
			name:     "unmapped postgres codes pass through",
			err:      &pgconn.PgError{Code: "57014"}, // query_canceled
			passThru: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mapped := MapError(tc.err)

			if tc.err == nil {
				assert.NoError(t, mapped)
				return
			}

			if tc.passThru {
				assert.Equal(t, tc.err, mapped, "Unmapped errors should be returned unchanged")
				return
			}

			require.Error(t, mapped)
			assert.ErrorIs(t, mapped, tc.wantIs)
		})
	}
}

func TestMapErrorMessagesNameConstraint(t *testing.T) {
	t.Parallel()

	err := MapError(&pgconn.PgError{
		Code:           foreignKeyViolationCode,
		ConstraintName: "cards_learner_id_fkey",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cards_learner_id_fkey",
		"Constraint name should survive into the mapped error for debugging")
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	uniqueErr := &pgconn.PgError{Code: uniqueViolationCode}
	assert.True(t, IsUniqueViolation(uniqueErr))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", uniqueErr)),
		"Wrapped violations should still be detected")

	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("plain error")))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	fkErr := &pgconn.PgError{Code: foreignKeyViolationCode}
	assert.True(t, IsForeignKeyViolation(fkErr))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("insert: %w", fkErr)))

	assert.False(t, IsForeignKeyViolation(nil))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: uniqueViolationCode}))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, CheckRowsAffected(mockResult{rows: 1}, store.ErrCardNotFound))
	})

	t.Run("zero rows returns the sentinel", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(mockResult{rows: 0}, store.ErrCardNotFound)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("driver error is wrapped", func(t *testing.T) {
		t.Parallel()
		driverErr := errors.New("rows affected unsupported")
		err := CheckRowsAffected(mockResult{err: driverErr}, store.ErrCardNotFound)
		require.Error(t, err)
		assert.ErrorIs(t, err, driverErr)
		assert.NotErrorIs(t, err, store.ErrCardNotFound)
	})

	t.Run("nil result is an error", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, CheckRowsAffected(nil, store.ErrCardNotFound))
	})
}
