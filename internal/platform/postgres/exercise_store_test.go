//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/platform/postgres"
	"github.com/jlenaghan/boliye/internal/store"
	"github.com/jlenaghan/boliye/internal/testutils"
)

func TestPostgresExerciseStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("mcq options survive the round trip", func(t *testing.T) {
		t.Parallel()
		testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			item := testutils.MustInsertContentItem(ctx, t, tx, "पानी")
			options := []string{"पानी", "घर", "किताब", "नमस्ते"}
			exercise, err := domain.NewExercise(
				item.ID, domain.ExerciseKindMCQ, "Which word means water?", "पानी", options)
			require.NoError(t, err)

			exerciseStore := postgres.NewPostgresExerciseStore(tx, nil)
			require.NoError(t, exerciseStore.Create(ctx, exercise))

			found, err := exerciseStore.GetByID(ctx, exercise.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.ExerciseKindMCQ, found.Kind)
			assert.Equal(t, options, found.Options)
			assert.Equal(t, domain.ExerciseStatusGenerated, found.Status)
			assert.True(t, found.Presentable())
		})
	})

	t.Run("missing content item", func(t *testing.T) {
		t.Parallel()
		testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			exercise, err := domain.NewExercise(
				uuid.New(), domain.ExerciseKindCloze, "मुझे ___ चाहिए।", "पानी", nil)
			require.NoError(t, err)

			exerciseStore := postgres.NewPostgresExerciseStore(tx, nil)
			err = exerciseStore.Create(ctx, exercise)
			assert.ErrorIs(t, err, store.ErrInvalidEntity)
		})
	})

	t.Run("mcq without enough options", func(t *testing.T) {
		t.Parallel()
		testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			item := testutils.MustInsertContentItem(ctx, t, tx, "घर")
			exercise, err := domain.NewExercise(
				item.ID, domain.ExerciseKindCloze, "prompt", "घर", nil)
			require.NoError(t, err)
			exercise.Kind = domain.ExerciseKindMCQ
			exercise.Options = []string{"घर"}

			exerciseStore := postgres.NewPostgresExerciseStore(tx, nil)
			err = exerciseStore.Create(ctx, exercise)
			assert.ErrorIs(t, err, domain.ErrMCQWithoutOptions)
		})
	})
}

func TestPostgresExerciseStore_ListByContentItem(t *testing.T) {
	t.Parallel()

	t.Run("oldest first", func(t *testing.T) {
		t.Parallel()
		testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			item := testutils.MustInsertContentItem(ctx, t, tx, "किताब")
			now := domain.UTCNow()

			older, err := domain.NewExercise(
				item.ID, domain.ExerciseKindCloze, "older prompt", "किताब", nil)
			require.NoError(t, err)
			older.CreatedAt = now.Add(-2 * time.Hour)

			newer, err := domain.NewExercise(
				item.ID, domain.ExerciseKindTranslation, "newer prompt", "किताब", nil)
			require.NoError(t, err)
			newer.CreatedAt = now.Add(-1 * time.Hour)

			exerciseStore := postgres.NewPostgresExerciseStore(tx, nil)
			require.NoError(t, exerciseStore.CreateMultiple(ctx, []*domain.Exercise{newer, older}))

			listed, err := exerciseStore.ListByContentItem(ctx, item.ID)
			require.NoError(t, err)
			require.Len(t, listed, 2)
			assert.Equal(t, older.ID, listed[0].ID)
			assert.Equal(t, newer.ID, listed[1].ID)
		})
	})

	t.Run("no exercises yields empty slice", func(t *testing.T) {
		t.Parallel()
		testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			item := testutils.MustInsertContentItem(ctx, t, tx, "नमस्ते")

			exerciseStore := postgres.NewPostgresExerciseStore(tx, nil)
			listed, err := exerciseStore.ListByContentItem(ctx, item.ID)
			require.NoError(t, err)
			assert.NotNil(t, listed)
			assert.Empty(t, listed)
		})
	})
}

func TestPostgresExerciseStore_UpdateStatus(t *testing.T) {
	t.Parallel()

	t.Run("approve", func(t *testing.T) {
		t.Parallel()
		testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			item := testutils.MustInsertContentItem(ctx, t, tx, "दो")
			exercise := testutils.MustInsertExercise(ctx, t, tx, item.ID, domain.ExerciseKindCloze)

			exerciseStore := postgres.NewPostgresExerciseStore(tx, nil)
			require.NoError(t, exerciseStore.UpdateStatus(ctx, exercise.ID, domain.ExerciseStatusApproved))

			found, err := exerciseStore.GetByID(ctx, exercise.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.ExerciseStatusApproved, found.Status)
			assert.True(t, found.Presentable())
		})
	})

	t.Run("reject makes the exercise unpresentable", func(t *testing.T) {
		t.Parallel()
		testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			item := testutils.MustInsertContentItem(ctx, t, tx, "तीन")
			exercise := testutils.MustInsertExercise(ctx, t, tx, item.ID, domain.ExerciseKindCloze)

			exerciseStore := postgres.NewPostgresExerciseStore(tx, nil)
			require.NoError(t, exerciseStore.UpdateStatus(ctx, exercise.ID, domain.ExerciseStatusRejected))

			found, err := exerciseStore.GetByID(ctx, exercise.ID)
			require.NoError(t, err)
			assert.False(t, found.Presentable())
		})
	})

	t.Run("unknown status", func(t *testing.T) {
		t.Parallel()
		testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			item := testutils.MustInsertContentItem(ctx, t, tx, "चार")
			exercise := testutils.MustInsertExercise(ctx, t, tx, item.ID, domain.ExerciseKindCloze)

			exerciseStore := postgres.NewPostgresExerciseStore(tx, nil)
			err := exerciseStore.UpdateStatus(ctx, exercise.ID, domain.ExerciseStatus("archived"))
			assert.ErrorIs(t, err, store.ErrInvalidEntity)

			found, err := exerciseStore.GetByID(ctx, exercise.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.ExerciseStatusGenerated, found.Status, "Status should be unchanged")
		})
	})

	t.Run("unknown exercise", func(t *testing.T) {
		t.Parallel()
		testutils.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			exerciseStore := postgres.NewPostgresExerciseStore(tx, nil)
			err := exerciseStore.UpdateStatus(ctx, uuid.New(), domain.ExerciseStatusApproved)
			assert.ErrorIs(t, err, store.ErrExerciseNotFound)
		})
	})
}
