//go:build integration

package testutils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/platform/postgres"
	"github.com/jlenaghan/boliye/internal/store"
)

// TestPassword is the plaintext password used for seeded learners.
const TestPassword = "password-for-tests"

// MustInsertLearner inserts a learner with the given email for testing.
// The learner is hashed with bcrypt.MinCost to keep tests fast.
// Fails the test if insertion fails.
func MustInsertLearner(
	ctx context.Context,
	t *testing.T,
	tx store.DBTX,
	email string,
) *domain.Learner {
	t.Helper()

	learner, err := domain.NewLearner("Test Learner", email, TestPassword)
	require.NoError(t, err, "Failed to build test learner")

	learnerStore := postgres.NewPostgresLearnerStore(tx, bcrypt.MinCost, nil)
	require.NoError(t, learnerStore.Create(ctx, learner), "Failed to insert test learner")

	return learner
}

// MustInsertContentItem inserts a vocabulary content item with the given
// term for testing. Fails the test if insertion fails.
func MustInsertContentItem(
	ctx context.Context,
	t *testing.T,
	tx store.DBTX,
	term string,
) *domain.ContentItem {
	t.Helper()

	item, err := domain.NewContentItem(term, "meaning of "+term, domain.ContentKindVocab)
	require.NoError(t, err, "Failed to build test content item")
	item.Romanization = "test-" + uuid.New().String()[:8]
	item.CEFRLevel = "A1"
	item.Topics = []string{"basics"}

	itemStore := postgres.NewPostgresContentItemStore(tx, nil)
	require.NoError(t, itemStore.Create(ctx, item), "Failed to insert test content item")

	return item
}

// MustInsertExercise inserts an exercise of the given kind attached to a
// content item. MCQ exercises get four options including the answer.
// Fails the test if insertion fails.
func MustInsertExercise(
	ctx context.Context,
	t *testing.T,
	tx store.DBTX,
	contentItemID uuid.UUID,
	kind domain.ExerciseKind,
) *domain.Exercise {
	t.Helper()

	answer := "answer-" + uuid.New().String()[:8]
	var options []string
	if kind == domain.ExerciseKindMCQ {
		options = []string{answer, "पानी", "किताब", "घर"}
	}

	exercise, err := domain.NewExercise(contentItemID, kind, "Prompt for "+answer, answer, options)
	require.NoError(t, err, "Failed to build test exercise")

	exerciseStore := postgres.NewPostgresExerciseStore(tx, nil)
	require.NoError(t, exerciseStore.Create(ctx, exercise), "Failed to insert test exercise")

	return exercise
}

// MustInsertCard inserts a card linking a learner to a content item, in
// the neutral pre-review state. Fails the test if insertion fails.
func MustInsertCard(
	ctx context.Context,
	t *testing.T,
	tx store.DBTX,
	learnerID, contentItemID uuid.UUID,
) *domain.Card {
	t.Helper()

	card, err := domain.NewCard(learnerID, contentItemID)
	require.NoError(t, err, "Failed to build test card")

	cardStore := postgres.NewPostgresCardStore(tx, nil)
	require.NoError(t, cardStore.Create(ctx, card), "Failed to insert test card")

	return card
}
