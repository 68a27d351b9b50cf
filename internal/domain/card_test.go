package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewCard(t *testing.T) {
	learnerID := uuid.New()
	contentItemID := uuid.New()

	card, err := NewCard(learnerID, contentItemID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.LearnerID != learnerID {
		t.Errorf("Expected learner ID %s, got %s", learnerID, card.LearnerID)
	}

	if card.ContentItemID != contentItemID {
		t.Errorf("Expected content item ID %s, got %s", contentItemID, card.ContentItemID)
	}

	if card.Stability != InitialStability {
		t.Errorf("Expected initial stability %v, got %v", InitialStability, card.Stability)
	}

	if card.Difficulty != InitialDifficulty {
		t.Errorf("Expected initial difficulty %v, got %v", InitialDifficulty, card.Difficulty)
	}

	if card.Reps != 0 || card.Lapses != 0 {
		t.Errorf("Expected zero reps and lapses, got reps=%d lapses=%d", card.Reps, card.Lapses)
	}

	if !card.IsNew() {
		t.Error("Expected a freshly created card to be new")
	}

	// New cards are immediately due.
	now := time.Now().UTC()
	if card.Due.After(now.Add(2 * time.Second)) {
		t.Errorf("Expected due at or before now, got %v", card.Due)
	}
}

func TestNewCardValidation(t *testing.T) {
	if _, err := NewCard(uuid.Nil, uuid.New()); err != ErrCardLearnerIDEmpty {
		t.Errorf("Expected ErrCardLearnerIDEmpty, got %v", err)
	}

	if _, err := NewCard(uuid.New(), uuid.Nil); err != ErrCardContentIDEmpty {
		t.Errorf("Expected ErrCardContentIDEmpty, got %v", err)
	}
}

func TestCardIsNew(t *testing.T) {
	testCases := []struct {
		name   string
		reps   int
		lapses int
		isNew  bool
	}{
		{"never reviewed", 0, 0, true},
		{"reviewed successfully", 1, 0, false},
		{"first review was a lapse", 0, 1, false},
		{"long history", 8, 2, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state := CardState{Reps: tc.reps, Lapses: tc.lapses}
			if got := state.IsNew(); got != tc.isNew {
				t.Errorf("IsNew() = %v, want %v", got, tc.isNew)
			}
		})
	}
}

func TestCardApplyState(t *testing.T) {
	card, err := NewCard(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	now := time.Now().UTC()
	next := CardState{
		Stability:  2.4,
		Difficulty: 0.493,
		Due:        now.Add(48 * time.Hour),
		Reps:       1,
		Lapses:     0,
	}

	card.ApplyState(next, now)

	if card.Stability != 2.4 {
		t.Errorf("Expected stability 2.4, got %v", card.Stability)
	}

	if card.Reps != 1 {
		t.Errorf("Expected reps 1, got %d", card.Reps)
	}

	if !card.UpdatedAt.Equal(now) {
		t.Errorf("Expected UpdatedAt %v, got %v", now, card.UpdatedAt)
	}

	if err := card.Validate(); err != nil {
		t.Errorf("Expected updated card to remain valid, got %v", err)
	}
}

func TestCardValidateRejectsBadState(t *testing.T) {
	card, err := NewCard(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	card.Stability = 0
	if err := card.Validate(); err != ErrCardStabilityInvalid {
		t.Errorf("Expected ErrCardStabilityInvalid, got %v", err)
	}

	card.Stability = 1.0
	card.Difficulty = 1.5
	if err := card.Validate(); err != ErrCardDifficultyRange {
		t.Errorf("Expected ErrCardDifficultyRange, got %v", err)
	}

	card.Difficulty = 0.3
	card.Reps = -1
	if err := card.Validate(); err != ErrCardCountsNegative {
		t.Errorf("Expected ErrCardCountsNegative, got %v", err)
	}
}
