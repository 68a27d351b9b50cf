package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Neutral scheduling state assigned when a card is created, before its
// first review. The card is immediately due.
const (
	InitialStability  = 0.5
	InitialDifficulty = 0.3
)

// Card-specific validation errors
var (
	ErrEmptyCardID          = errors.New("card ID cannot be empty")
	ErrCardLearnerIDEmpty   = errors.New("card learner ID cannot be empty")
	ErrCardContentIDEmpty   = errors.New("card content item ID cannot be empty")
	ErrCardStabilityInvalid = errors.New("card stability must be positive and finite")
	ErrCardDifficultyRange  = errors.New("card difficulty must be within [0, 1]")
	ErrCardDueZero          = errors.New("card due timestamp cannot be zero")
	ErrCardCountsNegative   = errors.New("card reps and lapses cannot be negative")
)

// CardState is the scheduling state the memory model reads and writes:
// the card's memory parameters plus its review counters.
//
// Invariants: a card with Reps == 0 and Lapses == 0 has never been reviewed
// ("new"); Reps > 0 makes it eligible for due-card selection; Stability never
// drops below the algorithm's floor after an update.
type CardState struct {
	Stability  float64   `json:"stability"`  // Days until recall decays to the target retention
	Difficulty float64   `json:"difficulty"` // Intrinsic hardness, within [0.01, 0.99] after any review
	Due        time.Time `json:"due"`        // When the card next becomes eligible, UTC
	Reps       int       `json:"reps"`       // Successful reviews (rating >= 2) since creation
	Lapses     int       `json:"lapses"`     // Again (rating 1) outcomes, monotonically increasing
}

// IsNew reports whether the card has never been reviewed.
func (s CardState) IsNew() bool {
	return s.Reps == 0 && s.Lapses == 0
}

// Card links a learner to a content item and carries the spaced-repetition
// scheduling state for that pair. One card exists per (learner, content item).
type Card struct {
	ID            uuid.UUID `json:"id"`
	LearnerID     uuid.UUID `json:"learner_id"`
	ContentItemID uuid.UUID `json:"content_item_id"`
	CardState
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a card for a learner-content pair in the neutral
// pre-review state: immediately due, zero reps and lapses.
func NewCard(learnerID, contentItemID uuid.UUID) (*Card, error) {
	now := UTCNow()
	card := &Card{
		ID:            uuid.New(),
		LearnerID:     learnerID,
		ContentItemID: contentItemID,
		CardState: CardState{
			Stability:  InitialStability,
			Difficulty: InitialDifficulty,
			Due:        now,
			Reps:       0,
			Lapses:     0,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCardID
	}

	if c.LearnerID == uuid.Nil {
		return ErrCardLearnerIDEmpty
	}

	if c.ContentItemID == uuid.Nil {
		return ErrCardContentIDEmpty
	}

	if !(c.Stability > 0) {
		return ErrCardStabilityInvalid
	}

	if c.Difficulty < 0 || c.Difficulty > 1 {
		return ErrCardDifficultyRange
	}

	if c.Due.IsZero() {
		return ErrCardDueZero
	}

	if c.Reps < 0 || c.Lapses < 0 {
		return ErrCardCountsNegative
	}

	return nil
}

// ApplyState replaces the card's scheduling state wholesale. Reviews never
// patch individual fields; the memory model computes a complete new state
// and this installs it.
func (c *Card) ApplyState(s CardState, now time.Time) {
	c.CardState = s
	c.UpdatedAt = now
}
