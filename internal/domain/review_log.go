package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Review log validation errors
var (
	ErrEmptyReviewLogID     = errors.New("review log ID cannot be empty")
	ErrReviewLogCardEmpty   = errors.New("review log card ID cannot be empty")
	ErrReviewLogTimeInvalid = errors.New("review log response time cannot be negative")
)

// ReviewLog is the immutable audit record of one review: what was answered,
// how it was rated, and how the card's memory parameters moved. Created once
// per answer, appended to the log, never mutated.
type ReviewLog struct {
	ID               uuid.UUID    `json:"id"`
	CardID           uuid.UUID    `json:"card_id"`
	LearnerID        uuid.UUID    `json:"learner_id"`
	ExerciseID       uuid.UUID    `json:"exercise_id"`
	Kind             ExerciseKind `json:"kind"`
	Rating           Rating       `json:"rating"`
	TimeMs           int          `json:"time_ms"`
	StabilityBefore  float64      `json:"stability_before"`
	StabilityAfter   float64      `json:"stability_after"`
	DifficultyBefore float64      `json:"difficulty_before"`
	DifficultyAfter  float64      `json:"difficulty_after"`
	ReviewedAt       time.Time    `json:"reviewed_at"`
}

// NewReviewLog records one review of a card. before and after are the
// card states flanking the memory-model update.
func NewReviewLog(
	card *Card,
	exercise *Exercise,
	rating Rating,
	timeMs int,
	before, after CardState,
	reviewedAt time.Time,
) (*ReviewLog, error) {
	log := &ReviewLog{
		ID:               uuid.New(),
		CardID:           card.ID,
		LearnerID:        card.LearnerID,
		ExerciseID:       exercise.ID,
		Kind:             exercise.Kind,
		Rating:           rating,
		TimeMs:           timeMs,
		StabilityBefore:  before.Stability,
		StabilityAfter:   after.Stability,
		DifficultyBefore: before.Difficulty,
		DifficultyAfter:  after.Difficulty,
		ReviewedAt:       reviewedAt,
	}

	if err := log.Validate(); err != nil {
		return nil, err
	}

	return log, nil
}

// Validate checks if the ReviewLog has valid data.
func (l *ReviewLog) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyReviewLogID
	}

	if l.CardID == uuid.Nil {
		return ErrReviewLogCardEmpty
	}

	if l.LearnerID == uuid.Nil {
		return ErrCardLearnerIDEmpty
	}

	if !l.Rating.IsValid() {
		return ErrInvalidRating
	}

	if l.TimeMs < 0 {
		return ErrReviewLogTimeInvalid
	}

	return nil
}
