package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ExerciseKind is the tagged variant distinguishing how a card is practiced.
// Assessment and selection dispatch on the kind, never on free-form strings.
type ExerciseKind string

// Possible exercise kinds, ordered easiest to hardest.
const (
	ExerciseKindMCQ         ExerciseKind = "mcq"         // Recognition
	ExerciseKindCloze       ExerciseKind = "cloze"       // Recall with context
	ExerciseKindTranslation ExerciseKind = "translation" // Full production
)

// IsValid reports whether the kind is one of the known variants.
func (k ExerciseKind) IsValid() bool {
	switch k {
	case ExerciseKindMCQ, ExerciseKindCloze, ExerciseKindTranslation:
		return true
	}
	return false
}

// DifficultyTier returns the production-difficulty tier of the kind:
// 1 (recognition) through 3 (full production). Unknown kinds rank hardest.
func (k ExerciseKind) DifficultyTier() int {
	switch k {
	case ExerciseKindMCQ:
		return 1
	case ExerciseKindCloze:
		return 2
	default:
		return 3
	}
}

// ExerciseStatus tracks an exercise through its review-for-quality lifecycle.
type ExerciseStatus string

// Possible exercise statuses.
const (
	ExerciseStatusGenerated ExerciseStatus = "generated"
	ExerciseStatusApproved  ExerciseStatus = "approved"
	ExerciseStatusRejected  ExerciseStatus = "rejected"
)

// Exercise validation errors
var (
	ErrEmptyExerciseID     = errors.New("exercise ID cannot be empty")
	ErrEmptyExercisePrompt = errors.New("exercise prompt cannot be empty")
	ErrEmptyExerciseAnswer = errors.New("exercise answer cannot be empty")
	ErrMCQWithoutOptions   = errors.New("mcq exercise must have at least two options")
)

// Exercise is one way of practicing a content item: a prompt, the expected
// answer, and (for MCQ) the candidate options.
type Exercise struct {
	ID            uuid.UUID      `json:"id"`
	ContentItemID uuid.UUID      `json:"content_item_id"`
	Kind          ExerciseKind   `json:"kind"`
	Prompt        string         `json:"prompt"`
	Answer        string         `json:"answer"`
	Options       []string       `json:"options,omitempty"` // MCQ choices, includes the answer
	Status        ExerciseStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewExercise creates an exercise for a content item in the "generated"
// status (presentable, pending human approval).
func NewExercise(contentItemID uuid.UUID, kind ExerciseKind, prompt, answer string, options []string) (*Exercise, error) {
	now := UTCNow()
	ex := &Exercise{
		ID:            uuid.New(),
		ContentItemID: contentItemID,
		Kind:          kind,
		Prompt:        prompt,
		Answer:        answer,
		Options:       options,
		Status:        ExerciseStatusGenerated,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := ex.Validate(); err != nil {
		return nil, err
	}

	return ex, nil
}

// Validate checks if the Exercise has valid data.
func (e *Exercise) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyExerciseID
	}

	if e.ContentItemID == uuid.Nil {
		return ErrEmptyContentItemID
	}

	if !e.Kind.IsValid() {
		return ErrInvalidExerciseKind
	}

	if e.Prompt == "" {
		return ErrEmptyExercisePrompt
	}

	if e.Answer == "" {
		return ErrEmptyExerciseAnswer
	}

	if e.Kind == ExerciseKindMCQ && len(e.Options) < 2 {
		return ErrMCQWithoutOptions
	}

	return nil
}

// Presentable reports whether the exercise may be shown to a learner.
// Rejected exercises are kept for audit but never selected.
func (e *Exercise) Presentable() bool {
	return e.Status == ExerciseStatusGenerated || e.Status == ExerciseStatusApproved
}
