package fsrs

import (
	"errors"
	"math"
	"time"

	"github.com/jlenaghan/boliye/internal/domain"
)

// Common errors
var (
	ErrNonFiniteState = errors.New("card state contains non-finite stability or difficulty")
)

// ReviewResult is the outcome of applying one review to a card.
type ReviewResult struct {
	// NewState is the full replacement state for the card.
	NewState domain.CardState

	// IntervalDays is the scheduled gap until the next review, in days.
	IntervalDays float64

	// Retrievability is the estimated recall probability at review time.
	Retrievability float64
}

// Service defines the interface for scheduler operations.
type Service interface {
	// InitialState creates the state for a new card after its first-ever
	// review. Ratings outside 1-4 are clamped.
	InitialState(rating domain.Rating, now time.Time) domain.CardState

	// Review applies a rating to an existing card state and computes the
	// replacement state, next interval, and estimated recall probability.
	// Ratings outside 1-4 are clamped.
	Review(state domain.CardState, rating domain.Rating, reviewTime time.Time) (ReviewResult, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduler service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduler service with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// InitialState implements the Service interface for first reviews.
func (s *defaultService) InitialState(rating domain.Rating, now time.Time) domain.CardState {
	rating = rating.Clamped()

	stability := s.params.Weights[rating-1] // w0..w3
	difficulty := initialDifficulty(rating, s.params)
	interval := intervalForStability(stability, s.params)

	reps := 1
	lapses := 0
	if rating == domain.RatingAgain {
		reps = 0
		lapses = 1
	}

	return domain.CardState{
		Stability:  stability,
		Difficulty: difficulty,
		Due:        now.Add(daysToDuration(interval)),
		Reps:       reps,
		Lapses:     lapses,
	}
}

// Review implements the Service interface for subsequent reviews.
func (s *defaultService) Review(
	state domain.CardState,
	rating domain.Rating,
	reviewTime time.Time,
) (ReviewResult, error) {
	if !isFinite(state.Stability) || !isFinite(state.Difficulty) {
		return ReviewResult{}, ErrNonFiniteState
	}

	newState, interval, recall := nextState(state, rating.Clamped(), reviewTime, s.params)

	return ReviewResult{
		NewState:       newState,
		IntervalDays:   interval,
		Retrievability: recall,
	}, nil
}

// isFinite reports whether f is neither NaN nor an infinity.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
