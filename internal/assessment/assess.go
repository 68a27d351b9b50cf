package assessment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jlenaghan/boliye/internal/domain"
)

// Assessment is the result of grading a learner's response.
type Assessment struct {
	// Grade classifies the response.
	Grade Grade `json:"grade"`

	// SuggestedRating is the review rating the grade implies (1-4). The
	// learner's self-rating, when present, overrides it.
	SuggestedRating domain.Rating `json:"suggested_rating"`

	// Feedback is a short explanation for the learner.
	Feedback string `json:"feedback"`

	// Expected is the answer the exercise was looking for.
	Expected string `json:"expected"`

	// Actual is the response the learner gave.
	Actual string `json:"actual"`

	// ExactMatch is true when the response matched the expected answer under
	// normalization, without any fuzzy judgement involved.
	ExactMatch bool `json:"exact_match"`
}

// Assessor grades a learner's response to an exercise.
type Assessor interface {
	// Assess evaluates the response against the exercise's expected answer.
	// Implementations must not mutate the exercise.
	Assess(ctx context.Context, response string, exercise *domain.Exercise) (Assessment, error)
}

// Exact performs exact-match assessment with Hindi-aware normalization.
// It is fast and free: no external calls.
func Exact(response, expected string) Assessment {
	if hindiEquivalent(response, expected) {
		return Assessment{
			Grade:           GradeCorrect,
			SuggestedRating: GradeCorrect.Rating(),
			Feedback:        "Correct!",
			Expected:        expected,
			Actual:          response,
			ExactMatch:      true,
		}
	}

	return Assessment{
		Grade:           GradeIncorrect,
		SuggestedRating: GradeIncorrect.Rating(),
		Feedback:        fmt.Sprintf("Expected: %s", expected),
		Expected:        expected,
		Actual:          response,
	}
}

// MCQ assesses a multiple-choice selection. A correct pick suggests Good
// rather than Easy: recognizing the answer among options is weaker evidence
// of recall than producing it.
func MCQ(selected, correct string) Assessment {
	if Normalize(selected) == Normalize(correct) {
		return Assessment{
			Grade:           GradeCorrect,
			SuggestedRating: domain.RatingGood,
			Feedback:        "Correct!",
			Expected:        correct,
			Actual:          selected,
			ExactMatch:      true,
		}
	}

	return Assessment{
		Grade:           GradeIncorrect,
		SuggestedRating: domain.RatingAgain,
		Feedback:        fmt.Sprintf("The correct answer was: %s", correct),
		Expected:        correct,
		Actual:          selected,
	}
}

// Engine routes responses to the right assessor for the exercise kind:
// MCQ selections are checked against the options, typed responses go through
// the fuzzy assessor when one is configured, and everything else falls back
// to exact matching.
type Engine struct {
	fuzzy  Assessor
	logger *slog.Logger
}

var _ Assessor = (*Engine)(nil)

// NewEngine creates an assessment engine. fuzzy may be nil, in which case
// typed responses are graded by exact matching only.
func NewEngine(fuzzy Assessor, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		fuzzy:  fuzzy,
		logger: logger.With(slog.String("component", "assessment_engine")),
	}
}

// Assess grades the response. A fuzzy assessor failure is logged and degrades
// to the exact-match result rather than failing the review.
func (e *Engine) Assess(ctx context.Context, response string, exercise *domain.Exercise) (Assessment, error) {
	if exercise == nil {
		return Assessment{}, ErrMissingExercise
	}

	if exercise.Kind == domain.ExerciseKindMCQ {
		return MCQ(response, exercise.Answer), nil
	}

	// Exact match is free; only consult the fuzzy assessor when it would
	// change the outcome.
	exact := Exact(response, exercise.Answer)
	if e.fuzzy == nil || exact.Grade == GradeCorrect {
		return exact, nil
	}

	verdict, err := e.fuzzy.Assess(ctx, response, exercise)
	if err != nil {
		e.logger.WarnContext(ctx, "fuzzy assessment failed, falling back to exact match",
			slog.String("exercise_id", exercise.ID.String()),
			slog.String("error", err.Error()))
		return exact, nil
	}

	return verdict, nil
}
