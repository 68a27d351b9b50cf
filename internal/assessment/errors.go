package assessment

import "errors"

// Common errors returned by the assessment package
var (
	// ErrMissingExercise is returned when a response is assessed without an exercise.
	ErrMissingExercise = errors.New("exercise is required for assessment")
)
