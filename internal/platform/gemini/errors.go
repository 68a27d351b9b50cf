package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrInvalidConfig is returned when the assessor configuration is invalid.
	ErrInvalidConfig = errors.New("invalid assessor configuration")

	// ErrInvalidVerdict is returned when the LLM response cannot be parsed
	// into a verdict.
	ErrInvalidVerdict = errors.New("invalid verdict from language model")

	// ErrContentBlocked is returned when the LLM blocks the exchange due to
	// safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve
	// on retry.
	ErrTransientFailure = errors.New("transient error during fuzzy assessment")
)
