package review

import (
	"errors"
	"fmt"
)

// Common error types for the review service.
var (
	// ErrSessionNotFound indicates the session does not exist or was evicted.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionNotOwned indicates the session belongs to a different learner.
	ErrSessionNotOwned = errors.New("session belongs to another learner")

	// ErrSessionComplete indicates every card in the session has been answered.
	ErrSessionComplete = errors.New("session is complete")

	// ErrEmptyQueue indicates the learner has nothing to review and no new
	// cards to start.
	ErrEmptyQueue = errors.New("no cards available for review")

	// ErrCardMismatch indicates the answer references a card other than the
	// one currently presented.
	ErrCardMismatch = errors.New("submitted card does not match the presented card")

	// ErrExerciseMismatch indicates the answer references an exercise other
	// than the one currently presented.
	ErrExerciseMismatch = errors.New("submitted exercise does not match the presented exercise")

	// ErrInvalidResponseTime indicates a negative response time.
	ErrInvalidResponseTime = errors.New("response time cannot be negative")
)

// ServiceError wraps errors from the review service with operation context,
// so consumers can differentiate failures with errors.As instead of string
// matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_answer")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewStartSessionError returns a new ServiceError for the start_session operation.
func NewStartSessionError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "start_session",
		Message:   message,
		Err:       err,
	}
}

// NewGetNextError returns a new ServiceError for the get_next operation.
func NewGetNextError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "get_next",
		Message:   message,
		Err:       err,
	}
}

// NewSubmitAnswerError returns a new ServiceError for the submit_answer operation.
func NewSubmitAnswerError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "submit_answer",
		Message:   message,
		Err:       err,
	}
}
