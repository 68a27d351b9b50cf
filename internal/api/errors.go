package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jlenaghan/boliye/internal/api/shared"
	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/service/auth"
	"github.com/jlenaghan/boliye/internal/service/review"
	"github.com/jlenaghan/boliye/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	// Field-level validation failures are client errors regardless of what
	// they wrap.
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, review.ErrSessionNotOwned):
		return http.StatusForbidden

	// A finished session is gone, not missing: the client should end it and
	// start a new one.
	case errors.Is(err, review.ErrSessionComplete):
		return http.StatusGone

	// Not found errors. An empty queue means there is nothing to build a
	// session from, which the client sees as not found.
	case errors.Is(err, review.ErrSessionNotFound),
		errors.Is(err, review.ErrEmptyQueue),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, review.ErrCardMismatch),
		errors.Is(err, review.ErrExerciseMismatch),
		errors.Is(err, review.ErrInvalidResponseTime),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidExerciseKind):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	// Validation errors carry a field and message that are safe to show.
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		if validationErr.Field != "" {
			return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
		}
		return validationErr.Message
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized operation"

	// Authorization errors
	case errors.Is(err, review.ErrSessionNotOwned):
		return "You do not own this session"

	// Session lifecycle
	case errors.Is(err, review.ErrSessionComplete):
		return "Session is complete"

	case errors.Is(err, review.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, review.ErrEmptyQueue):
		return "No cards available for review"

	// Validation
	case errors.Is(err, review.ErrCardMismatch):
		return "Submitted card does not match the presented card"

	case errors.Is(err, review.ErrExerciseMismatch):
		return "Submitted exercise does not match the presented exercise"

	case errors.Is(err, review.ErrInvalidResponseTime):
		return "Response time cannot be negative"

	// Not found errors, most specific first
	case errors.Is(err, store.ErrLearnerNotFound):
		return "Learner not found"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrContentItemNotFound):
		return "Content item not found"

	case errors.Is(err, store.ErrExerciseNotFound):
		return "Exercise not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrCardExists):
		return "A card already exists for this content item"

	case errors.Is(err, store.ErrDuplicate):
		return "Already exists"

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"

	case errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid email format"

	case errors.Is(err, domain.ErrInvalidRating):
		return "Invalid rating"

	case errors.Is(err, domain.ErrInvalidExerciseKind):
		return "Invalid exercise kind"

	case errors.Is(err, domain.ErrValidation):
		return "Validation failed"

	default:
		// Review service failures carry their operation; use it to pick a
		// message without exposing the underlying error.
		var svcErr *review.ServiceError
		if errors.As(err, &svcErr) {
			switch svcErr.Operation {
			case "start_session":
				return "Failed to start session"
			case "get_next":
				return "Failed to get the next card"
			case "submit_answer":
				return "Failed to submit answer"
			}
		}

		// Store failures expose only their own message, never the wrapped
		// driver error.
		var storeErr *store.StoreError
		if errors.As(err, &storeErr) {
			return fmt.Sprintf("Operation failed: %s", storeErr.Message)
		}

		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to an HTTP status code and a safe client message,
// writes the JSON error response, and logs the underlying error with the
// request's trace ID. When the mapping can only produce the generic fallback
// message and defaultMsg is non-empty, defaultMsg is sent instead, which lets
// handlers give unexpected failures an operation-specific message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)

	message := GetSafeErrorMessage(err)
	if message == "An unexpected error occurred" && defaultMsg != "" {
		message = defaultMsg
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// HandleValidationError writes a 400 response with a sanitized validation
// message and logs the full validation error. Use for request body
// validation failures.
func HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	// Domain validation errors already carry a safe field and message.
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		if validationErr.Field != "" {
			return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
		}
		return validationErr.Message
	}

	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Email' Error:Field validation for
	// 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte":
		return "too small"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
