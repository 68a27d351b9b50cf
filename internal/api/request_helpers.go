package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jlenaghan/boliye/internal/api/shared"
	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/platform/logger"
	"github.com/jlenaghan/boliye/internal/redact"
)

// getLearnerIDFromContext extracts the authenticated learner's UUID from the
// request context. The learner ID is expected to be placed in the context by
// the authentication middleware.
//
// Returns:
//   - (uuid.UUID, true): The learner's UUID if successfully extracted
//   - (uuid.UUID{}, false): A zero UUID and false if the learner ID is not found or invalid
func getLearnerIDFromContext(r *http.Request) (uuid.UUID, bool) {
	learnerID, ok := r.Context().Value(shared.LearnerIDContextKey).(uuid.UUID)
	if !ok || learnerID == uuid.Nil {
		return uuid.Nil, false
	}
	return learnerID, true
}

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
//
// Returns:
//   - (uuid.UUID, nil): The parsed UUID if valid
//   - (uuid.UUID{}, error): A zero UUID and appropriate error if the parameter is missing or invalid
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// handleLearnerIDFromContext extracts the authenticated learner's UUID from
// the request context and writes a 401 response if it is missing or invalid.
//
// Returns:
//   - (learnerID, true): The learner's UUID if extraction succeeded
//   - (uuid.UUID{}, false): A zero UUID and false if extraction failed and an error was written
func handleLearnerIDFromContext(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
) (uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	learnerID, ok := getLearnerIDFromContext(r)
	if !ok {
		log.Warn("learner ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Learner ID not found or invalid")
		return uuid.Nil, false
	}

	return learnerID, true
}

// handleLearnerIDAndPathUUID is a composite helper that extracts both the
// learner ID from context and a UUID from the path parameters. It writes an
// error response if either extraction fails.
//
// Returns:
//   - (learnerID, pathID, true): Both UUIDs if extraction succeeded
//   - (uuid.UUID{}, uuid.UUID{}, false): Zero UUIDs and false if extraction failed and an error was written
func handleLearnerIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (uuid.UUID, uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	learnerID, ok := handleLearnerIDFromContext(w, r, log)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		logMsg := "invalid path parameter"
		if paramName != "" {
			logMsg = "invalid " + paramName
		}
		log.Warn(logMsg, slog.String("param_name", paramName), slog.String("value", chi.URLParam(r, paramName)))
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return uuid.Nil, uuid.Nil, false
	}

	return learnerID, pathID, true
}

// parseAndValidateRequest decodes the JSON body into dst and validates it
// with the shared validator. On failure it writes the error response and
// returns false.
func parseAndValidateRequest(
	w http.ResponseWriter,
	r *http.Request,
	dst interface{},
	log *slog.Logger,
) bool {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	if err := shared.DecodeJSON(r, dst); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}

	if err := shared.Validate.Struct(dst); err != nil {
		HandleValidationError(w, r, err)
		return false
	}

	return true
}
