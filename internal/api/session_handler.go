package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/jlenaghan/boliye/internal/api/shared"
	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/platform/logger"
	"github.com/jlenaghan/boliye/internal/service/review"
)

// ReviewService is the slice of the review session service that the HTTP
// handlers depend on.
type ReviewService interface {
	// StartSession builds a review queue for the learner and registers a
	// new in-memory session around it.
	StartSession(ctx context.Context, learnerID uuid.UUID) (*review.StartedSession, error)

	// Authorize confirms the session exists and belongs to the learner.
	Authorize(ctx context.Context, sessionID, learnerID uuid.UUID) error

	// GetNext returns the current card of the session with its exercise.
	GetNext(ctx context.Context, sessionID uuid.UUID) (*review.PresentedCard, error)

	// SubmitAnswer grades the learner's answer, applies the rating to the
	// card, and advances the session.
	SubmitAnswer(ctx context.Context, sessionID uuid.UUID, answer review.SubmittedAnswer) (*review.AnswerResult, error)

	// SessionStats returns a snapshot of the session's running counters.
	SessionStats(ctx context.Context, sessionID uuid.UUID) (review.SessionStats, error)

	// EndSession closes the session and returns its summary.
	EndSession(ctx context.Context, sessionID uuid.UUID) (*review.SessionSummary, error)
}

// Compile-time check that the concrete service satisfies the handler's view.
var _ ReviewService = (*review.Service)(nil)

// SessionHandler handles review session HTTP requests.
type SessionHandler struct {
	reviews ReviewService
	logger  *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
// Panics if reviews is nil. If logger is nil, a default logger is used.
func NewSessionHandler(reviews ReviewService, logger *slog.Logger) *SessionHandler {
	if reviews == nil {
		panic("review service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "session_handler")),
	}
}

// Start handles POST /sessions requests. It builds a review queue for the
// authenticated learner and responds with the new session's overview.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := handleLearnerIDFromContext(w, r, log)
	if !ok {
		return
	}

	started, err := h.reviews.StartSession(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}

	log.Debug("session started",
		slog.String("session_id", started.SessionID.String()),
		slog.Int("total_cards", started.TotalCards))
	shared.RespondWithJSON(w, r, http.StatusCreated, started)
}

// Next handles GET /sessions/{id}/next requests. It returns the session's
// current card and exercise without revealing the expected answer.
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	_, sessionID, ok := h.requireSessionAccess(w, r)
	if !ok {
		return
	}

	presented, err := h.reviews.GetNext(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get the next card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, presentedToResponse(presented))
}

// Answer handles POST /sessions/{id}/answer requests. It grades the
// learner's response, applies the resulting rating to the card, and returns
// the verdict together with the card's next schedule.
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, sessionID, ok := h.requireSessionAccess(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	answer := review.SubmittedAnswer{
		CardID:     req.CardID,
		ExerciseID: req.ExerciseID,
		Response:   req.Response,
		TimeMs:     req.TimeMs,
	}
	if req.SelfRating != nil {
		rating := domain.Rating(*req.SelfRating)
		answer.SelfRating = &rating
	}

	result, err := h.reviews.SubmitAnswer(r.Context(), sessionID, answer)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	log.Debug("answer graded",
		slog.String("session_id", sessionID.String()),
		slog.String("card_id", req.CardID.String()),
		slog.String("grade", string(result.Assessment.Grade)),
		slog.Int("applied_rating", int(result.AppliedRating)))
	shared.RespondWithJSON(w, r, http.StatusOK, answerToResponse(result))
}

// Stats handles GET /sessions/{id}/stats requests.
func (h *SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	_, sessionID, ok := h.requireSessionAccess(w, r)
	if !ok {
		return
	}

	stats, err := h.reviews.SessionStats(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load session stats")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// End handles POST /sessions/{id}/end requests. Ending is idempotent from
// the client's point of view: the summary reflects whatever was reviewed.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, sessionID, ok := h.requireSessionAccess(w, r)
	if !ok {
		return
	}

	summary, err := h.reviews.EndSession(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to end session")
		return
	}

	log.Debug("session ended",
		slog.String("session_id", sessionID.String()),
		slog.Int("cards_reviewed", summary.CardsReviewed))
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// requireSessionAccess extracts the learner and session IDs and confirms the
// learner owns the session. On failure it writes the error response and
// returns ok=false.
func (h *SessionHandler) requireSessionAccess(
	w http.ResponseWriter,
	r *http.Request,
) (learnerID, sessionID uuid.UUID, ok bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, sessionID, ok = handleLearnerIDAndPathUUID(w, r, "id", log)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	if err := h.reviews.Authorize(r.Context(), sessionID, learnerID); err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return learnerID, sessionID, true
}

// presentedToResponse converts a presented card to its wire form. The
// exercise answer and the content item's term and definition stay out of
// the payload; for translation exercises they are the answer.
func presentedToResponse(pc *review.PresentedCard) NextCardResponse {
	return NextCardResponse{
		Card: CardSummary{
			ID:            pc.Card.ID,
			ContentItemID: pc.Card.ContentItemID,
			Reps:          pc.Card.Reps,
			Lapses:        pc.Card.Lapses,
			Due:           pc.Card.Due,
		},
		Exercise: ExercisePrompt{
			ID:      pc.Exercise.ID,
			Kind:    string(pc.Exercise.Kind),
			Prompt:  pc.Exercise.Prompt,
			Options: pc.Exercise.Options,
		},
		Topics:    pc.Content.Topics,
		CEFRLevel: pc.Content.CEFRLevel,
		Reasoning: pc.Reasoning,
		Remaining: pc.Remaining,
	}
}

// answerToResponse converts an answer result to its wire form.
func answerToResponse(result *review.AnswerResult) AnswerResponse {
	return AnswerResponse{
		Grade:           string(result.Assessment.Grade),
		SuggestedRating: int(result.Assessment.SuggestedRating),
		AppliedRating:   int(result.AppliedRating),
		Feedback:        result.Assessment.Feedback,
		CorrectAnswer:   result.Assessment.Expected,
		ExactMatch:      result.Assessment.ExactMatch,
		NextDue:         result.NewState.Due,
		IntervalDays:    result.IntervalDays,
		Remaining:       result.Remaining,
		Complete:        result.Complete,
	}
}
