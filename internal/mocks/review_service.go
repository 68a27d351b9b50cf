package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/jlenaghan/boliye/internal/service/review"
)

// MockReviewService provides a function-field mock of the review session
// service surface the API handlers consume.
type MockReviewService struct {
	StartSessionFn func(ctx context.Context, learnerID uuid.UUID) (*review.StartedSession, error)
	AuthorizeFn    func(ctx context.Context, sessionID, learnerID uuid.UUID) error
	GetNextFn      func(ctx context.Context, sessionID uuid.UUID) (*review.PresentedCard, error)
	SubmitAnswerFn func(ctx context.Context, sessionID uuid.UUID, answer review.SubmittedAnswer) (*review.AnswerResult, error)
	SessionStatsFn func(ctx context.Context, sessionID uuid.UUID) (review.SessionStats, error)
	EndSessionFn   func(ctx context.Context, sessionID uuid.UUID) (*review.SessionSummary, error)

	// Default values used when functions aren't explicitly defined
	Started   *review.StartedSession
	Presented *review.PresentedCard
	Result    *review.AnswerResult
	Stats     review.SessionStats
	Summary   *review.SessionSummary
	Err       error
}

// StartSession implements the review service surface
func (m *MockReviewService) StartSession(
	ctx context.Context,
	learnerID uuid.UUID,
) (*review.StartedSession, error) {
	if m.StartSessionFn != nil {
		return m.StartSessionFn(ctx, learnerID)
	}
	return m.Started, m.Err
}

// Authorize implements the review service surface
func (m *MockReviewService) Authorize(ctx context.Context, sessionID, learnerID uuid.UUID) error {
	if m.AuthorizeFn != nil {
		return m.AuthorizeFn(ctx, sessionID, learnerID)
	}
	return m.Err
}

// GetNext implements the review service surface
func (m *MockReviewService) GetNext(
	ctx context.Context,
	sessionID uuid.UUID,
) (*review.PresentedCard, error) {
	if m.GetNextFn != nil {
		return m.GetNextFn(ctx, sessionID)
	}
	return m.Presented, m.Err
}

// SubmitAnswer implements the review service surface
func (m *MockReviewService) SubmitAnswer(
	ctx context.Context,
	sessionID uuid.UUID,
	answer review.SubmittedAnswer,
) (*review.AnswerResult, error) {
	if m.SubmitAnswerFn != nil {
		return m.SubmitAnswerFn(ctx, sessionID, answer)
	}
	return m.Result, m.Err
}

// SessionStats implements the review service surface
func (m *MockReviewService) SessionStats(
	ctx context.Context,
	sessionID uuid.UUID,
) (review.SessionStats, error) {
	if m.SessionStatsFn != nil {
		return m.SessionStatsFn(ctx, sessionID)
	}
	return m.Stats, m.Err
}

// EndSession implements the review service surface
func (m *MockReviewService) EndSession(
	ctx context.Context,
	sessionID uuid.UUID,
) (*review.SessionSummary, error) {
	if m.EndSessionFn != nil {
		return m.EndSessionFn(ctx, sessionID)
	}
	return m.Summary, m.Err
}
