package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/jlenaghan/boliye/internal/assessment"
	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/service/exercise"
	"github.com/jlenaghan/boliye/internal/service/scheduler"
)

// PresentedCard is one step of a session as shown to the learner: the card
// at the cursor, the exercise chosen for it, and the content item both
// belong to. Remaining counts the cards left including this one.
type PresentedCard struct {
	Card      *domain.Card
	Exercise  *domain.Exercise
	Content   *domain.ContentItem
	Reasoning string // why this exercise kind was chosen
	Remaining int
}

// SessionStats carries the running counters for one session. Close and
// partial answers both land outside Correct; partial counts as incorrect.
type SessionStats struct {
	CardsReviewed int     `json:"cards_reviewed"`
	Correct       int     `json:"correct"`
	Close         int     `json:"close"`
	Incorrect     int     `json:"incorrect"`
	NewCardsSeen  int     `json:"new_cards_seen"`
	TotalTimeMs   int     `json:"total_time_ms"`
	AverageTimeMs float64 `json:"average_time_ms"`
}

// SessionSummary is the end-of-session report.
type SessionSummary struct {
	SessionStats
	Accuracy           float64  `json:"accuracy"`
	FocusTopics        []string `json:"focus_topics,omitempty"`
	StrugglingTerms    []string `json:"struggling_terms,omitempty"`
	SchedulerReasoning string   `json:"scheduler_reasoning"`
	DurationSeconds    float64  `json:"duration_seconds"`
}

// Session is one learner's live run through a review queue. The queue is
// snapshotted at session start; the cursor only moves forward. Every card
// appears at most once, so a card answered in this session is never
// re-presented by it.
//
// A Session is not safe for concurrent use on its own. The registry's
// per-session lock serializes access; everything here assumes that lock is
// held.
type Session struct {
	id        uuid.UUID
	learnerID uuid.UUID
	cards     []*domain.Card
	cursor    int
	presented *PresentedCard
	lctx      *scheduler.LearnerContext
	decision  *scheduler.Decision
	selector  *exercise.Selector
	stats     SessionStats
	createdAt time.Time
}

// newSession snapshots a scheduler decision into a runnable session.
func newSession(
	learnerID uuid.UUID,
	decision *scheduler.Decision,
	lctx *scheduler.LearnerContext,
	selector *exercise.Selector,
	createdAt time.Time,
) *Session {
	return &Session{
		id:        uuid.New(),
		learnerID: learnerID,
		cards:     decision.Queue.Interleaved(),
		lctx:      lctx,
		decision:  decision,
		selector:  selector,
		createdAt: createdAt,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// LearnerID returns the learner who owns the session.
func (s *Session) LearnerID() uuid.UUID { return s.learnerID }

// CreatedAt returns when the session started.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Decision returns the scheduler decision the session was built from.
func (s *Session) Decision() *scheduler.Decision { return s.decision }

// Remaining returns how many cards are left, including the one currently
// presented.
func (s *Session) Remaining() int {
	if s.cursor >= len(s.cards) {
		return 0
	}
	return len(s.cards) - s.cursor
}

// IsComplete reports whether the cursor has passed the last card.
func (s *Session) IsComplete() bool {
	return s.cursor >= len(s.cards)
}

// Stats returns a copy of the running counters.
func (s *Session) Stats() SessionStats {
	return s.stats
}

// Summary builds the end-of-session report as of now.
func (s *Session) Summary(now time.Time) *SessionSummary {
	return &SessionSummary{
		SessionStats:       s.stats,
		Accuracy:           s.lctx.Accuracy(),
		FocusTopics:        s.decision.FocusTopics,
		StrugglingTerms:    s.lctx.StrugglingTerms,
		SchedulerReasoning: s.decision.Reasoning,
		DurationSeconds:    now.Sub(s.createdAt).Seconds(),
	}
}

// recordAnswer folds one graded answer into the session: counters, learner
// context, cursor. Called only after the review has been persisted.
func (s *Session) recordAnswer(event scheduler.ReviewEvent, wasNew bool) {
	s.stats.CardsReviewed++
	s.stats.TotalTimeMs += event.TimeMs
	s.stats.AverageTimeMs = float64(s.stats.TotalTimeMs) / float64(s.stats.CardsReviewed)
	if wasNew {
		s.stats.NewCardsSeen++
	}

	switch event.Grade {
	case assessment.GradeCorrect:
		s.stats.Correct++
	case assessment.GradeClose:
		s.stats.Close++
	default:
		s.stats.Incorrect++
	}

	s.lctx.RecordReview(event)
	s.cursor++
	s.presented = nil
}
