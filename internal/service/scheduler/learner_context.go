package scheduler

import (
	"time"

	"github.com/google/uuid"
	"github.com/jlenaghan/boliye/internal/assessment"
	"github.com/jlenaghan/boliye/internal/domain"
)

// ReviewEvent is one answered card within a session, as the adaptive policy
// sees it: what was asked, how it was graded, and how long it took.
type ReviewEvent struct {
	CardID        uuid.UUID
	ContentItemID uuid.UUID
	ExerciseID    uuid.UUID
	Term          string
	Definition    string
	Kind          domain.ExerciseKind
	Rating        domain.Rating
	Grade         assessment.Grade
	Feedback      string
	TimeMs        int
	Timestamp     time.Time
}

// LearnerContext aggregates one session's performance signals: the running
// review log, accuracy tallies, and the terms and cards the learner is
// struggling with. The adaptive policy and the difficulty hint both read it.
//
// A context belongs to exactly one session and dies with it. The session's
// lock serializes all access, so the context does no locking of its own.
type LearnerContext struct {
	LearnerID uuid.UUID

	// LearnerName and CEFRLevel describe who is reviewing, for logs and
	// summaries. TotalReviews is the learner's lifetime review count at
	// session start.
	LearnerName  string
	CEFRLevel    string
	TotalReviews int

	// Reviews is the append-only event log for this session.
	Reviews   []ReviewEvent
	Correct   int
	Incorrect int
	StartedAt time.Time

	// StrugglingTerms collects the distinct terms failed this session, in
	// first-failure order. RecentlyFailed holds the card IDs rated Again,
	// one entry per failure.
	StrugglingTerms []string
	RecentlyFailed  []uuid.UUID
}

// NewLearnerContext creates an empty context for a session starting now.
func NewLearnerContext(learnerID uuid.UUID) *LearnerContext {
	return &LearnerContext{
		LearnerID: learnerID,
		StartedAt: domain.UTCNow(),
	}
}

// Accuracy returns the session accuracy as a fraction. A session with no
// reviews yet counts as fully accurate so the policy starts optimistic.
func (c *LearnerContext) Accuracy() float64 {
	total := c.Correct + c.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(c.Correct) / float64(total)
}

// Count returns the number of reviews recorded this session.
func (c *LearnerContext) Count() int {
	return len(c.Reviews)
}

// RecordReview appends an event and updates the running tallies. Only a
// "correct" grade counts toward accuracy; close and partial answers count
// as misses. A rating of Again additionally marks the card as recently
// failed and its term as struggling.
func (c *LearnerContext) RecordReview(event ReviewEvent) {
	c.Reviews = append(c.Reviews, event)

	if event.Grade == assessment.GradeCorrect {
		c.Correct++
		return
	}

	c.Incorrect++
	if event.Rating != domain.RatingAgain {
		return
	}

	c.RecentlyFailed = append(c.RecentlyFailed, event.CardID)
	for _, term := range c.StrugglingTerms {
		if term == event.Term {
			return
		}
	}
	c.StrugglingTerms = append(c.StrugglingTerms, event.Term)
}

// FailureStreak counts consecutive non-correct grades backward from the
// latest event. Close and partial answers extend the streak.
func (c *LearnerContext) FailureStreak() int {
	streak := 0
	for i := len(c.Reviews) - 1; i >= 0; i-- {
		if c.Reviews[i].Grade == assessment.GradeCorrect {
			break
		}
		streak++
	}
	return streak
}

// FailedContentItems returns the content item IDs behind the cards rated
// Again this session, deduplicated, in first-failure order. Focus-topic
// mining starts from these.
func (c *LearnerContext) FailedContentItems() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, event := range c.Reviews {
		if event.Rating != domain.RatingAgain || seen[event.ContentItemID] {
			continue
		}
		seen[event.ContentItemID] = true
		ids = append(ids, event.ContentItemID)
	}
	return ids
}
