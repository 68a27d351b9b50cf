package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jlenaghan/boliye/internal/assessment"
	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/domain/fsrs"
	"github.com/jlenaghan/boliye/internal/platform/logger"
	"github.com/jlenaghan/boliye/internal/platform/metrics"
	"github.com/jlenaghan/boliye/internal/service/exercise"
	"github.com/jlenaghan/boliye/internal/service/scheduler"
	"github.com/jlenaghan/boliye/internal/store"
)

// StartedSession describes a session immediately after start.
type StartedSession struct {
	SessionID   uuid.UUID `json:"session_id"`
	LearnerID   uuid.UUID `json:"learner_id"`
	DueCards    int       `json:"due_cards"`
	NewCards    int       `json:"new_cards"`
	TotalCards  int       `json:"total_cards"`
	FocusTopics []string  `json:"focus_topics,omitempty"`
	Reasoning   string    `json:"reasoning"`
}

// SubmittedAnswer is one answer to the currently presented card.
type SubmittedAnswer struct {
	// CardID must match the presented card. ExerciseID, when set, must
	// match the presented exercise; uuid.Nil skips that check.
	CardID     uuid.UUID
	ExerciseID uuid.UUID

	// Response is the learner's answer text (or selected MCQ option).
	Response string

	// TimeMs is how long the learner took to answer, in milliseconds.
	TimeMs int

	// SelfRating optionally overrides the suggested rating. Out-of-range
	// values are clamped to the 1-4 scale.
	SelfRating *domain.Rating
}

// AnswerResult reports the outcome of one graded answer.
type AnswerResult struct {
	Assessment    assessment.Assessment
	AppliedRating domain.Rating
	NewState      domain.CardState
	IntervalDays  float64
	Remaining     int
	Complete      bool
}

// Deps bundles the collaborators the review service needs. All fields
// except Logger are required.
type Deps struct {
	Scheduler *scheduler.Scheduler
	Memory    fsrs.Service
	Assessor  assessment.Assessor
	Cards     store.CardStore
	Content   store.ContentItemStore
	Exercises store.ExerciseStore
	Logs      store.ReviewLogStore
	Learners  store.LearnerStore
	DB        *sql.DB
	Registry  *Registry
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Service runs review sessions end to end: building the queue, presenting
// cards, grading answers, and persisting outcomes. All per-session state
// lives in the registry's sessions; the service itself is stateless and
// safe for concurrent use.
type Service struct {
	scheduler *scheduler.Scheduler
	memory    fsrs.Service
	assessor  assessment.Assessor
	cards     store.CardStore
	content   store.ContentItemStore
	exercises store.ExerciseStore
	logs      store.ReviewLogStore
	learners  store.LearnerStore
	db        *sql.DB
	registry  *Registry
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates the review service. It panics on missing collaborators
// since that is always a wiring bug, never a runtime condition.
func NewService(deps Deps) *Service {
	if deps.Scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if deps.Memory == nil {
		panic("memory model cannot be nil")
	}
	if deps.Assessor == nil {
		panic("assessor cannot be nil")
	}
	if deps.Cards == nil {
		panic("card store cannot be nil")
	}
	if deps.Content == nil {
		panic("content item store cannot be nil")
	}
	if deps.Exercises == nil {
		panic("exercise store cannot be nil")
	}
	if deps.Logs == nil {
		panic("review log store cannot be nil")
	}
	if deps.Learners == nil {
		panic("learner store cannot be nil")
	}
	if deps.DB == nil {
		panic("db cannot be nil")
	}
	if deps.Registry == nil {
		panic("registry cannot be nil")
	}
	if deps.Metrics == nil {
		panic("metrics cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Service{
		scheduler: deps.Scheduler,
		memory:    deps.Memory,
		assessor:  deps.Assessor,
		cards:     deps.Cards,
		content:   deps.Content,
		exercises: deps.Exercises,
		logs:      deps.Logs,
		learners:  deps.Learners,
		db:        deps.DB,
		registry:  deps.Registry,
		metrics:   deps.Metrics,
		logger:    deps.Logger.With(slog.String("component", "review_service")),
		now:       domain.UTCNow,
	}
}

// StartSession builds a queue for the learner, registers a session around
// it, and reports what the session holds. Returns ErrEmptyQueue when the
// learner has nothing to review and no new cards to start, and
// store.ErrLearnerNotFound for an unknown learner.
func (s *Service) StartSession(ctx context.Context, learnerID uuid.UUID) (*StartedSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	learner, err := s.learners.GetByID(ctx, learnerID)
	if err != nil {
		if errors.Is(err, store.ErrLearnerNotFound) {
			return nil, err
		}
		return nil, NewStartSessionError("failed to load learner", err)
	}

	totalReviews, err := s.logs.CountByLearner(ctx, learnerID)
	if err != nil {
		return nil, NewStartSessionError("failed to count past reviews", err)
	}

	lctx := scheduler.NewLearnerContext(learnerID)
	lctx.LearnerName = learner.Name
	lctx.CEFRLevel = learner.CEFRLevel
	lctx.TotalReviews = totalReviews

	decision, err := s.scheduler.BuildQueue(ctx, learnerID, lctx, s.now())
	if err != nil {
		return nil, NewStartSessionError("failed to build review queue", err)
	}
	if decision.Queue.Total == 0 {
		return nil, ErrEmptyQueue
	}

	sess := newSession(learnerID, decision, lctx, exercise.NewSelector(s.exercises, s.logger), s.now())
	s.registry.Put(sess)

	log.Info("session started",
		slog.String("session_id", sess.ID().String()),
		slog.String("learner_id", learnerID.String()),
		slog.Int("due_cards", len(decision.Queue.Due)),
		slog.Int("new_cards", len(decision.Queue.New)),
		slog.Int("total", decision.Queue.Total))

	return &StartedSession{
		SessionID:   sess.ID(),
		LearnerID:   learnerID,
		DueCards:    len(decision.Queue.Due),
		NewCards:    len(decision.Queue.New),
		TotalCards:  decision.Queue.Total,
		FocusTopics: decision.FocusTopics,
		Reasoning:   decision.Reasoning,
	}, nil
}

// Authorize confirms the session exists and belongs to the learner. Returns
// ErrSessionNotFound for unknown or expired sessions and ErrSessionNotOwned
// when the session is owned by someone else.
func (s *Service) Authorize(ctx context.Context, sessionID, learnerID uuid.UUID) error {
	sess, release, err := s.registry.Acquire(sessionID)
	if err != nil {
		return err
	}
	defer release()

	if sess.LearnerID() != learnerID {
		return ErrSessionNotOwned
	}
	return nil
}

// GetNext returns the card to present: the one already presented if the
// learner has not answered it yet, otherwise the next card that has a
// presentable exercise. Cards without one are skipped. Returns
// ErrSessionComplete once the queue is exhausted.
func (s *Service) GetNext(ctx context.Context, sessionID uuid.UUID) (*PresentedCard, error) {
	sess, release, err := s.registry.Acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.ensurePresented(ctx, sess); err != nil {
		return nil, err
	}

	// Hand out a copy: the caller reads it after the session lock is
	// released.
	pc := *sess.presented
	pc.Remaining = sess.Remaining()
	return &pc, nil
}

// SubmitAnswer grades the response for the currently presented card,
// applies the memory model, persists the card update and review log in one
// transaction, and advances the session. If no card is presented yet, the
// card at the cursor is presented first, so a client may answer without an
// intervening GetNext.
//
// Session state mutates only after the transaction commits; on any failure
// the presented card, counters, and cursor are untouched.
func (s *Service) SubmitAnswer(
	ctx context.Context,
	sessionID uuid.UUID,
	answer SubmittedAnswer,
) (*AnswerResult, error) {
	if answer.TimeMs < 0 {
		return nil, ErrInvalidResponseTime
	}

	sess, release, err := s.registry.Acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.ensurePresented(ctx, sess); err != nil {
		return nil, err
	}
	presented := sess.presented

	if answer.CardID != presented.Card.ID {
		return nil, ErrCardMismatch
	}
	if answer.ExerciseID != uuid.Nil && answer.ExerciseID != presented.Exercise.ID {
		return nil, ErrExerciseMismatch
	}

	verdict, err := s.assessor.Assess(ctx, answer.Response, presented.Exercise)
	if err != nil {
		return nil, NewSubmitAnswerError("failed to assess response", err)
	}

	applied := verdict.SuggestedRating
	if answer.SelfRating != nil {
		applied = answer.SelfRating.Clamped()
	}

	now := s.now()
	before := presented.Card.CardState
	result, err := s.memory.Review(before, applied, now)
	if err != nil {
		return nil, NewSubmitAnswerError("failed to compute next card state", err)
	}

	updated := *presented.Card
	updated.ApplyState(result.NewState, now)

	logEntry, err := domain.NewReviewLog(
		presented.Card, presented.Exercise, applied, answer.TimeMs, before, result.NewState, now)
	if err != nil {
		return nil, NewSubmitAnswerError("failed to build review log", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.cards.WithTx(tx).Update(ctx, &updated); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}
		if err := s.logs.WithTx(tx).Append(ctx, logEntry); err != nil {
			return fmt.Errorf("failed to append review log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, NewSubmitAnswerError("failed to persist review", err)
	}

	// Committed; fold the outcome into session state. The card object the
	// learner was shown stays frozen; the session's queue slot takes the
	// updated copy.
	sess.cards[sess.cursor] = &updated
	sess.recordAnswer(scheduler.ReviewEvent{
		CardID:        presented.Card.ID,
		ContentItemID: presented.Card.ContentItemID,
		ExerciseID:    presented.Exercise.ID,
		Term:          presented.Content.Term,
		Definition:    presented.Content.Definition,
		Kind:          presented.Exercise.Kind,
		Rating:        applied,
		Grade:         verdict.Grade,
		Feedback:      verdict.Feedback,
		TimeMs:        answer.TimeMs,
		Timestamp:     now,
	}, before.Reps == 0)

	s.metrics.ObserveReview(applied.String(), answer.TimeMs)

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Info("answer recorded",
		slog.String("session_id", sess.id.String()),
		slog.String("card_id", presented.Card.ID.String()),
		slog.String("grade", string(verdict.Grade)),
		slog.String("rating", applied.String()),
		slog.Float64("interval_days", result.IntervalDays))

	return &AnswerResult{
		Assessment:    verdict,
		AppliedRating: applied,
		NewState:      result.NewState,
		IntervalDays:  result.IntervalDays,
		Remaining:     sess.Remaining(),
		Complete:      sess.IsComplete(),
	}, nil
}

// SessionStats returns the running counters for a session.
func (s *Service) SessionStats(ctx context.Context, sessionID uuid.UUID) (SessionStats, error) {
	sess, release, err := s.registry.Acquire(sessionID)
	if err != nil {
		return SessionStats{}, err
	}
	defer release()

	return sess.Stats(), nil
}

// EndSession removes the session and returns its summary. The session is
// gone afterward; a second call reports not found. Sessions may be ended
// at any point, complete or not.
func (s *Service) EndSession(ctx context.Context, sessionID uuid.UUID) (*SessionSummary, error) {
	sess, release, err := s.registry.Acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	s.registry.Remove(sessionID)
	summary := sess.Summary(s.now())

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Info("session ended",
		slog.String("session_id", sessionID.String()),
		slog.String("learner_id", sess.learnerID.String()),
		slog.Int("cards_reviewed", summary.CardsReviewed),
		slog.Float64("accuracy", summary.Accuracy))

	return summary, nil
}

// ensurePresented fills sess.presented from the cursor if it is empty,
// advancing past cards that cannot be presented (no presentable exercise,
// or content deleted out from under the card). Returns ErrSessionComplete
// once the cursor passes the end. The caller must hold the session's lock.
func (s *Service) ensurePresented(ctx context.Context, sess *Session) error {
	if sess.presented != nil {
		return nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	for !sess.IsComplete() {
		card := sess.cards[sess.cursor]

		kind, reasoning := scheduler.DifficultyHint(card, sess.lctx)
		ex, err := sess.selector.Select(ctx, card, kind)
		if errors.Is(err, exercise.ErrNoExercises) {
			log.Warn("skipping card with no presentable exercise",
				slog.String("session_id", sess.id.String()),
				slog.String("card_id", card.ID.String()))
			sess.cursor++
			continue
		}
		if err != nil {
			return NewGetNextError("failed to select an exercise", err)
		}

		item, err := s.content.GetByID(ctx, card.ContentItemID)
		if errors.Is(err, store.ErrContentItemNotFound) {
			log.Warn("skipping card with missing content item",
				slog.String("session_id", sess.id.String()),
				slog.String("card_id", card.ID.String()))
			sess.cursor++
			continue
		}
		if err != nil {
			return NewGetNextError("failed to load content item", err)
		}

		sess.presented = &PresentedCard{
			Card:      card,
			Exercise:  ex,
			Content:   item,
			Reasoning: reasoning,
			Remaining: sess.Remaining(),
		}

		log.Debug("presenting card",
			slog.String("session_id", sess.id.String()),
			slog.String("card_id", card.ID.String()),
			slog.String("kind", string(ex.Kind)),
			slog.String("reasoning", reasoning))

		return nil
	}

	return ErrSessionComplete
}
