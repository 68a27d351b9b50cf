package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/platform/logger"
)

// DefaultNewCardRatio opens one new-card slot per four due reviews.
const DefaultNewCardRatio = 0.25

// maxFocusTopics caps how many struggling topics a decision surfaces.
const maxFocusTopics = 3

// Config holds the scheduler's session limits.
type Config struct {
	// MaxNew is the base new-card limit per session, before the adaptive
	// policy applies its own adjustments.
	MaxNew int

	// MaxReviews caps the due cards fetched into one session.
	MaxReviews int

	// NewCardRatio is the fraction of the due count that opens new-card
	// slots. Zero or negative selects DefaultNewCardRatio.
	NewCardRatio float64
}

// CardSource is the slice of the card store the scheduler reads.
type CardSource interface {
	// ListDue retrieves started cards whose due time is at or before now,
	// most overdue first, truncated to limit.
	ListDue(ctx context.Context, learnerID uuid.UUID, now time.Time, limit int) ([]*domain.Card, error)

	// ListNew retrieves never-reviewed cards in creation order, truncated
	// to limit.
	ListNew(ctx context.Context, learnerID uuid.UUID, limit int) ([]*domain.Card, error)
}

// ContentSource resolves content items when the scheduler mines failed
// cards for focus topics.
type ContentSource interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.ContentItem, error)
}

// Decision is the scheduler's verdict for one session: the queue to work
// through, the limits that shaped it, the topics worth extra attention, and
// a human-readable explanation of the limits.
type Decision struct {
	Queue        *ReviewQueue
	NewCardLimit int
	ReviewLimit  int
	FocusTopics  []string
	Reasoning    string
}

// Scheduler builds adaptive review queues. It is stateless between calls
// and safe for concurrent use; all per-session state lives in the
// LearnerContext the caller passes in.
type Scheduler struct {
	cards   CardSource
	content ContentSource
	cfg     Config
	logger  *slog.Logger
}

// NewScheduler creates a scheduler over the given card and content sources.
func NewScheduler(cards CardSource, content ContentSource, cfg Config, log *slog.Logger) *Scheduler {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if content == nil {
		panic("content cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.NewCardRatio <= 0 {
		cfg.NewCardRatio = DefaultNewCardRatio
	}

	return &Scheduler{
		cards:   cards,
		content: content,
		cfg:     cfg,
		logger:  log.With(slog.String("component", "scheduler")),
	}
}

// BuildQueue assembles the review queue for a session starting now. The
// adaptive policy sets the limits from the learner context, due cards are
// fetched most overdue first, and new cards fill the slots the due load
// opens up. The decision carries the reasoning behind the limits and the
// learner's current focus topics.
func (s *Scheduler) BuildQueue(
	ctx context.Context,
	learnerID uuid.UUID,
	lctx *LearnerContext,
	now time.Time,
) (*Decision, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	newLimit, reviewLimit, reasoning := s.sessionLimits(lctx)

	due, err := s.cards.ListDue(ctx, learnerID, now, reviewLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due cards: %w", err)
	}

	var newCards []*domain.Card
	if slots := newSlots(newLimit, len(due), s.cfg.NewCardRatio); slots > 0 {
		newCards, err = s.cards.ListNew(ctx, learnerID, slots)
		if err != nil {
			return nil, fmt.Errorf("failed to list new cards: %w", err)
		}
	}

	focusTopics, err := s.focusTopics(ctx, lctx)
	if err != nil {
		return nil, fmt.Errorf("failed to identify focus topics: %w", err)
	}

	queue := NewReviewQueue(due, newCards)

	log.Info("built review queue",
		slog.String("learner_id", learnerID.String()),
		slog.Int("due_cards", len(queue.Due)),
		slog.Int("new_cards", len(queue.New)),
		slog.Int("total", queue.Total),
		slog.String("reasoning", reasoning))

	return &Decision{
		Queue:        queue,
		NewCardLimit: newLimit,
		ReviewLimit:  reviewLimit,
		FocusTopics:  focusTopics,
		Reasoning:    reasoning,
	}, nil
}

// focusTopics mines the session's failed cards for the topics that keep
// showing up. Returns at most maxFocusTopics, most frequent first.
func (s *Scheduler) focusTopics(ctx context.Context, lctx *LearnerContext) ([]string, error) {
	failed := lctx.FailedContentItems()
	if len(failed) == 0 {
		return nil, nil
	}

	items, err := s.content.GetByIDs(ctx, failed)
	if err != nil {
		return nil, fmt.Errorf("failed to load content for failed cards: %w", err)
	}

	counts := make(map[string]int)
	var topics []string
	for _, item := range items {
		for _, topic := range item.Topics {
			if counts[topic] == 0 {
				topics = append(topics, topic)
			}
			counts[topic]++
		}
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return counts[topics[i]] > counts[topics[j]]
	})
	if len(topics) > maxFocusTopics {
		topics = topics[:maxFocusTopics]
	}
	return topics, nil
}
