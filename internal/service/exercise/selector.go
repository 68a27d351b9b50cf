package exercise

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/platform/logger"
)

// ErrNoExercises indicates that a card's content item has no presentable
// exercise. The session treats this as "skip the card", not as a failure.
var ErrNoExercises = errors.New("no presentable exercises for content item")

// ExerciseSource is the slice of the exercise store the selector reads.
type ExerciseSource interface {
	// ListByContentItem retrieves all exercises attached to a content item,
	// oldest first.
	ListByContentItem(ctx context.Context, contentItemID uuid.UUID) ([]*domain.Exercise, error)
}

// historySize is how many recent selections the selector remembers when
// judging whether a kind is fresh.
const historySize = 5

// Selector picks the exercise to present for each card in a session.
//
// One Selector serves exactly one review session; the session's own lock
// serializes access to it, so the Selector does no locking of its own.
type Selector struct {
	source ExerciseSource
	logger *slog.Logger
	rng    *rand.Rand

	// recent holds the kinds of the last historySize selections, oldest
	// first. Kinds in here rank as stale.
	recent []domain.ExerciseKind
}

// NewSelector creates a selector for a single review session.
func NewSelector(source ExerciseSource, log *slog.Logger) *Selector {
	if source == nil {
		panic("source cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Selector{
		source: source,
		logger: log.With(slog.String("component", "exercise_selector")),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		recent: make([]domain.ExerciseKind, 0, historySize),
	}
}

// Select picks the exercise to present for the card. The preferred kind
// comes from the scheduler's difficulty hint; the selector honors it when a
// presentable exercise of that kind exists and otherwise falls back through
// progressively staler candidates. Returns ErrNoExercises when the card's
// content item has no presentable exercise at all.
func (s *Selector) Select(
	ctx context.Context,
	card *domain.Card,
	preferred domain.ExerciseKind,
) (*domain.Exercise, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	exercises, err := s.source.ListByContentItem(ctx, card.ContentItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises for content item: %w", err)
	}

	presentable := make([]*domain.Exercise, 0, len(exercises))
	for _, ex := range exercises {
		if ex.Presentable() {
			presentable = append(presentable, ex)
		}
	}

	if len(presentable) == 0 {
		log.Debug("no presentable exercises for card",
			slog.String("card_id", card.ID.String()),
			slog.String("content_item_id", card.ContentItemID.String()))
		return nil, ErrNoExercises
	}

	chosen := s.rank(presentable, preferred)[0]
	s.remember(chosen.Kind)

	log.Debug("selected exercise",
		slog.String("card_id", card.ID.String()),
		slog.String("exercise_id", chosen.ID.String()),
		slog.String("kind", string(chosen.Kind)),
		slog.String("preferred", string(preferred)))

	return chosen, nil
}

// rank orders candidates into four tiers: preferred kind not recently
// shown, preferred kind recently shown, other kinds not recently shown,
// other kinds recently shown. Order within a tier is shuffled so repeated
// sessions do not replay the same exercise every time.
func (s *Selector) rank(
	candidates []*domain.Exercise,
	preferred domain.ExerciseKind,
) []*domain.Exercise {
	recent := make(map[domain.ExerciseKind]bool, len(s.recent))
	for _, kind := range s.recent {
		recent[kind] = true
	}

	var tiers [4][]*domain.Exercise
	for _, ex := range candidates {
		switch {
		case ex.Kind == preferred && !recent[ex.Kind]:
			tiers[0] = append(tiers[0], ex)
		case ex.Kind == preferred:
			tiers[1] = append(tiers[1], ex)
		case !recent[ex.Kind]:
			tiers[2] = append(tiers[2], ex)
		default:
			tiers[3] = append(tiers[3], ex)
		}
	}

	ranked := make([]*domain.Exercise, 0, len(candidates))
	for _, tier := range tiers {
		s.rng.Shuffle(len(tier), func(i, j int) {
			tier[i], tier[j] = tier[j], tier[i]
		})
		ranked = append(ranked, tier...)
	}

	return ranked
}

// remember records a shown kind, keeping only the last historySize.
func (s *Selector) remember(kind domain.ExerciseKind) {
	s.recent = append(s.recent, kind)
	if len(s.recent) > historySize {
		s.recent = append(s.recent[:0], s.recent[1:]...)
	}
}
