// Package stats aggregates per-learner study statistics for the dashboard:
// card counts by state, recent retention, review streak, and lifetime totals.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/platform/logger"
	"github.com/jlenaghan/boliye/internal/store"
)

const (
	// retentionWindowDays is how far back the retention rate looks.
	retentionWindowDays = 30

	// streakDayLimit bounds the distinct review days fetched for the streak
	// computation. A streak cannot be longer than the days examined.
	streakDayLimit = 366
)

// CardCounts breaks the learner's cards down by scheduling state.
type CardCounts struct {
	Total  int `json:"total"`
	Due    int `json:"due"`
	New    int `json:"new"`
	Mature int `json:"mature"`
}

// LearnerStats is the dashboard payload for one learner.
type LearnerStats struct {
	Cards CardCounts `json:"cards"`

	// TotalReviews counts every review the learner has ever logged.
	TotalReviews int `json:"total_reviews"`

	// RetentionRate is the share of reviews rated Good or better inside the
	// retention window. Zero when the window holds no reviews.
	RetentionRate       float64 `json:"retention_rate"`
	RetentionWindowDays int     `json:"retention_window_days"`

	// StreakDays counts consecutive days with at least one review, ending
	// today or yesterday. Yesterday keeps the streak alive so it does not
	// read as broken before the learner has practiced today.
	StreakDays int `json:"streak_days"`
}

// Service computes learner statistics from the card and review log stores.
type Service struct {
	cards  store.CardStore
	logs   store.ReviewLogStore
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates the stats service. It panics on nil stores since that is
// always a wiring bug.
func NewService(cards store.CardStore, logs store.ReviewLogStore, log *slog.Logger) *Service {
	if cards == nil {
		panic("card store cannot be nil")
	}
	if logs == nil {
		panic("review log store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		cards:  cards,
		logs:   logs,
		logger: log.With(slog.String("component", "stats_service")),
		now:    domain.UTCNow,
	}
}

// LearnerStats assembles the dashboard numbers for the learner as of now.
func (s *Service) LearnerStats(ctx context.Context, learnerID uuid.UUID) (*LearnerStats, error) {
	now := s.now()

	counts, err := s.cards.CountsForLearner(ctx, learnerID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count cards: %w", err)
	}

	totalReviews, err := s.logs.CountByLearner(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	since := now.AddDate(0, 0, -retentionWindowDays)
	reviews, successes, err := s.logs.RetentionCounts(ctx, learnerID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to compute retention: %w", err)
	}

	days, err := s.logs.ListReviewDays(ctx, learnerID, streakDayLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list review days: %w", err)
	}

	var retention float64
	if reviews > 0 {
		retention = float64(successes) / float64(reviews)
	}

	stats := &LearnerStats{
		Cards: CardCounts{
			Total:  counts.Total,
			Due:    counts.Due,
			New:    counts.New,
			Mature: counts.Mature,
		},
		TotalReviews:        totalReviews,
		RetentionRate:       retention,
		RetentionWindowDays: retentionWindowDays,
		StreakDays:          StreakLength(days, now),
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("computed learner stats",
		slog.String("learner_id", learnerID.String()),
		slog.Int("total_cards", stats.Cards.Total),
		slog.Int("streak_days", stats.StreakDays))

	return stats, nil
}

// StreakLength counts consecutive review days walking backward from the most
// recent one. The days must be distinct calendar days sorted most recent
// first, as ListReviewDays returns them. A streak whose most recent day is
// before yesterday has been broken and counts as zero.
func StreakLength(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}

	today := truncateToDay(now)
	head := truncateToDay(days[0])
	if !head.Equal(today) && !head.Equal(today.AddDate(0, 0, -1)) {
		return 0
	}

	streak := 1
	prev := head
	for _, d := range days[1:] {
		d = truncateToDay(d)
		if !d.Equal(prev.AddDate(0, 0, -1)) {
			break
		}
		streak++
		prev = d
	}
	return streak
}

// truncateToDay drops the time-of-day component, interpreting the instant
// in UTC.
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
