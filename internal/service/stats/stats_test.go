package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlenaghan/boliye/internal/store"
)

// day builds a UTC midnight instant for streak fixtures.
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStreakLength(t *testing.T) {
	now := time.Date(2026, 5, 20, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{
			name: "no review days",
			days: nil,
			want: 0,
		},
		{
			name: "single review today",
			days: []time.Time{day(2026, 5, 20)},
			want: 1,
		},
		{
			name: "yesterday keeps the streak alive",
			days: []time.Time{day(2026, 5, 19), day(2026, 5, 18), day(2026, 5, 17)},
			want: 3,
		},
		{
			name: "most recent day before yesterday breaks the streak",
			days: []time.Time{day(2026, 5, 17), day(2026, 5, 16)},
			want: 0,
		},
		{
			name: "gap stops the count",
			days: []time.Time{day(2026, 5, 20), day(2026, 5, 19), day(2026, 5, 16), day(2026, 5, 15)},
			want: 2,
		},
		{
			name: "unbroken run through today",
			days: []time.Time{
				day(2026, 5, 20), day(2026, 5, 19), day(2026, 5, 18),
				day(2026, 5, 17), day(2026, 5, 16),
			},
			want: 5,
		},
		{
			name: "time of day is ignored",
			days: []time.Time{
				time.Date(2026, 5, 20, 23, 59, 0, 0, time.UTC),
				time.Date(2026, 5, 19, 0, 1, 0, 0, time.UTC),
			},
			want: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StreakLength(tc.days, now))
		})
	}
}

// The fakes embed the store interfaces so only the methods the stats service
// touches need stubbing; anything else panics, which is exactly what a stray
// call deserves in these tests.

type fakeCardStore struct {
	store.CardStore
	counts store.CardCounts
	err    error
}

func (f *fakeCardStore) CountsForLearner(
	ctx context.Context,
	learnerID uuid.UUID,
	now time.Time,
) (store.CardCounts, error) {
	return f.counts, f.err
}

type fakeLogStore struct {
	store.ReviewLogStore
	total     int
	reviews   int
	successes int
	days      []time.Time

	countErr     error
	retentionErr error
	daysErr      error

	retentionSince time.Time
}

func (f *fakeLogStore) CountByLearner(ctx context.Context, learnerID uuid.UUID) (int, error) {
	return f.total, f.countErr
}

func (f *fakeLogStore) RetentionCounts(
	ctx context.Context,
	learnerID uuid.UUID,
	since time.Time,
) (int, int, error) {
	f.retentionSince = since
	return f.reviews, f.successes, f.retentionErr
}

func (f *fakeLogStore) ListReviewDays(
	ctx context.Context,
	learnerID uuid.UUID,
	limit int,
) ([]time.Time, error) {
	return f.days, f.daysErr
}

func newStatsService(cards *fakeCardStore, logs *fakeLogStore) *Service {
	svc := NewService(cards, logs, nil)
	svc.now = func() time.Time { return time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestLearnerStats(t *testing.T) {
	cards := &fakeCardStore{counts: store.CardCounts{Total: 40, Due: 7, New: 5, Mature: 12}}
	logs := &fakeLogStore{
		total:     310,
		reviews:   50,
		successes: 41,
		days:      []time.Time{day(2026, 5, 20), day(2026, 5, 19), day(2026, 5, 18)},
	}

	got, err := newStatsService(cards, logs).LearnerStats(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, CardCounts{Total: 40, Due: 7, New: 5, Mature: 12}, got.Cards)
	assert.Equal(t, 310, got.TotalReviews)
	assert.InDelta(t, 0.82, got.RetentionRate, 1e-9)
	assert.Equal(t, 30, got.RetentionWindowDays)
	assert.Equal(t, 3, got.StreakDays)

	// The retention window reaches exactly 30 days back from now.
	assert.Equal(t, time.Date(2026, 4, 20, 10, 0, 0, 0, time.UTC), logs.retentionSince)
}

func TestLearnerStatsNoReviews(t *testing.T) {
	cards := &fakeCardStore{counts: store.CardCounts{Total: 3, New: 3}}
	logs := &fakeLogStore{}

	got, err := newStatsService(cards, logs).LearnerStats(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Zero(t, got.TotalReviews)
	assert.Zero(t, got.RetentionRate, "retention with no reviews should read zero, not NaN")
	assert.Zero(t, got.StreakDays)
}

func TestLearnerStatsStoreErrors(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name  string
		cards *fakeCardStore
		logs  *fakeLogStore
	}{
		{
			name:  "card counts fail",
			cards: &fakeCardStore{err: boom},
			logs:  &fakeLogStore{},
		},
		{
			name:  "review count fails",
			cards: &fakeCardStore{},
			logs:  &fakeLogStore{countErr: boom},
		},
		{
			name:  "retention query fails",
			cards: &fakeCardStore{},
			logs:  &fakeLogStore{retentionErr: boom},
		},
		{
			name:  "review days query fails",
			cards: &fakeCardStore{},
			logs:  &fakeLogStore{daysErr: boom},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newStatsService(tc.cards, tc.logs).LearnerStats(context.Background(), uuid.New())
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestNewServicePanicsOnNilStores(t *testing.T) {
	assert.Panics(t, func() { NewService(nil, &fakeLogStore{}, nil) })
	assert.Panics(t, func() { NewService(&fakeCardStore{}, nil, nil) })
}
