package domain

import "testing"

func TestRatingIsValid(t *testing.T) {
	testCases := []struct {
		rating Rating
		valid  bool
	}{
		{0, false},
		{RatingAgain, true},
		{RatingHard, true},
		{RatingGood, true},
		{RatingEasy, true},
		{5, false},
		{-1, false},
	}

	for _, tc := range testCases {
		if got := tc.rating.IsValid(); got != tc.valid {
			t.Errorf("Rating(%d).IsValid() = %v, want %v", tc.rating, got, tc.valid)
		}
	}
}

func TestRatingIsSuccess(t *testing.T) {
	if RatingAgain.IsSuccess() {
		t.Error("Expected Again to be a failure")
	}

	for _, r := range []Rating{RatingHard, RatingGood, RatingEasy} {
		if !r.IsSuccess() {
			t.Errorf("Expected %s to be a success", r)
		}
	}
}

func TestRatingClamped(t *testing.T) {
	testCases := []struct {
		in   Rating
		want Rating
	}{
		{-3, RatingAgain},
		{0, RatingAgain},
		{RatingAgain, RatingAgain},
		{RatingGood, RatingGood},
		{RatingEasy, RatingEasy},
		{9, RatingEasy},
	}

	for _, tc := range testCases {
		if got := tc.in.Clamped(); got != tc.want {
			t.Errorf("Rating(%d).Clamped() = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRatingString(t *testing.T) {
	testCases := []struct {
		rating Rating
		want   string
	}{
		{RatingAgain, "again"},
		{RatingHard, "hard"},
		{RatingGood, "good"},
		{RatingEasy, "easy"},
		{7, "rating(7)"},
	}

	for _, tc := range testCases {
		if got := tc.rating.String(); got != tc.want {
			t.Errorf("Rating(%d).String() = %q, want %q", tc.rating, got, tc.want)
		}
	}
}
