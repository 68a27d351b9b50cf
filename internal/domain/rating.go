package domain

import "strconv"

// Rating is a learner's review outcome on the four-point FSRS scale.
type Rating int

// Possible rating values, from complete failure to effortless recall.
const (
	RatingAgain Rating = 1
	RatingHard  Rating = 2
	RatingGood  Rating = 3
	RatingEasy  Rating = 4
)

// IsValid reports whether the rating is on the 1-4 scale.
func (r Rating) IsValid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// IsSuccess reports whether the rating counts as a successful recall
// (anything but Again).
func (r Rating) IsSuccess() bool {
	return r >= RatingHard
}

// Clamped returns the rating forced into the valid 1-4 range. The scheduler
// never rejects out-of-range ratings; it clamps them.
func (r Rating) Clamped() Rating {
	if r < RatingAgain {
		return RatingAgain
	}
	if r > RatingEasy {
		return RatingEasy
	}
	return r
}

// String returns a human-readable name for logs and summaries.
func (r Rating) String() string {
	switch r {
	case RatingAgain:
		return "again"
	case RatingHard:
		return "hard"
	case RatingGood:
		return "good"
	case RatingEasy:
		return "easy"
	default:
		return "rating(" + strconv.Itoa(int(r)) + ")"
	}
}
