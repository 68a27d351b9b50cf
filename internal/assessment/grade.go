package assessment

import (
	"github.com/jlenaghan/boliye/internal/domain"
)

// Grade classifies how correct a learner's response is.
type Grade string

// Possible grades, ordered best to worst.
const (
	// GradeCorrect means an exact or near-exact match.
	GradeCorrect Grade = "correct"

	// GradeClose means a minor error such as a typo or small spelling variation.
	GradeClose Grade = "close"

	// GradePartial means the response shows understanding but has significant errors.
	GradePartial Grade = "partial"

	// GradeIncorrect means the response is fundamentally wrong.
	GradeIncorrect Grade = "incorrect"
)

// IsValid reports whether the grade is one of the known values.
func (g Grade) IsValid() bool {
	switch g {
	case GradeCorrect, GradeClose, GradePartial, GradeIncorrect:
		return true
	}
	return false
}

// Rating maps the grade to the review rating it suggests. A learner
// self-rating, when provided, takes precedence over this suggestion.
func (g Grade) Rating() domain.Rating {
	switch g {
	case GradeCorrect:
		return domain.RatingEasy
	case GradeClose:
		return domain.RatingGood
	case GradePartial:
		return domain.RatingHard
	default:
		return domain.RatingAgain
	}
}

// ParseGrade converts a verdict string to a Grade. Unknown values map to
// GradeIncorrect rather than failing, so a malformed verdict degrades to the
// strictest grade.
func ParseGrade(s string) Grade {
	g := Grade(s)
	if !g.IsValid() {
		return GradeIncorrect
	}
	return g
}
