package scheduler

import (
	"fmt"

	"github.com/jlenaghan/boliye/internal/domain"
)

// sessionLimits applies the adaptive policy to one session's performance
// signals and returns the new-card limit, the review limit, and a reasoning
// string explaining the decision.
//
// The branches run first-match top to bottom; the failure-streak override
// runs last and unconditionally. Three misses in a row pause new cards no
// matter how good the aggregate accuracy looks: recency beats aggregate.
func (s *Scheduler) sessionLimits(lctx *LearnerContext) (newLimit, reviewLimit int, reasoning string) {
	baseNew := s.cfg.MaxNew
	baseReview := s.cfg.MaxReviews
	accuracy := lctx.Accuracy()
	count := lctx.Count()

	switch {
	case count >= 5 && accuracy < 0.6:
		newLimit = max(2, baseNew/3)
		reasoning = fmt.Sprintf(
			"Accuracy is %.0f%% — reducing new cards to %d so you can focus on reviewing.",
			accuracy*100, newLimit)
	case count >= 5 && accuracy < 0.75:
		newLimit = max(3, baseNew/2)
		reasoning = fmt.Sprintf(
			"Accuracy is %.0f%% — slightly reducing new cards to %d.",
			accuracy*100, newLimit)
	case accuracy >= 0.9 && count >= 10:
		newLimit = min(baseNew+5, 20)
		reasoning = fmt.Sprintf(
			"Great accuracy (%.0f%%)! Increasing new cards to %d.",
			accuracy*100, newLimit)
	default:
		newLimit = baseNew
		reasoning = fmt.Sprintf("Standard limits: %d new, %d reviews.", baseNew, baseReview)
	}

	if streak := lctx.FailureStreak(); streak >= 3 {
		newLimit = 0
		reasoning = fmt.Sprintf(
			"You've missed the last %d cards — pausing new cards to focus on review.",
			streak)
	}

	return newLimit, baseReview, reasoning
}

// newSlots bounds how many new cards enter a session: the adaptive limit
// caps the slots the due load opens up (one new card per four reviews by
// default, never less than one slot unless new cards are paused entirely).
func newSlots(newLimit, dueCount int, ratio float64) int {
	slots := int(float64(dueCount) * ratio)
	if slots < 1 {
		slots = 1
	}
	if slots > newLimit {
		slots = newLimit
	}
	return slots
}

// DifficultyHint picks the exercise kind to aim for when presenting a card,
// weighing the card's maturity against how the session is going. Struggling
// learners and struggling cards drop back to recognition; well-established
// cards climb toward full production. The returned reasoning explains the
// choice for logs.
func DifficultyHint(card *domain.Card, lctx *LearnerContext) (domain.ExerciseKind, string) {
	if card.Reps == 0 {
		return domain.ExerciseKindMCQ, "New card — starting with recognition (MCQ)."
	}

	if card.Lapses >= 3 {
		return domain.ExerciseKindMCQ, fmt.Sprintf(
			"Card has %d lapses — using MCQ to rebuild confidence.", card.Lapses)
	}

	if lctx.Count() >= 5 && lctx.Accuracy() < 0.6 {
		return domain.ExerciseKindMCQ, fmt.Sprintf(
			"Session accuracy is %.0f%% — using easier MCQ.", lctx.Accuracy()*100)
	}

	if card.Reps >= 8 && card.Stability > 30 {
		return domain.ExerciseKindTranslation, "Well-known card — testing with translation."
	}

	if card.Reps >= 5 && card.Stability > 10 {
		return domain.ExerciseKindCloze, "Mature card — testing active recall with cloze."
	}

	if card.Reps >= 2 {
		return domain.ExerciseKindCloze, "Card has some reviews — moving to cloze."
	}

	return domain.ExerciseKindMCQ, "Default: starting with MCQ."
}
