package fsrs

import (
	"math"
	"time"

	"github.com/jlenaghan/boliye/internal/domain"
)

// daysToDuration converts a fractional day count to a time.Duration.
func daysToDuration(days float64) time.Duration {
	return time.Duration(days * float64(24*time.Hour))
}

// clampDifficulty bounds a difficulty value to [MinDifficulty, MaxDifficulty].
func clampDifficulty(d float64) float64 {
	return math.Max(MinDifficulty, math.Min(MaxDifficulty, d))
}

// initialDifficulty calculates the starting difficulty from a first rating.
//
// D0 = w4 - (rating - 3) * w5, normalized to the 0-1 scale and clamped.
// A first "Good" lands on the mean difficulty; "Again" starts harder and
// "Easy" starts easier.
func initialDifficulty(rating domain.Rating, params *Params) float64 {
	d := params.Weights[4] - float64(rating-domain.RatingGood)*params.Weights[5]
	return clampDifficulty(d / 10.0)
}

// nextDifficulty updates difficulty based on a rating using mean reversion.
//
// The rating's deviation from "Good" nudges the difficulty up (failures) or
// down (easy recalls), then the result is pulled 30% of the way back toward
// the mean difficulty w4/10 so that no card drifts to an extreme permanently.
func nextDifficulty(current float64, rating domain.Rating, params *Params) float64 {
	delta := -float64(rating-domain.RatingGood) * params.Weights[5] / 10.0
	d := current + delta

	meanD := params.Weights[4] / 10.0
	d = meanD + meanReversionFactor*(d-meanD)

	return clampDifficulty(d)
}

// retrievability calculates the probability of recall given the elapsed time
// since the last review and the card's stability.
//
// Uses the power forgetting curve: R = (1 + t/(9*S))^(-1). Returns 1.0 for
// degenerate inputs (non-positive elapsed time or stability).
func retrievability(elapsedDays, stability float64) float64 {
	if stability <= 0 || elapsedDays <= 0 {
		return 1.0
	}
	return 1.0 / (1.0 + elapsedDays/(9*stability))
}

// intervalForStability converts a stability to an interval in days at which
// recall probability is expected to have decayed to the target retention.
//
// Derived from target = (1 + interval/(9*S))^(-1), solved for interval:
// interval = 9 * S * (1/target - 1). At the default 0.9 target this makes
// the interval numerically equal to the stability.
func intervalForStability(stability float64, params *Params) float64 {
	return 9 * stability * (1/params.TargetRetention - 1)
}

// stabilityAfterSuccess calculates the new stability after a successful
// review (rating >= 2).
//
// S' = S * (1 + e^(w8) * (11 - 10*D) * S^(-w10) * (e^(w9*(1-R)) - 1))
//
// Growth is larger for easier cards (low D) and for recalls that were less
// certain (low R at review time), and tapers off as stability saturates.
func stabilityAfterSuccess(stability, difficulty, retrievability float64, params *Params) float64 {
	factor := math.Exp(params.Weights[8]) *
		(11 - difficulty*10) *
		math.Pow(stability, -params.Weights[10]) *
		(math.Exp(params.Weights[9]*(1-retrievability)) - 1)
	return stability * (1 + factor)
}

// stabilityAfterFail calculates the new stability after a lapse (rating 1).
//
// S' = w7 * D^(-w6) * ((S+1)^w10 - 1), capped at half the prior stability
// so that forgetting always reduces stability.
func stabilityAfterFail(stability, difficulty float64, params *Params) float64 {
	s := params.Weights[7] *
		math.Pow(difficulty, -params.Weights[6]) *
		(math.Pow(stability+1, params.Weights[10]) - 1)
	return math.Min(s, stability*0.5)
}

// nextState computes the full state transition for one review.
//
// The elapsed time feeding the forgetting curve is the originally scheduled
// interval plus however early or late the review actually happened, floored
// at zero. Difficulty updates first, then stability branches on lapse vs
// success, then the new interval is derived from the new stability with the
// Hard/Easy modifiers and a one-day floor applied.
func nextState(
	state domain.CardState,
	rating domain.Rating,
	reviewTime time.Time,
	params *Params,
) (domain.CardState, float64, float64) {
	scheduled := intervalForStability(state.Stability, params)
	elapsedDays := math.Max(0, reviewTime.Sub(state.Due).Seconds()/86400+scheduled)
	recall := retrievability(elapsedDays, state.Stability)

	newDifficulty := nextDifficulty(state.Difficulty, rating, params)

	var newStability float64
	newReps := state.Reps
	newLapses := state.Lapses
	if rating == domain.RatingAgain {
		// Lapse: stability resets, keeping some memory of the prior value
		newStability = stabilityAfterFail(state.Stability, newDifficulty, params)
		newLapses++
	} else {
		newStability = stabilityAfterSuccess(state.Stability, newDifficulty, recall, params)
		newReps++
	}
	newStability = math.Max(MinStability, newStability)

	interval := intervalForStability(newStability, params)
	switch rating {
	case domain.RatingHard:
		interval *= hardIntervalFactor
	case domain.RatingEasy:
		interval *= easyIntervalFactor
	}
	interval = math.Max(MinIntervalDays, interval)

	newState := domain.CardState{
		Stability:  newStability,
		Difficulty: newDifficulty,
		Due:        reviewTime.Add(daysToDuration(interval)),
		Reps:       newReps,
		Lapses:     newLapses,
	}

	return newState, interval, recall
}
