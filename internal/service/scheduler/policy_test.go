package scheduler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jlenaghan/boliye/internal/assessment"
	"github.com/jlenaghan/boliye/internal/domain"
)

// contextWithGrades replays a grade sequence into a fresh context.
func contextWithGrades(grades ...assessment.Grade) *LearnerContext {
	lctx := NewLearnerContext(uuid.New())
	for _, grade := range grades {
		lctx.RecordReview(makeEvent("शब्द", grade))
	}
	return lctx
}

func repeatGrades(grade assessment.Grade, n int) []assessment.Grade {
	grades := make([]assessment.Grade, n)
	for i := range grades {
		grades[i] = grade
	}
	return grades
}

func TestSessionLimits(t *testing.T) {
	t.Parallel()

	correct := assessment.GradeCorrect
	incorrect := assessment.GradeIncorrect

	tests := []struct {
		name          string
		grades        []assessment.Grade
		wantNew       int
		wantReasoning string
	}{
		{
			name:          "fresh session keeps standard limits",
			grades:        nil,
			wantNew:       10,
			wantReasoning: "Standard limits: 10 new, 20 reviews.",
		},
		{
			name:          "too few reviews to adapt",
			grades:        []assessment.Grade{incorrect, incorrect, correct, correct},
			wantNew:       10,
			wantReasoning: "Standard limits: 10 new, 20 reviews.",
		},
		{
			name:          "low accuracy cuts new cards to a third",
			grades:        []assessment.Grade{incorrect, correct, incorrect, correct, incorrect, correct},
			wantNew:       3,
			wantReasoning: "Accuracy is 50% — reducing new cards to 3 so you can focus on reviewing.",
		},
		{
			name:          "moderate accuracy halves new cards",
			grades:        []assessment.Grade{incorrect, correct, correct, incorrect, correct, correct},
			wantNew:       5,
			wantReasoning: "Accuracy is 67% — slightly reducing new cards to 5.",
		},
		{
			name:          "accuracy at the sixty percent boundary",
			grades:        []assessment.Grade{incorrect, correct, incorrect, correct, correct},
			wantNew:       5,
			wantReasoning: "Accuracy is 60% — slightly reducing new cards to 5.",
		},
		{
			name:          "accuracy at the seventy-five percent boundary",
			grades:        append([]assessment.Grade{incorrect, incorrect}, repeatGrades(correct, 6)...),
			wantNew:       10,
			wantReasoning: "Standard limits: 10 new, 20 reviews.",
		},
		{
			name:          "great accuracy raises the limit",
			grades:        append([]assessment.Grade{incorrect}, repeatGrades(correct, 9)...),
			wantNew:       15,
			wantReasoning: "Great accuracy (90%)! Increasing new cards to 15.",
		},
		{
			name:          "failure streak pauses new cards",
			grades:        append(repeatGrades(correct, 4), repeatGrades(incorrect, 3)...),
			wantNew:       0,
			wantReasoning: "You've missed the last 3 cards — pausing new cards to focus on review.",
		},
		{
			name:          "streak overrides great accuracy",
			grades:        append(repeatGrades(correct, 27), repeatGrades(assessment.GradeClose, 3)...),
			wantNew:       0,
			wantReasoning: "You've missed the last 3 cards — pausing new cards to focus on review.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestScheduler(t, &fakeCardSource{}, &fakeContentSource{})
			lctx := contextWithGrades(tt.grades...)

			newLimit, reviewLimit, reasoning := s.sessionLimits(lctx)

			assert.Equal(t, tt.wantNew, newLimit)
			assert.Equal(t, 20, reviewLimit, "review limit never adapts")
			assert.Equal(t, tt.wantReasoning, reasoning)
		})
	}
}

func TestNewSlots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		limit int
		due   int
		ratio float64
		want  int
	}{
		{"due load opens slots", 10, 20, 0.25, 5},
		{"at least one slot", 10, 2, 0.25, 1},
		{"no due cards still one slot", 10, 0, 0.25, 1},
		{"adaptive limit caps slots", 3, 40, 0.25, 3},
		{"paused new cards win", 0, 40, 0.25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, newSlots(tt.limit, tt.due, tt.ratio))
		})
	}
}

func TestDifficultyHint(t *testing.T) {
	t.Parallel()

	correct := assessment.GradeCorrect
	incorrect := assessment.GradeIncorrect

	tests := []struct {
		name       string
		reps       int
		lapses     int
		stability  float64
		grades     []assessment.Grade
		wantKind   domain.ExerciseKind
		wantReason string
	}{
		{
			name:       "new card starts with recognition",
			reps:       0,
			stability:  0.5,
			wantKind:   domain.ExerciseKindMCQ,
			wantReason: "New card — starting with recognition (MCQ).",
		},
		{
			name:       "lapsed card drops back to recognition",
			reps:       4,
			lapses:     3,
			stability:  2,
			wantKind:   domain.ExerciseKindMCQ,
			wantReason: "Card has 3 lapses — using MCQ to rebuild confidence.",
		},
		{
			name:       "struggling session eases the whole queue",
			reps:       4,
			stability:  5,
			grades:     []assessment.Grade{incorrect, correct, incorrect, correct, incorrect},
			wantKind:   domain.ExerciseKindMCQ,
			wantReason: "Session accuracy is 40% — using easier MCQ.",
		},
		{
			name:       "struggling session overrides maturity",
			reps:       9,
			stability:  40,
			grades:     []assessment.Grade{incorrect, correct, incorrect, correct, incorrect},
			wantKind:   domain.ExerciseKindMCQ,
			wantReason: "Session accuracy is 40% — using easier MCQ.",
		},
		{
			name:       "well-known card gets full production",
			reps:       9,
			stability:  40,
			wantKind:   domain.ExerciseKindTranslation,
			wantReason: "Well-known card — testing with translation.",
		},
		{
			name:       "mature card gets cloze",
			reps:       6,
			stability:  15,
			wantKind:   domain.ExerciseKindCloze,
			wantReason: "Mature card — testing active recall with cloze.",
		},
		{
			name:       "stability at the translation boundary stays on cloze",
			reps:       8,
			stability:  30,
			wantKind:   domain.ExerciseKindCloze,
			wantReason: "Mature card — testing active recall with cloze.",
		},
		{
			name:       "a few reviews move to cloze",
			reps:       2,
			stability:  2,
			wantKind:   domain.ExerciseKindCloze,
			wantReason: "Card has some reviews — moving to cloze.",
		},
		{
			name:       "single review stays on recognition",
			reps:       1,
			stability:  0.5,
			wantKind:   domain.ExerciseKindMCQ,
			wantReason: "Default: starting with MCQ.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			card := &domain.Card{
				ID:            uuid.New(),
				LearnerID:     uuid.New(),
				ContentItemID: uuid.New(),
				CardState: domain.CardState{
					Stability:  tt.stability,
					Difficulty: 0.3,
					Due:        domain.UTCNow(),
					Reps:       tt.reps,
					Lapses:     tt.lapses,
				},
			}
			lctx := contextWithGrades(tt.grades...)

			kind, reason := DifficultyHint(card, lctx)

			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}
