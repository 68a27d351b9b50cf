package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewExercise(t *testing.T) {
	contentItemID := uuid.New()

	testCases := []struct {
		name    string
		kind    ExerciseKind
		prompt  string
		answer  string
		options []string
		wantErr error
	}{
		{
			name:    "valid mcq",
			kind:    ExerciseKindMCQ,
			prompt:  "What does पानी mean?",
			answer:  "water",
			options: []string{"water", "fire", "bread", "milk"},
		},
		{
			name:   "valid cloze",
			kind:   ExerciseKindCloze,
			prompt: "मुझे ___ चाहिए (water)",
			answer: "पानी",
		},
		{
			name:   "valid translation",
			kind:   ExerciseKindTranslation,
			prompt: "Translate: I want water",
			answer: "मुझे पानी चाहिए",
		},
		{
			name:    "unknown kind",
			kind:    ExerciseKind("listening"),
			prompt:  "p",
			answer:  "a",
			wantErr: ErrInvalidExerciseKind,
		},
		{
			name:    "empty prompt",
			kind:    ExerciseKindCloze,
			prompt:  "",
			answer:  "a",
			wantErr: ErrEmptyExercisePrompt,
		},
		{
			name:    "empty answer",
			kind:    ExerciseKindCloze,
			prompt:  "p",
			answer:  "",
			wantErr: ErrEmptyExerciseAnswer,
		},
		{
			name:    "mcq with too few options",
			kind:    ExerciseKindMCQ,
			prompt:  "p",
			answer:  "a",
			options: []string{"a"},
			wantErr: ErrMCQWithoutOptions,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ex, err := NewExercise(contentItemID, tc.kind, tc.prompt, tc.answer, tc.options)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("Expected error %v, got %v", tc.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if ex.Status != ExerciseStatusGenerated {
				t.Errorf("Expected status %q, got %q", ExerciseStatusGenerated, ex.Status)
			}

			if ex.ContentItemID != contentItemID {
				t.Errorf("Expected content item ID %s, got %s", contentItemID, ex.ContentItemID)
			}
		})
	}
}

func TestExerciseKindDifficultyTier(t *testing.T) {
	testCases := []struct {
		kind ExerciseKind
		want int
	}{
		{ExerciseKindMCQ, 1},
		{ExerciseKindCloze, 2},
		{ExerciseKindTranslation, 3},
	}

	for _, tc := range testCases {
		if got := tc.kind.DifficultyTier(); got != tc.want {
			t.Errorf("%s.DifficultyTier() = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestExercisePresentable(t *testing.T) {
	ex, err := NewExercise(uuid.New(), ExerciseKindCloze, "p", "a", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !ex.Presentable() {
		t.Error("Expected generated exercise to be presentable")
	}

	ex.Status = ExerciseStatusApproved
	if !ex.Presentable() {
		t.Error("Expected approved exercise to be presentable")
	}

	ex.Status = ExerciseStatusRejected
	if ex.Presentable() {
		t.Error("Expected rejected exercise to not be presentable")
	}
}
