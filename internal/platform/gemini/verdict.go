package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jlenaghan/boliye/internal/assessment"
)

// verdict is the JSON shape the model is asked to return.
type verdict struct {
	Grade    string `json:"grade"`
	Feedback string `json:"feedback"`
	IsTypo   bool   `json:"is_typo"`
}

// stripCodeFences removes a surrounding markdown code fence. Models return
// one now and then even when told not to.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = text[idx+1:]
	} else {
		text = text[3:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// parseVerdict decodes the raw model output into a verdict.
func parseVerdict(raw string) (verdict, error) {
	var v verdict
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &v); err != nil {
		return verdict{}, fmt.Errorf("%w: %v", ErrInvalidVerdict, err)
	}
	return v, nil
}

// toAssessment maps the verdict onto an Assessment. Unknown grades degrade to
// incorrect, and a missing feedback field falls back to naming the expected
// answer.
func (v verdict) toAssessment(expected, actual string) assessment.Assessment {
	grade := assessment.ParseGrade(v.Grade)

	feedback := v.Feedback
	if feedback == "" {
		feedback = fmt.Sprintf("Expected: %s", expected)
	}

	return assessment.Assessment{
		Grade:           grade,
		SuggestedRating: grade.Rating(),
		Feedback:        feedback,
		Expected:        expected,
		Actual:          actual,
	}
}
