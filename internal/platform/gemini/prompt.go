package gemini

import (
	"bytes"
	"fmt"
	"text/template"
)

// systemInstruction frames every assessment request. The model is asked for
// JSON only; parseVerdict tolerates a stray code fence anyway.
const systemInstruction = `You are a Hindi language tutor assessing a learner's response. Evaluate whether their answer is correct, close, partially correct, or incorrect.

Consider:
- Spelling variations in Devanagari (minor matras, halant differences)
- Common transliteration variations
- Whether the core meaning is preserved
- Typos vs fundamental misunderstandings

Respond with JSON only.`

// promptTemplate builds the per-request user prompt. text/template rather
// than html/template: prompts and answers regularly contain quotes and
// Devanagari punctuation that must not be escaped.
var promptTemplate = template.Must(template.New("fuzzy_assessment").Parse(`Exercise prompt: {{.Prompt}}
Expected answer: {{.Expected}}
Learner's answer: {{.Actual}}

Assess the learner's response. Return JSON:
{
  "grade": "correct" | "close" | "partial" | "incorrect",
  "feedback": "Brief, helpful feedback in 1-2 sentences",
  "is_typo": true/false
}`))

// promptData carries the fields the prompt template interpolates.
type promptData struct {
	Prompt   string
	Expected string
	Actual   string
}

// buildPrompt renders the user prompt for one assessment request.
func buildPrompt(exercisePrompt, expected, actual string) (string, error) {
	var buf bytes.Buffer
	data := promptData{
		Prompt:   exercisePrompt,
		Expected: expected,
		Actual:   actual,
	}
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
