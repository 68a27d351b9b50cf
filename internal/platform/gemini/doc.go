// Package gemini implements LLM-backed fuzzy assessment using Google's
// Gemini API. It judges typed learner responses that exact matching cannot
// settle (typos versus real errors, alternative phrasings, partial
// understanding) and maps the model's verdict onto the assessment grades the
// rest of the application works with.
package gemini
