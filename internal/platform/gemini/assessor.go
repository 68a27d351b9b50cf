package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"google.golang.org/genai"

	"github.com/jlenaghan/boliye/internal/assessment"
	"github.com/jlenaghan/boliye/internal/config"
	"github.com/jlenaghan/boliye/internal/domain"
)

const (
	// verdictTemperature keeps grading near-deterministic.
	verdictTemperature float32 = 0.1

	// verdictMaxTokens bounds the verdict; two sentences of feedback fit well
	// within this.
	verdictMaxTokens int32 = 256
)

// contentGenerator is the narrow slice of the Gemini client the assessor
// depends on. Tests substitute it to exercise retry and parsing behavior
// without network access.
type contentGenerator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// genaiGenerator calls the real Gemini API.
type genaiGenerator struct {
	client *genai.Client
	model  string
}

func (g *genaiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](verdictTemperature),
		MaxOutputTokens:   verdictMaxTokens,
		ResponseMIMEType:  "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransientFailure, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no content generated", ErrInvalidVerdict)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", ErrContentBlocked
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response text", ErrInvalidVerdict)
	}
	return text, nil
}

// FuzzyAssessor implements assessment.Assessor using the Gemini API. It is
// safe for concurrent use.
type FuzzyAssessor struct {
	logger *slog.Logger
	cfg    config.LLMConfig
	gen    contentGenerator
}

var _ assessment.Assessor = (*FuzzyAssessor)(nil)

// NewFuzzyAssessor creates a Gemini-backed fuzzy assessor. The context is
// used only for client construction.
func NewFuzzyAssessor(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*FuzzyAssessor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	return &FuzzyAssessor{
		logger: logger.With(slog.String("component", "fuzzy_assessor")),
		cfg:    cfg,
		gen:    &genaiGenerator{client: client, model: cfg.ModelName},
	}, nil
}

// Assess grades a typed response with the LLM. The returned error is one of
// this package's sentinels; callers that can settle for exact matching treat
// any of them as a signal to fall back.
func (a *FuzzyAssessor) Assess(ctx context.Context, response string, exercise *domain.Exercise) (assessment.Assessment, error) {
	if exercise == nil {
		return assessment.Assessment{}, assessment.ErrMissingExercise
	}

	prompt, err := buildPrompt(exercise.Prompt, exercise.Answer, response)
	if err != nil {
		return assessment.Assessment{}, err
	}

	raw, err := a.callWithRetry(ctx, prompt)
	if err != nil {
		return assessment.Assessment{}, err
	}

	v, err := parseVerdict(raw)
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to parse fuzzy assessment verdict",
			slog.String("exercise_id", exercise.ID.String()),
			slog.String("error", err.Error()))
		return assessment.Assessment{}, err
	}

	result := v.toAssessment(exercise.Answer, response)
	a.logger.DebugContext(ctx, "fuzzy assessment verdict",
		slog.String("exercise_id", exercise.ID.String()),
		slog.String("grade", string(result.Grade)),
		slog.Bool("is_typo", v.IsTypo))

	return result, nil
}

// callWithRetry calls the Gemini API with exponential backoff and jitter.
// Permanent errors (safety block, unparseable content) return immediately;
// transient errors retry up to MaxRetries times.
func (a *FuzzyAssessor) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := a.cfg.MaxRetries
	if maxRetries < 0 {
		a.logger.WarnContext(ctx, "invalid max retries value, using default", slog.Int("max_retries", 3))
		maxRetries = 3
	}

	baseDelaySeconds := a.cfg.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		a.logger.WarnContext(ctx, "invalid retry delay value, using default", slog.Int("base_delay_seconds", 2))
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		raw, err := a.gen.generate(ctx, prompt)
		if err == nil {
			return raw, nil
		}

		a.logger.WarnContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1),
			slog.String("error", err.Error()))

		if errors.Is(err, ErrContentBlocked) || errors.Is(err, ErrInvalidVerdict) {
			return "", err
		}
		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d)", ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * 2^attempt * jitter in [0.5, 1.0)
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitter := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitter * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrTransientFailure, ctx.Err())
		}
	}
}
