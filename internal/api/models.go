package api

import (
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the learner registration endpoint.
type RegisterRequest struct {
	Name      string `json:"name"       validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=12,max=72"`
	CEFRLevel string `json:"cefr_level" validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
}

// LoginRequest defines the payload for the learner login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// LearnerID is the unique identifier for the authenticated learner
	LearnerID uuid.UUID `json:"learner_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token to be used to obtain a new token pair
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	// AccessToken is the new JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the new JWT token used to obtain future access tokens
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// CardSummary is the scheduling view of the card under review.
type CardSummary struct {
	ID            uuid.UUID `json:"id"`
	ContentItemID uuid.UUID `json:"content_item_id"`
	Reps          int       `json:"reps"`
	Lapses        int       `json:"lapses"`
	Due           time.Time `json:"due"`
}

// ExercisePrompt is the exercise exactly as it should be shown to the
// learner. The expected answer never appears here; it arrives with the
// answer result after the learner has responded.
type ExercisePrompt struct {
	ID      uuid.UUID `json:"id"`
	Kind    string    `json:"kind"`
	Prompt  string    `json:"prompt"`
	Options []string  `json:"options,omitempty"`
}

// NextCardResponse defines the response for the next-card endpoint.
type NextCardResponse struct {
	Card      CardSummary    `json:"card"`
	Exercise  ExercisePrompt `json:"exercise"`
	Topics    []string       `json:"topics,omitempty"`
	CEFRLevel string         `json:"cefr_level,omitempty"`
	Reasoning string         `json:"reasoning,omitempty"`
	Remaining int            `json:"remaining"`
}

// SubmitAnswerRequest defines the payload for answering the current card.
// ExerciseID is optional; when present it must match the exercise the
// session actually served. An empty Response is a valid "I don't know".
type SubmitAnswerRequest struct {
	CardID     uuid.UUID `json:"card_id"               validate:"required"`
	ExerciseID uuid.UUID `json:"exercise_id,omitempty"`
	Response   string    `json:"response"`
	TimeMs     int       `json:"time_ms"               validate:"gte=0"`
	SelfRating *int      `json:"self_rating,omitempty" validate:"omitempty,gte=1,lte=4"`
}

// AnswerResponse defines the response for the answer endpoint, combining
// the assessment verdict with the card's updated schedule.
type AnswerResponse struct {
	Grade           string    `json:"grade"`
	SuggestedRating int       `json:"suggested_rating"`
	AppliedRating   int       `json:"applied_rating"`
	Feedback        string    `json:"feedback,omitempty"`
	CorrectAnswer   string    `json:"correct_answer"`
	ExactMatch      bool      `json:"exact_match"`
	NextDue         time.Time `json:"next_due"`
	IntervalDays    float64   `json:"interval_days"`
	Remaining       int       `json:"remaining"`
	Complete        bool      `json:"complete"`
}

// HealthResponse defines the response for the health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
