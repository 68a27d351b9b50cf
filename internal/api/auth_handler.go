package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jlenaghan/boliye/internal/api/shared"
	"github.com/jlenaghan/boliye/internal/config"
	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/redact"
	"github.com/jlenaghan/boliye/internal/service/auth"
	"github.com/jlenaghan/boliye/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	learnerStore     store.LearnerStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	authConfig       *config.AuthConfig
	validator        *validator.Validate
	timeFunc         func() time.Time
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	learnerStore store.LearnerStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	authConfig *config.AuthConfig,
) *AuthHandler {
	return &AuthHandler{
		learnerStore:     learnerStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		authConfig:       authConfig,
		validator:        validator.New(),
		timeFunc:         time.Now,
	}
}

// WithTimeFunc replaces the clock used for token expiry timestamps and
// returns the handler. Tests use it to pin time.
func (h *AuthHandler) WithTimeFunc(fn func() time.Time) *AuthHandler {
	h.timeFunc = fn
	return h
}

// generateTokenResponse issues an access and refresh token pair for the
// learner along with the access token's RFC3339 expiry timestamp.
func (h *AuthHandler) generateTokenResponse(
	ctx context.Context,
	learnerID uuid.UUID,
) (accessToken, refreshToken, expiresAt string, err error) {
	accessToken, err = h.jwtService.GenerateToken(ctx, learnerID)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err = h.jwtService.GenerateRefreshToken(ctx, learnerID)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	lifetime := time.Duration(h.authConfig.TokenLifetimeMinutes) * time.Minute
	expiresAt = h.timeFunc().Add(lifetime).Format(time.RFC3339)

	return accessToken, refreshToken, expiresAt, nil
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	// Parse request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+SanitizeValidationError(err))
		return
	}

	// Create learner
	learner, err := domain.NewLearner(req.Name, req.Email, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid learner data: "+err.Error())
		return
	}
	if req.CEFRLevel != "" {
		learner.CEFRLevel = req.CEFRLevel
	}

	// Store learner; the store hashes the password
	if err := h.learnerStore.Create(r.Context(), learner); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		slog.Error("failed to create learner", "error", redact.Error(err), "email", req.Email)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create learner")
		return
	}

	// Generate token pair
	accessToken, refreshToken, expiresAt, err := h.generateTokenResponse(r.Context(), learner.ID)
	if err != nil {
		slog.Error("failed to generate tokens", "error", redact.Error(err), "learner_id", learner.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	// Return success response
	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		LearnerID:    learner.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	// Parse request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+SanitizeValidationError(err))
		return
	}

	// Get learner by email
	learner, err := h.learnerStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrLearnerNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to get learner by email", "error", redact.Error(err), "email", req.Email)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate learner")
		return
	}

	// Verify password using the injected verifier
	if err := h.passwordVerifier.Compare(learner.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Generate token pair
	accessToken, refreshToken, expiresAt, err := h.generateTokenResponse(r.Context(), learner.ID)
	if err != nil {
		slog.Error("failed to generate tokens", "error", redact.Error(err), "learner_id", learner.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	// Return success response
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		LearnerID:    learner.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
}

// RefreshToken handles the /auth/refresh endpoint. It validates the provided
// refresh token and issues a new access and refresh token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest

	// Parse request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	// Validate the refresh token
	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRefreshToken),
			errors.Is(err, auth.ErrExpiredRefreshToken),
			errors.Is(err, auth.ErrWrongTokenType),
			errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrExpiredToken):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid refresh token")
		default:
			slog.Error("failed to validate refresh token", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to validate refresh token")
		}
		return
	}

	// Generate a fresh token pair
	accessToken, refreshToken, expiresAt, err := h.generateTokenResponse(r.Context(), claims.LearnerID)
	if err != nil {
		slog.Error("failed to generate tokens", "error", redact.Error(err), "learner_id", claims.LearnerID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	// Return success response
	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
}
