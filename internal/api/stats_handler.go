package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/jlenaghan/boliye/internal/api/shared"
	"github.com/jlenaghan/boliye/internal/platform/logger"
	"github.com/jlenaghan/boliye/internal/service/stats"
)

// LearnerStatsProvider supplies the dashboard numbers for one learner.
type LearnerStatsProvider interface {
	LearnerStats(ctx context.Context, learnerID uuid.UUID) (*stats.LearnerStats, error)
}

var _ LearnerStatsProvider = (*stats.Service)(nil)

// StatsHandler serves the learner statistics dashboard.
type StatsHandler struct {
	stats  LearnerStatsProvider
	logger *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
// Panics if provider is nil. If logger is nil, a default logger is used.
func NewStatsHandler(provider LearnerStatsProvider, logger *slog.Logger) *StatsHandler {
	if provider == nil {
		panic("stats provider cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsHandler{
		stats:  provider,
		logger: logger.With(slog.String("component", "stats_handler")),
	}
}

// LearnerStats handles GET /learners/me/stats requests.
func (h *StatsHandler) LearnerStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := handleLearnerIDFromContext(w, r, log)
	if !ok {
		return
	}

	learnerStats, err := h.stats.LearnerStats(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load learner stats")
		return
	}

	log.Debug("served learner stats", slog.String("learner_id", learnerID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, learnerStats)
}
