package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/jlenaghan/boliye/internal/api/shared"
	"github.com/jlenaghan/boliye/internal/platform/logger"
	"github.com/jlenaghan/boliye/internal/redact"
)

// healthCheckTimeout bounds the database ping so a wedged pool cannot hang
// the health endpoint.
const healthCheckTimeout = 2 * time.Second

// HealthHandler reports service liveness and database reachability.
type HealthHandler struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
// Panics if db is nil. If logger is nil, a default logger is used.
func NewHealthHandler(db *sql.DB, logger *slog.Logger) *HealthHandler {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		db:     db,
		logger: logger.With(slog.String("component", "health_handler")),
	}
}

// Check handles GET /health requests.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Error("database health check failed", slog.String("error", redact.Error(err)))
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unavailable",
			Database: "down",
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:   "ok",
		Database: "up",
	})
}
