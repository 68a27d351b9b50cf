package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jlenaghan/boliye/internal/assessment"
	"github.com/jlenaghan/boliye/internal/config"
	"github.com/jlenaghan/boliye/internal/domain/fsrs"
	"github.com/jlenaghan/boliye/internal/platform/gemini"
	"github.com/jlenaghan/boliye/internal/platform/metrics"
	"github.com/jlenaghan/boliye/internal/platform/postgres"
	"github.com/jlenaghan/boliye/internal/service/auth"
	"github.com/jlenaghan/boliye/internal/service/review"
	"github.com/jlenaghan/boliye/internal/service/scheduler"
	"github.com/jlenaghan/boliye/internal/service/stats"
	"github.com/jlenaghan/boliye/internal/store"
)

// metricsRegistry lets tests swap in an isolated Prometheus registry so
// repeated initialization does not collide on duplicate registration.
// nil selects the process-wide default registry, which /metrics serves.
var metricsRegistry prometheus.Registerer

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	learnerStore   store.LearnerStore
	cardStore      store.CardStore
	contentStore   store.ContentItemStore
	exerciseStore  store.ExerciseStore
	reviewLogStore store.ReviewLogStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	memoryModel      fsrs.Service
	scheduler        *scheduler.Scheduler
	assessor         *assessment.Engine
	reviewService    *review.Service
	statsService     *stats.Service

	// Session lifecycle
	registry *review.Registry
	metrics  *metrics.Metrics
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization. On success the application owns the database connection
// and closes it during cleanup.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: log,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	log.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.learnerStore = postgres.NewPostgresLearnerStore(db, cfg.Auth.BcryptCost, log)
	app.cardStore = postgres.NewPostgresCardStore(db, log)
	app.contentStore = postgres.NewPostgresContentItemStore(db, log)
	app.exerciseStore = postgres.NewPostgresExerciseStore(db, log)
	app.reviewLogStore = postgres.NewPostgresReviewLogStore(db, log)

	app.memoryModel = fsrs.NewServiceWithParams(fsrs.NewParams(fsrs.ParamsConfig{
		Weights:         cfg.SRS.Weights,
		TargetRetention: cfg.SRS.TargetRetention,
	}))

	app.scheduler = scheduler.NewScheduler(app.cardStore, app.contentStore, scheduler.Config{
		MaxNew:     cfg.SRS.MaxNewPerSession,
		MaxReviews: cfg.SRS.MaxReviewsPerSession,
	}, log)

	app.assessor, err = setupAssessmentEngine(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize assessment engine: %w", err)
	}

	app.metrics = metrics.NewMetrics("boliye", metricsRegistry)

	app.registry = review.NewRegistry(
		time.Duration(cfg.Session.TTLSeconds)*time.Second,
		time.Duration(cfg.Session.SweepIntervalSeconds)*time.Second,
		app.metrics,
		log,
	)

	app.reviewService = review.NewService(review.Deps{
		Scheduler: app.scheduler,
		Memory:    app.memoryModel,
		Assessor:  app.assessor,
		Cards:     app.cardStore,
		Content:   app.contentStore,
		Exercises: app.exerciseStore,
		Logs:      app.reviewLogStore,
		Learners:  app.learnerStore,
		DB:        db,
		Registry:  app.registry,
		Metrics:   app.metrics,
		Logger:    log,
	})

	app.statsService = stats.NewService(app.cardStore, app.reviewLogStore, log)

	log.Info("application initialized successfully")
	return app, nil
}

// setupAssessmentEngine builds the answer-grading engine. With a Gemini API
// key configured, typed responses get fuzzy assessment; without one, grading
// degrades to exact matching.
func setupAssessmentEngine(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
) (*assessment.Engine, error) {
	var fuzzy assessment.Assessor

	if cfg.LLM.GeminiAPIKey != "" {
		assessor, err := gemini.NewFuzzyAssessor(
			ctx,
			log.With("component", "fuzzy_assessor"),
			cfg.LLM,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize fuzzy assessor: %w", err)
		}
		fuzzy = assessor
		log.Info("fuzzy answer assessment enabled", "model", cfg.LLM.ModelName)
	} else {
		log.Info("no LLM API key configured, grading answers by exact match")
	}

	return assessment.NewEngine(fuzzy, log), nil
}

// Run starts the session eviction sweep and the HTTP server, handling
// lifecycle and cleanup. It blocks until the server shuts down.
func (app *application) Run(ctx context.Context) error {
	app.registry.Start()

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.registry != nil {
		app.registry.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
