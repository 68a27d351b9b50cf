package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlenaghan/boliye/internal/config"
	"github.com/jlenaghan/boliye/internal/platform/logger"
)

func TestSetupReturnsConfiguredLogger(t *testing.T) {
	tests := []struct {
		name         string
		logLevel     string
		debugEnabled bool
	}{
		{name: "debug_level", logLevel: "debug", debugEnabled: true},
		{name: "info_level", logLevel: "info", debugEnabled: false},
		{name: "warn_level", logLevel: "WARN", debugEnabled: false},
		{name: "invalid_level_falls_back_to_info", logLevel: "verbose", debugEnabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{LogLevel: tt.logLevel})
			require.NoError(t, err)
			require.NotNil(t, log)

			assert.Equal(t, tt.debugEnabled,
				log.Enabled(context.Background(), slog.LevelDebug))
			// Error level is always enabled.
			assert.True(t, log.Enabled(context.Background(), slog.LevelError))
		})
	}
}

func TestFromContextOrDefault(t *testing.T) {
	defaultLogger := slog.Default()
	customLogger, _ := logger.GetTestLogger(t)

	tests := []struct {
		name     string
		ctx      context.Context
		expected *slog.Logger
	}{
		{
			name:     "nil_context_returns_default",
			ctx:      nil,
			expected: defaultLogger,
		},
		{
			name:     "context_without_logger_returns_default",
			ctx:      context.Background(),
			expected: defaultLogger,
		},
		{
			name:     "context_with_logger_returns_context_logger",
			ctx:      logger.WithLogger(context.Background(), customLogger),
			expected: customLogger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := logger.FromContextOrDefault(tt.ctx, defaultLogger)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestWithLogger(t *testing.T) {
	t.Run("valid_logger", func(t *testing.T) {
		customLogger, _ := logger.GetTestLogger(t)
		ctx := logger.WithLogger(context.Background(), customLogger)

		retrievedLogger := logger.FromContext(ctx)
		assert.Equal(t, customLogger, retrievedLogger)
	})

	t.Run("nil_logger_panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.WithLogger(context.Background(), nil)
		})
	})
}

func TestLoggerWritesStructuredJSON(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	log.Info("card reviewed",
		slog.String("card_id", "abc"),
		slog.Int("rating", 3))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "card reviewed", entries[0]["msg"])
	assert.Equal(t, "abc", entries[0]["card_id"])
	assert.Equal(t, float64(3), entries[0]["rating"])
}
