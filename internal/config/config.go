package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
	SRS      SRSConfig      `mapstructure:"srs" validate:"required"`
	Session  SessionConfig  `mapstructure:"session" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost" validate:"omitempty,gte=4,lte=31"`
}

// LLMConfig contains all LLM integration related settings.
// The API key is optional; when it is empty, answer grading falls back to
// exact matching instead of fuzzy assessment.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"omitempty,gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"omitempty,gte=0"`
}

// SRSConfig contains the scheduler parameters.
type SRSConfig struct {
	// TargetRetention is the recall probability the scheduler aims for
	// when a card comes due.
	TargetRetention float64 `mapstructure:"target_retention" validate:"required,gt=0,lt=1"`

	// MaxNewPerSession caps new-card introduction per session before the
	// adaptive policy applies its own reductions.
	MaxNewPerSession int `mapstructure:"max_new_per_session" validate:"required,gt=0"`

	// MaxReviewsPerSession caps the due cards fetched into one session.
	MaxReviewsPerSession int `mapstructure:"max_reviews_per_session" validate:"required,gt=0"`

	// Weights optionally replaces the full scheduler weight vector.
	Weights []float64 `mapstructure:"weights" validate:"omitempty,len=13"`
}

// SessionConfig contains review session lifecycle settings.
type SessionConfig struct {
	// TTLSeconds is how long an idle session survives, measured from
	// session creation, before the sweep evicts it.
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"required,gt=0"`

	// SweepIntervalSeconds is how often the periodic eviction sweep runs.
	SweepIntervalSeconds int `mapstructure:"sweep_interval_seconds" validate:"required,gt=0"`
}
