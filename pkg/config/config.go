package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Env        string
	Server     ServerConfig
	Store      StoreConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Enrichment EnrichmentConfig
	Feedback   FeedbackConfig
	Analytics  AnalyticsConfig
	OTEL       OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// StoreConfig selects the feedback store implementation
type StoreConfig struct {
	Driver string // "postgres" or "memory"
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Database      string
	SSLMode       string
	RunMigrations bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// EnrichmentConfig holds the language-model API configuration
type EnrichmentConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Timeout        time.Duration
	Temperature    float64
	MaxTokens      int
	RateLimitRPM   int
	RateLimitBurst int
}

// FeedbackConfig holds submission rules
type FeedbackConfig struct {
	Categories       []string
	MinMessageLength int
	MaxMessageLength int
}

// AnalyticsConfig holds analytics defaults
type AnalyticsConfig struct {
	DefaultGranularity string
	DefaultTopN        int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// DefaultCategories is the category set offered by the submission form.
var DefaultCategories = []string{
	"General Feedback",
	"Feature Request",
	"Bug Report",
	"Performance",
	"UI/UX",
	"Documentation",
	"Customer Service",
	"Other",
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
			// "*" only suits development; set ALLOWED_ORIGINS in production.
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnvAsInt("DB_PORT", 5432),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", ""),
			Database:      getEnv("DB_NAME", "feedback_insights"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			RunMigrations: getEnvAsBool("DB_RUN_MIGRATIONS", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Enrichment: EnrichmentConfig{
			APIKey:         getEnv("PERPLEXITY_API_KEY", getEnv("AI_API_KEY", "")),
			BaseURL:        getEnv("AI_BASE_URL", "https://api.perplexity.ai"),
			Model:          getEnv("AI_MODEL", "sonar-pro"),
			Timeout:        getEnvAsDuration("ENRICHMENT_TIMEOUT", 15*time.Second),
			Temperature:    getEnvAsFloat("AI_TEMPERATURE", 0.3),
			MaxTokens:      getEnvAsInt("AI_MAX_TOKENS", 500),
			RateLimitRPM:   getEnvAsInt("AI_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("AI_RATE_LIMIT_BURST", 5),
		},
		Feedback: FeedbackConfig{
			Categories:       getEnvAsList("FEEDBACK_CATEGORIES", DefaultCategories),
			MinMessageLength: getEnvAsInt("FEEDBACK_MIN_MESSAGE_LENGTH", 10),
			MaxMessageLength: getEnvAsInt("FEEDBACK_MAX_MESSAGE_LENGTH", 5000),
		},
		Analytics: AnalyticsConfig{
			DefaultGranularity: strings.ToLower(getEnv("ANALYTICS_DEFAULT_GRANULARITY", "day")),
			DefaultTopN:        getEnvAsInt("ANALYTICS_DEFAULT_TOP_N", 5),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "feedback-insights"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configuration the service cannot run with
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Analytics.DefaultGranularity {
	case "day", "week", "month":
	default:
		return fmt.Errorf("unsupported ANALYTICS_DEFAULT_GRANULARITY %q", c.Analytics.DefaultGranularity)
	}
	if c.Enrichment.Timeout <= 0 {
		return fmt.Errorf("ENRICHMENT_TIMEOUT must be positive")
	}
	if len(c.Feedback.Categories) == 0 {
		return fmt.Errorf("FEEDBACK_CATEGORIES must not be empty")
	}
	if c.Feedback.MinMessageLength < 1 {
		c.Feedback.MinMessageLength = 1
	}
	if c.Feedback.MaxMessageLength < c.Feedback.MinMessageLength {
		return fmt.Errorf("FEEDBACK_MAX_MESSAGE_LENGTH must be >= FEEDBACK_MIN_MESSAGE_LENGTH")
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("15s") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		out := make([]string, len(defaultValue))
		copy(out, defaultValue)
		return out
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
