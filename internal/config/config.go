// Package config provides environment configuration for the API server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// NATS settings
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// Database settings
	DatabaseURL string

	// JWT settings
	JWTSecret string

	// LLM settings
	AnthropicAPIKey string
	OpenAIAPIKey    string
	ClassifierModel string
	GeneratorModel  string
	LLMTimeout      time.Duration

	// Engagement settings
	MaxTurns            int
	RapportTurns        int
	StallTurns          int
	EngageThreshold     float64
	ConfidenceThreshold float64
	BotProbeLimit       int
	HistoryWindow       int

	// Session settings
	SessionTTL time.Duration

	// Extraction settings
	PhoneDigits int
	PhonePrefix string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),

		// NATS
		NATSURL:      getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "development-secret-change-in-production"),

		// LLM
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		ClassifierModel: getEnv("CLASSIFIER_MODEL", ""),
		GeneratorModel:  getEnv("GENERATOR_MODEL", ""),
		LLMTimeout:      getDurationEnv("LLM_TIMEOUT", 20*time.Second),

		// Engagement
		MaxTurns:            getIntEnv("MAX_TURNS", 20),
		RapportTurns:        getIntEnv("RAPPORT_TURNS", 3),
		StallTurns:          getIntEnv("STALL_TURNS", 8),
		EngageThreshold:     getFloatEnv("ENGAGE_THRESHOLD", 0.5),
		ConfidenceThreshold: getFloatEnv("CONFIDENCE_THRESHOLD", 0.85),
		BotProbeLimit:       getIntEnv("BOT_PROBE_LIMIT", 3),
		HistoryWindow:       getIntEnv("HISTORY_WINDOW", 12),

		// Session
		SessionTTL: getDurationEnv("SESSION_TTL", 24*time.Hour),

		// Extraction
		PhoneDigits: getIntEnv("PHONE_DIGITS", 10),
		PhonePrefix: getEnv("PHONE_PREFIX", "91"),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
