// Package config loads the statement pipeline configuration from
// environment variables and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Embedder backends for the semantic categorization layer.
const (
	EmbedderHash  = "hash"
	EmbedderGenAI = "genai"
	EmbedderNone  = "none"
)

// Config represents the application configuration.
type Config struct {
	Statement StatementConfig
	Log       LogConfig
	Category  CategoryConfig
	Server    ServerConfig
}

// StatementConfig covers ingestion, artifacts and persistence.
type StatementConfig struct {
	OutputDir string
	UploadDir string
	Workers   int
	DBPath    string
	Workbook  bool
}

// LogConfig selects the zerolog level and output format.
type LogConfig struct {
	Level  string
	Format string
}

// CategoryConfig configures the categorization engine.
type CategoryConfig struct {
	RulesPath  string
	Embedder   string
	APIKey     string
	EmbedModel string
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host           string
	Port           int
	MetricsEnabled bool
	BodyLimitMB    int
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load loads configuration from environment variables.
// An explicit envPath must exist; otherwise a .env in the working
// directory is loaded when present.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	workers, err := parseIntEnv("STATEMENT_WORKERS", 4)
	if err != nil {
		return nil, fmt.Errorf("invalid STATEMENT_WORKERS: %w", err)
	}
	port, err := parseIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	bodyLimit, err := parseIntEnv("SERVER_BODY_LIMIT_MB", 50)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_BODY_LIMIT_MB: %w", err)
	}

	cfg := &Config{
		Statement: StatementConfig{
			OutputDir: getEnvOrDefault("STATEMENT_OUTPUT_DIR", "./output"),
			UploadDir: getEnvOrDefault("STATEMENT_UPLOAD_DIR", "./uploads"),
			Workers:   workers,
			DBPath:    getEnvOrDefault("STATEMENT_DB_PATH", "./statements.db"),
			Workbook:  parseBoolEnv("STATEMENT_WORKBOOK", false),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "console"),
		},
		Category: CategoryConfig{
			RulesPath:  os.Getenv("CATEGORY_RULES_PATH"),
			Embedder:   strings.ToLower(getEnvOrDefault("EMBEDDER", EmbedderHash)),
			APIKey:     os.Getenv("GENAI_API_KEY"),
			EmbedModel: getEnvOrDefault("GENAI_EMBED_MODEL", "text-embedding-004"),
		},
		Server: ServerConfig{
			Host:           getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			MetricsEnabled: parseBoolEnv("METRICS_ENABLED", true),
			BodyLimitMB:    bodyLimit,
		},
	}
	return cfg, nil
}

// Validate checks values that would only fail later at use.
func (c *Config) Validate() error {
	if c.Statement.Workers <= 0 {
		return fmt.Errorf("STATEMENT_WORKERS must be positive, got %d", c.Statement.Workers)
	}
	switch c.Category.Embedder {
	case EmbedderHash, EmbedderNone:
	case EmbedderGenAI:
		if c.Category.APIKey == "" {
			return fmt.Errorf("EMBEDDER=genai requires GENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown EMBEDDER %q (want hash, genai or none)", c.Category.Embedder)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT out of range: %d", c.Server.Port)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

func parseBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
