package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"STATEMENT_OUTPUT_DIR", "STATEMENT_UPLOAD_DIR", "STATEMENT_WORKERS", "STATEMENT_DB_PATH",
	"STATEMENT_WORKBOOK", "LOG_LEVEL", "LOG_FORMAT", "CATEGORY_RULES_PATH", "EMBEDDER",
	"GENAI_API_KEY", "GENAI_EMBED_MODEL", "SERVER_HOST", "SERVER_PORT", "METRICS_ENABLED",
	"SERVER_BODY_LIMIT_MB",
}

// clearEnv blanks every key so a developer's shell cannot leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "./output", cfg.Statement.OutputDir)
	assert.Equal(t, 4, cfg.Statement.Workers)
	assert.Equal(t, EmbedderHash, cfg.Category.Embedder)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.True(t, cfg.Server.MetricsEnabled)
	assert.False(t, cfg.Statement.Workbook)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	doc := "STATEMENT_WORKERS=8\nEMBEDDER=GenAI\nGENAI_API_KEY=k\nSERVER_PORT=9090\nMETRICS_ENABLED=false\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	// godotenv does not override variables that are already set.
	for _, k := range []string{"STATEMENT_WORKERS", "EMBEDDER", "GENAI_API_KEY", "SERVER_PORT", "METRICS_ENABLED"} {
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8, cfg.Statement.Workers)
	assert.Equal(t, EmbedderGenAI, cfg.Category.Embedder)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Server.MetricsEnabled)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	t.Setenv("STATEMENT_WORKERS", "many")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Statement: StatementConfig{Workers: 2},
			Category:  CategoryConfig{Embedder: EmbedderNone},
			Server:    ServerConfig{Port: 8080},
		}
	}

	tests := map[string]func(*Config){
		"zero workers":     func(c *Config) { c.Statement.Workers = 0 },
		"genai no key":     func(c *Config) { c.Category.Embedder = EmbedderGenAI },
		"unknown embedder": func(c *Config) { c.Category.Embedder = "word2vec" },
		"bad port":         func(c *Config) { c.Server.Port = 70000 },
	}
	require.NoError(t, base().Validate())
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
