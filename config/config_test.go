package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investPilot/internal/adapters/logger"
)

var configKeys = []string{
	"ALPACA_API_KEY", "API_KEY_ID", "APCA_API_KEY_ID",
	"ALPACA_SECRET_KEY", "API_SECRET_KEY", "APCA_API_SECRET_KEY",
	"ALPACA_PAPER", "ALPACA_BASE_URL", "APCA_API_BASE_URL", "ALPACA_DATA_FEED",
	"LOG_LEVEL", "LOG_FORMAT", "OUTPUT_FORMAT", "MCP_TRANSPORT", "HTTP_ADDR",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALPACA_API_KEY", "key")
	t.Setenv("ALPACA_SECRET_KEY", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "secret", cfg.SecretKey)
	assert.True(t, cfg.Paper, "paper trading must default to true")
	assert.Empty(t, cfg.BaseURL)
	assert.Equal(t, "iex", cfg.DataFeed)
	assert.Equal(t, logger.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, OutputText, cfg.OutputFormat)
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadConfigAlternateNaming(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY_ID", "alt-key")
	t.Setenv("APCA_API_SECRET_KEY", "alt-secret")
	t.Setenv("APCA_API_BASE_URL", "https://paper-api.alpaca.markets")
	t.Setenv("ALPACA_PAPER", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "alt-key", cfg.APIKey)
	assert.Equal(t, "alt-secret", cfg.SecretKey)
	assert.Equal(t, "https://paper-api.alpaca.markets", cfg.BaseURL)
	assert.False(t, cfg.Paper)
}

func TestLoadConfigPrimaryNameWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALPACA_API_KEY", "primary")
	t.Setenv("API_KEY_ID", "secondary")
	t.Setenv("ALPACA_SECRET_KEY", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.APIKey)
}

func TestLoadConfigMissingCredentials(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "API key is required")
	assert.Contains(t, err.Error(), "secret key is required")
}

func TestLoadConfigInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALPACA_API_KEY", "key")
	t.Setenv("ALPACA_SECRET_KEY", "secret")
	t.Setenv("OUTPUT_FORMAT", "xml")
	t.Setenv("MCP_TRANSPORT", "grpc")
	t.Setenv("ALPACA_DATA_FEED", "otc")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OUTPUT_FORMAT")
	assert.Contains(t, err.Error(), "MCP_TRANSPORT")
	assert.Contains(t, err.Error(), "ALPACA_DATA_FEED")
}

func TestLoadOverridesWinOverEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALPACA_API_KEY", "key")
	t.Setenv("ALPACA_SECRET_KEY", "secret")
	t.Setenv("OUTPUT_FORMAT", "text")
	t.Setenv("LOG_LEVEL", "ERROR")

	cfg, err := Load(Overrides{OutputFormat: "JSON", LogLevel: "debug", Transport: "http", HTTPAddr: "127.0.0.1:9000"})
	require.NoError(t, err)

	assert.Equal(t, OutputJSON, cfg.OutputFormat)
	assert.Equal(t, logger.LevelDebug, cfg.LogLevel)
	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
}
