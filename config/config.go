package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"investPilot/internal/adapters/logger" // Import the logger package for LogLevel
)

// Output formats accepted by OUTPUT_FORMAT.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Transports accepted by MCP_TRANSPORT.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all application configuration.
type Config struct {
	// Alpaca API
	APIKey    string
	SecretKey string
	Paper     bool
	BaseURL   string // optional override of the trading API URL
	DataFeed  string // iex or sip

	// Logging
	LogLevel  logger.LogLevel
	LogFormat string // text or json

	// Tool responses
	OutputFormat string

	// Transport
	Transport string
	HTTPAddr  string
}

// Overrides carries command-line values that take precedence over the environment.
// Empty fields are ignored.
type Overrides struct {
	LogLevel     string
	OutputFormat string
	Transport    string
	HTTPAddr     string
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	return Load(Overrides{})
}

// Load loads configuration from the environment and applies overrides.
func Load(o Overrides) (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string // Collect validation errors

	// Alpaca API: both naming schemes are accepted
	cfg.APIKey = firstEnv("ALPACA_API_KEY", "API_KEY_ID", "APCA_API_KEY_ID")
	cfg.SecretKey = firstEnv("ALPACA_SECRET_KEY", "API_SECRET_KEY", "APCA_API_SECRET_KEY")
	cfg.Paper = getEnvAsBool("ALPACA_PAPER", true) // Default to paper trading for safety
	cfg.BaseURL = firstEnv("ALPACA_BASE_URL", "APCA_API_BASE_URL")

	if cfg.APIKey == "" {
		errs = append(errs, "API key is required. Set one of: ALPACA_API_KEY, API_KEY_ID, APCA_API_KEY_ID")
	}
	if cfg.SecretKey == "" {
		errs = append(errs, "secret key is required. Set one of: ALPACA_SECRET_KEY, API_SECRET_KEY, APCA_API_SECRET_KEY")
	}

	cfg.DataFeed = strings.ToLower(getEnv("ALPACA_DATA_FEED", "iex"))
	if cfg.DataFeed != "iex" && cfg.DataFeed != "sip" {
		errs = append(errs, "ALPACA_DATA_FEED must be one of: iex, sip")
	}

	// Logging
	logLevelStr := pick(o.LogLevel, getEnv("LOG_LEVEL", "INFO"))
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", "text"))
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, "LOG_FORMAT must be one of: text, json")
	}

	// Tool responses
	cfg.OutputFormat = strings.ToLower(pick(o.OutputFormat, getEnv("OUTPUT_FORMAT", OutputText)))
	switch cfg.OutputFormat {
	case OutputText, OutputJSON, OutputYAML:
	default:
		errs = append(errs, fmt.Sprintf("OUTPUT_FORMAT must be one of: %s, %s, %s", OutputText, OutputJSON, OutputYAML))
	}

	// Transport
	cfg.Transport = strings.ToLower(pick(o.Transport, getEnv("MCP_TRANSPORT", TransportStdio)))
	if cfg.Transport != TransportStdio && cfg.Transport != TransportHTTP {
		errs = append(errs, fmt.Sprintf("MCP_TRANSPORT must be one of: %s, %s", TransportStdio, TransportHTTP))
	}
	cfg.HTTPAddr = pick(o.HTTPAddr, getEnv("HTTP_ADDR", ":8080"))
	if cfg.Transport == TransportHTTP && cfg.HTTPAddr == "" {
		errs = append(errs, "HTTP_ADDR must be set for the http transport")
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func pick(override, value string) string {
	if override != "" {
		return override
	}
	return value
}
