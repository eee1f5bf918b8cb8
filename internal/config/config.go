package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the SheetGPT server.
type Config struct {
	Port      int
	Version   string
	DataDir   string
	OpenAI    OpenAIConfig
	Telemetry TelemetryConfig
}

// OpenAIConfig configures the upstream chat-completion endpoint.
type OpenAIConfig struct {
	// Endpoint is the API base URL, without the /chat/completions suffix.
	Endpoint string
	// APIKey, when set, seeds the settings store on startup. Normally the
	// credential is managed through the admin API instead.
	APIKey string
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envInt("SHEETGPT_PORT", 8080),
		Version: envStr("SHEETGPT_VERSION", "0.2.0"),
		DataDir: envStr("SHEETGPT_DATA_DIR", ""),
		OpenAI: OpenAIConfig{
			Endpoint: envStr("SHEETGPT_OPENAI_ENDPOINT", "https://api.openai.com/v1"),
			APIKey:   envStr("SHEETGPT_OPENAI_API_KEY", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      envBool("OTEL_ENABLED", false),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "sheetgpt"),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
