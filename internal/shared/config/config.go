package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderVertex = "vertex"
	ProviderOpenAI = "openai"

	ParserGreedy   = "greedy"
	ParserBalanced = "balanced"

	defaultMaxUploadBytes = 10 << 20
	defaultLLMTimeout     = 120 * time.Second
)

// ErrMissingCredential is returned by Validate when the selected provider has no credential.
var ErrMissingCredential = errors.New("missing llm credential")

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	LLMProvider     string
	LLMModel        string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	GCPProject      string
	GCPLocation     string
	LLMTimeout      time.Duration
	ResponseParser  string
	MaxUploadBytes  int64
	MaxContextChars int
	SchemaCheck     bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	provider := normalizeProvider(getEnv("LLM_PROVIDER", ProviderGemini))

	return Config{
		Port:            getEnv("PORT", "5000"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "*")),
		LLMProvider:     provider,
		LLMModel:        getEnv("LLM_MODEL", DefaultModel(provider)),
		GeminiAPIKey:    strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		OpenAIAPIKey:    strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		GCPProject:      strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT")),
		GCPLocation:     getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),
		LLMTimeout:      getDurationSeconds("LLM_TIMEOUT_SECONDS", defaultLLMTimeout),
		ResponseParser:  normalizeParser(getEnv("RESPONSE_PARSER", ParserGreedy)),
		MaxUploadBytes:  int64(getInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
		MaxContextChars: getInt("MAX_CONTEXT_CHARS", 0),
		SchemaCheck:     getBool("ANALYSIS_SCHEMA_CHECK", true),
	}
}

// Validate reports configuration that must stop the process from starting.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is required for provider %s", ErrMissingCredential, c.LLMProvider)
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is required for provider %s", ErrMissingCredential, c.LLMProvider)
		}
	case ProviderVertex:
		if c.GCPProject == "" {
			return fmt.Errorf("%w: GOOGLE_CLOUD_PROJECT is required for provider %s", ErrMissingCredential, c.LLMProvider)
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
	}
	if strings.TrimSpace(c.LLMModel) == "" {
		return errors.New("LLM_MODEL is required")
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func getBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return parsed
}

func getDurationSeconds(key string, def time.Duration) time.Duration {
	secs := getInt(key, 0)
	if secs <= 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func normalizeParser(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ParserBalanced:
		return ParserBalanced
	default:
		return ParserGreedy
	}
}

// DefaultModel returns the model used for provider when LLM_MODEL is unset.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	default:
		return "gemini-1.5-flash"
	}
}
