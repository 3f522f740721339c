package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	DatabaseURL string
	RedisURL    string
	NATSURL     string

	OpenAIAPIKey string
	OpenAIModel  string

	GroqAPIKey  string
	GroqModel   string
	GroqBaseURL string

	GeminiAPIKey   string
	GeminiModel    string
	GeminiEndpoint string

	AnthropicAPIKey string
	ClaudeModel     string
	ClaudeEndpoint  string

	LLMTimeout         time.Duration
	TranscriptCacheTTL time.Duration
	EventSubject       string

	RateLimitMax    int
	RateLimitWindow time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an optional
// .env file. Variables are prefixed INTERVIEW_, dots become underscores.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("INTERVIEW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "LLM Interview API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("transcript.cache_ttl", "5m")
	v.SetDefault("event.subject", "interview.concluded")
	v.SetDefault("rate_limit.max", 30)
	v.SetDefault("rate_limit.window", "1m")

	llmTimeout, err := time.ParseDuration(v.GetString("llm.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid llm timeout: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("transcript.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid transcript cache ttl: %w", err)
	}

	rateWindow, err := time.ParseDuration(v.GetString("rate_limit.window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := Config{
		AppName: v.GetString("app.name"),
		AppEnv:  v.GetString("app.env"),
		AppPort: v.GetString("app.port"),

		DatabaseURL: v.GetString("database.url"),
		RedisURL:    v.GetString("redis.url"),
		NATSURL:     v.GetString("nats.url"),

		OpenAIAPIKey: v.GetString("openai.api_key"),
		OpenAIModel:  v.GetString("openai.model"),

		GroqAPIKey:  v.GetString("groq.api_key"),
		GroqModel:   v.GetString("groq.model"),
		GroqBaseURL: v.GetString("groq.base_url"),

		GeminiAPIKey:   v.GetString("gemini.api_key"),
		GeminiModel:    v.GetString("gemini.model"),
		GeminiEndpoint: v.GetString("gemini.endpoint"),

		AnthropicAPIKey: v.GetString("anthropic.api_key"),
		ClaudeModel:     v.GetString("claude.model"),
		ClaudeEndpoint:  v.GetString("claude.endpoint"),

		LLMTimeout:         llmTimeout,
		TranscriptCacheTTL: cacheTTL,
		EventSubject:       v.GetString("event.subject"),

		RateLimitMax:    v.GetInt("rate_limit.max"),
		RateLimitWindow: rateWindow,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	return cfg, nil
}
