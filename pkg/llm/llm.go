package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Provider names accepted by the factory.
const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
)

// Response types the interviewer contract allows.
const (
	TypeQuestion   = "question"
	TypeConclusion = "conclusion"
)

// Temperature is fixed for every dialogue and evaluation call.
const Temperature = 0.7

// Token caps per call kind.
const (
	DialogueMaxTokens   = 1000
	EvaluationMaxTokens = 200
)

// Role identifies the author of a conversation message.
type Role string

// Conversation roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation history sent to a backend.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Response is the normalized reply every backend is reduced to.
type Response struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Client is the uniform capability interface over the text-generation backends.
// Complete returns the trimmed raw completion text; Generate additionally
// applies the question/conclusion contract via ParseResponse.
type Client interface {
	Name() string
	Complete(ctx context.Context, history []Message, maxTokens int) (string, error)
	Generate(ctx context.Context, history []Message, maxTokens int) (Response, error)
}

var (
	llmDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "interview",
		Subsystem: "llm",
		Name:      "request_duration_seconds",
		Help:      "Duration of text-generation backend requests",
	}, []string{"provider"})

	llmFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview",
		Subsystem: "llm",
		Name:      "request_failures_total",
		Help:      "Number of failed text-generation backend requests",
	}, []string{"provider"})
)

func observeRequest(provider string, start time.Time, err error) {
	llmDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		llmFailures.WithLabelValues(provider).Inc()
	}
}

// Config carries credentials and tuning for every supported backend.
// Credentials are injected explicitly; the package never reads the
// environment.
type Config struct {
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

	Timeout time.Duration
	Logger  zerolog.Logger
}

// Factory constructs backend clients on demand. Construction is cheap and
// performs no network calls, so a client is built per request.
type Factory struct {
	cfg        Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewFactory builds a client factory from the supplied configuration.
func NewFactory(cfg Config) *Factory {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &Factory{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Client returns the backend implementation for the given provider tag.
// A missing credential fails here, before any network call is made.
func (f *Factory) Client(provider string) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderOpenAI:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:     f.cfg.OpenAIAPIKey,
			Model:      f.cfg.OpenAIModel,
			HTTPClient: f.httpClient,
			Logger:     f.logger,
		})
	case ProviderGroq:
		return NewGroqClient(GroqConfig{
			APIKey:     f.cfg.GroqAPIKey,
			Model:      f.cfg.GroqModel,
			BaseURL:    f.cfg.GroqBaseURL,
			HTTPClient: f.httpClient,
			Logger:     f.logger,
		})
	case ProviderGemini:
		return NewGeminiClient(GeminiConfig{
			APIKey:     f.cfg.GeminiAPIKey,
			Model:      f.cfg.GeminiModel,
			Endpoint:   f.cfg.GeminiEndpoint,
			HTTPClient: f.httpClient,
			Logger:     f.logger,
		})
	case ProviderClaude:
		return NewClaudeClient(ClaudeConfig{
			APIKey:     f.cfg.AnthropicAPIKey,
			Model:      f.cfg.ClaudeModel,
			Endpoint:   f.cfg.ClaudeEndpoint,
			HTTPClient: f.httpClient,
			Logger:     f.logger,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}
