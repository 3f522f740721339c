package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqConfig defines configuration options for the Groq backend.
type GroqConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// GroqClient implements Client against Groq's OpenAI-compatible chat API.
// Groq offers no JSON response mode, so replies go through the best-effort
// plain-text fallback in ParseResponse.
type GroqClient struct {
	client *openai.Client
	model  string
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewGroqClient builds a Groq client from the provided configuration.
func NewGroqClient(cfg GroqConfig) (*GroqClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq: %w", ErrMissingCredential)
	}

	if cfg.Model == "" {
		cfg.Model = "llama3-70b-8192"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGroqBaseURL
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL
	if cfg.HTTPClient != nil {
		config.HTTPClient = cfg.HTTPClient
	}

	return &GroqClient{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
		tracer: otel.Tracer("github.com/sreedhar1227/llm-interview-api/pkg/llm/groq"),
		logger: cfg.Logger.With().Str("component", "llm_groq").Logger(),
	}, nil
}

// Name returns the provider tag.
func (c *GroqClient) Name() string {
	return ProviderGroq
}

// Complete sends the conversation history to Groq and returns the trimmed raw
// reply.
func (c *GroqClient) Complete(parent context.Context, history []Message, maxTokens int) (string, error) {
	ctx, span := c.tracer.Start(parent, "groq.complete", trace.WithAttributes(
		attribute.String("model", c.model),
		attribute.Int("max_tokens", maxTokens),
	))
	defer span.End()

	request := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: Temperature,
		Messages:    toChatMessages(history),
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, request)
	observeRequest(ProviderGroq, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &BackendError{Provider: ProviderGroq, Err: err}
	}

	if len(resp.Choices) == 0 {
		span.SetStatus(codes.Error, "no choices returned")
		return "", fmt.Errorf("groq: %w", ErrEmptyResponse)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Generate runs one dialogue turn and normalizes the reply.
func (c *GroqClient) Generate(ctx context.Context, history []Message, maxTokens int) (Response, error) {
	raw, err := c.Complete(ctx, history, maxTokens)
	if err != nil {
		return Response{}, err
	}
	return ParseResponse(raw)
}
