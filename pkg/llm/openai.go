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

// OpenAIConfig defines configuration options for the OpenAI backend.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// OpenAIClient implements Client against the OpenAI chat completion API using
// the native JSON-object response mode.
type OpenAIClient struct {
	client *openai.Client
	model  string
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIClient builds an OpenAI client from the provided configuration.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingCredential)
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4.1-nano"
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.HTTPClient != nil {
		config.HTTPClient = cfg.HTTPClient
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
		tracer: otel.Tracer("github.com/sreedhar1227/llm-interview-api/pkg/llm/openai"),
		logger: cfg.Logger.With().Str("component", "llm_openai").Logger(),
	}, nil
}

// Name returns the provider tag.
func (c *OpenAIClient) Name() string {
	return ProviderOpenAI
}

// Complete sends the conversation history to OpenAI and returns the trimmed
// raw reply.
func (c *OpenAIClient) Complete(parent context.Context, history []Message, maxTokens int) (string, error) {
	ctx, span := c.tracer.Start(parent, "openai.complete", trace.WithAttributes(
		attribute.String("model", c.model),
		attribute.Int("max_tokens", maxTokens),
	))
	defer span.End()

	request := openai.ChatCompletionRequest{
		Model:          c.model,
		MaxTokens:      maxTokens,
		Temperature:    Temperature,
		Messages:       toChatMessages(history),
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, request)
	observeRequest(ProviderOpenAI, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &BackendError{Provider: ProviderOpenAI, Err: err}
	}

	if len(resp.Choices) == 0 {
		span.SetStatus(codes.Error, "no choices returned")
		return "", fmt.Errorf("openai: %w", ErrEmptyResponse)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Generate runs one dialogue turn and normalizes the reply.
func (c *OpenAIClient) Generate(ctx context.Context, history []Message, maxTokens int) (Response, error) {
	raw, err := c.Complete(ctx, history, maxTokens)
	if err != nil {
		return Response{}, err
	}
	return ParseResponse(raw)
}

func toChatMessages(history []Message) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return messages
}
