package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultClaudeEndpoint = "https://api.anthropic.com/v1"
	anthropicVersion      = "2023-06-01"
)

// ClaudeConfig defines configuration options for the Anthropic backend.
type ClaudeConfig struct {
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// ClaudeClient implements Client against Anthropic's messages API. The system
// instruction is extracted from the history and sent through the dedicated
// system field; the messages array carries only user and assistant turns.
type ClaudeClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	tracer     trace.Tracer
	logger     zerolog.Logger
}

// NewClaudeClient builds an Anthropic client from the provided configuration.
func NewClaudeClient(cfg ClaudeConfig) (*ClaudeClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("claude: %w", ErrMissingCredential)
	}

	if cfg.Model == "" {
		cfg.Model = "claude-3-haiku-20240307"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultClaudeEndpoint
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}

	return &ClaudeClient{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		httpClient: cfg.HTTPClient,
		tracer:     otel.Tracer("github.com/sreedhar1227/llm-interview-api/pkg/llm/claude"),
		logger:     cfg.Logger.With().Str("component", "llm_claude").Logger(),
	}, nil
}

// Name returns the provider tag.
func (c *ClaudeClient) Name() string {
	return ProviderClaude
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the conversation history to Anthropic and returns the
// trimmed raw reply.
func (c *ClaudeClient) Complete(parent context.Context, history []Message, maxTokens int) (string, error) {
	ctx, span := c.tracer.Start(parent, "claude.complete", trace.WithAttributes(
		attribute.String("model", c.model),
		attribute.Int("max_tokens", maxTokens),
	))
	defer span.End()

	var system string
	messages := make([]claudeMessage, 0, len(history))
	for _, m := range history {
		if m.Role == RoleSystem {
			if system == "" {
				system = m.Content
			}
			continue
		}
		messages = append(messages, claudeMessage{Role: string(m.Role), Content: m.Content})
	}

	// The messages API rejects an empty array.
	if len(messages) == 0 {
		messages = append(messages, claudeMessage{Role: string(RoleUser), Content: "Start the interview"})
	}

	payload := claudeRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: Temperature,
		System:      system,
		Messages:    messages,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &BackendError{Provider: ProviderClaude, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", &BackendError{Provider: ProviderClaude, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	observeRequest(ProviderClaude, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &BackendError{Provider: ProviderClaude, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &BackendError{Provider: ProviderClaude, Err: err}
	}

	var parsed claudeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", &BackendError{Provider: ProviderClaude, Err: fmt.Errorf("status %d: %s", resp.StatusCode, raw)}
		}
		return "", &BackendError{Provider: ProviderClaude, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		message := string(raw)
		if parsed.Error != nil {
			message = parsed.Error.Message
		}
		err := fmt.Errorf("status %d: %s", resp.StatusCode, message)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &BackendError{Provider: ProviderClaude, Err: err}
	}

	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("claude: %w", ErrEmptyResponse)
	}

	return strings.TrimSpace(parsed.Content[0].Text), nil
}

// Generate runs one dialogue turn and normalizes the reply.
func (c *ClaudeClient) Generate(ctx context.Context, history []Message, maxTokens int) (Response, error) {
	raw, err := c.Complete(ctx, history, maxTokens)
	if err != nil {
		return Response{}, err
	}
	return ParseResponse(raw)
}
