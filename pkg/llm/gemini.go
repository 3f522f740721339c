package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// GeminiConfig defines configuration options for the Gemini backend.
type GeminiConfig struct {
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// GeminiClient implements Client against Google's generateContent API.
// Gemini takes a single prompt with no discrete system-role slot: system and
// user contents are flattened into the request parts and assistant turns are
// dropped.
type GeminiClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	tracer     trace.Tracer
	logger     zerolog.Logger
}

// NewGeminiClient builds a Gemini client from the provided configuration.
func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingCredential)
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultGeminiEndpoint
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}

	return &GeminiClient{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		httpClient: cfg.HTTPClient,
		tracer:     otel.Tracer("github.com/sreedhar1227/llm-interview-api/pkg/llm/gemini"),
		logger:     cfg.Logger.With().Str("component", "llm_gemini").Logger(),
	}, nil
}

// Name returns the provider tag.
func (c *GeminiClient) Name() string {
	return ProviderGemini
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Complete sends the flattened prompt to Gemini and returns the trimmed raw
// reply.
func (c *GeminiClient) Complete(parent context.Context, history []Message, maxTokens int) (string, error) {
	ctx, span := c.tracer.Start(parent, "gemini.complete", trace.WithAttributes(
		attribute.String("model", c.model),
		attribute.Int("max_tokens", maxTokens),
	))
	defer span.End()

	parts := make([]geminiPart, 0, len(history))
	for _, m := range history {
		if m.Role == RoleSystem || m.Role == RoleUser {
			parts = append(parts, geminiPart{Text: m.Content})
		}
	}

	payload := geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     Temperature,
			MaxOutputTokens: maxTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &BackendError{Provider: ProviderGemini, Err: err}
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &BackendError{Provider: ProviderGemini, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	observeRequest(ProviderGemini, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &BackendError{Provider: ProviderGemini, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &BackendError{Provider: ProviderGemini, Err: err}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", &BackendError{Provider: ProviderGemini, Err: fmt.Errorf("status %d: %s", resp.StatusCode, raw)}
		}
		return "", &BackendError{Provider: ProviderGemini, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		message := string(raw)
		if parsed.Error != nil {
			message = parsed.Error.Message
		}
		err := fmt.Errorf("status %d: %s", resp.StatusCode, message)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &BackendError{Provider: ProviderGemini, Err: err}
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}

// Generate runs one dialogue turn and normalizes the reply.
func (c *GeminiClient) Generate(ctx context.Context, history []Message, maxTokens int) (Response, error) {
	raw, err := c.Complete(ctx, history, maxTokens)
	if err != nil {
		return Response{}, err
	}
	return ParseResponse(raw)
}
