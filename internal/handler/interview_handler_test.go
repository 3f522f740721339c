package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sreedhar1227/llm-interview-api/internal/dto"
	"github.com/sreedhar1227/llm-interview-api/internal/handler"
	"github.com/sreedhar1227/llm-interview-api/internal/service"
	"github.com/sreedhar1227/llm-interview-api/internal/session"
	"github.com/sreedhar1227/llm-interview-api/pkg/llm"
)

type mockInterviewService struct {
	response   dto.InterviewResponse
	err        error
	lastStart  dto.StartInterviewRequest
	lastSubmit dto.SubmitAnswerRequest
	lastEnd    dto.EndInterviewRequest
}

func (m *mockInterviewService) Start(_ context.Context, payload dto.StartInterviewRequest) (dto.InterviewResponse, error) {
	m.lastStart = payload
	if m.err != nil {
		return dto.InterviewResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockInterviewService) Submit(_ context.Context, payload dto.SubmitAnswerRequest) (dto.InterviewResponse, error) {
	m.lastSubmit = payload
	if m.err != nil {
		return dto.InterviewResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockInterviewService) End(_ context.Context, payload dto.EndInterviewRequest) (dto.InterviewResponse, error) {
	m.lastEnd = payload
	if m.err != nil {
		return dto.InterviewResponse{}, m.err
	}
	return m.response, nil
}

func newInterviewApp(svc service.InterviewService) *fiber.App {
	app := fiber.New()
	handler.NewInterviewHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/interviews"))
	return app
}

func postJSON(t *testing.T, app *fiber.App, target string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestInterviewHandler_StartSuccess(t *testing.T) {
	state := session.Session{Mode: session.ModeCustom, Provider: llm.ProviderOpenAI, QuestionCount: 1}
	svc := &mockInterviewService{response: dto.InterviewResponse{
		SessionID: "sess-1",
		Type:      llm.TypeQuestion,
		Content:   "What is indexing?",
		State:     &state,
	}}
	app := newInterviewApp(svc)

	resp := postJSON(t, app, "/api/v1/interviews/start", dto.StartInterviewRequest{
		Mode:       session.ModeCustom,
		Provider:   llm.ProviderOpenAI,
		CustomInfo: &session.CustomInfo{Topic: "SQL"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                  `json:"success"`
		Data    dto.InterviewResponse `json:"data"`
		Message string                `json:"message"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Equal(t, "interview started", response.Message)
	require.Equal(t, "sess-1", response.Data.SessionID)
	require.Equal(t, llm.TypeQuestion, response.Data.Type)
	require.NotNil(t, response.Data.State)
	require.Equal(t, session.ModeCustom, svc.lastStart.Mode)
}

func TestInterviewHandler_StartInvalidBody(t *testing.T) {
	svc := &mockInterviewService{}
	app := newInterviewApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interviews/start", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestInterviewHandler_StartUnknownProvider(t *testing.T) {
	svc := &mockInterviewService{err: fmt.Errorf("%w: %q", llm.ErrUnknownProvider, "cohere")}
	app := newInterviewApp(svc)

	resp := postJSON(t, app, "/api/v1/interviews/start", dto.StartInterviewRequest{Mode: session.ModeCustom, Provider: "cohere"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestInterviewHandler_StartTranscriptsNotFound(t *testing.T) {
	svc := &mockInterviewService{err: service.ErrTranscriptsNotFound}
	app := newInterviewApp(svc)

	resp := postJSON(t, app, "/api/v1/interviews/start", dto.StartInterviewRequest{
		Mode:       session.ModeLecture,
		Provider:   llm.ProviderOpenAI,
		LectureIDs: []int64{404},
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestInterviewHandler_BackendFailureIsInternal(t *testing.T) {
	svc := &mockInterviewService{err: &llm.BackendError{Provider: "openai", Err: fmt.Errorf("status 503")}}
	app := newInterviewApp(svc)

	resp := postJSON(t, app, "/api/v1/interviews/answer", dto.SubmitAnswerRequest{SessionID: "s", Answer: "a"})
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &response)
	require.False(t, response.Success)
	require.Equal(t, "interview step failed", response.Message, "internal detail must not leak")
}

func TestInterviewHandler_MissingCredentialIsInternal(t *testing.T) {
	svc := &mockInterviewService{err: fmt.Errorf("%w: openai", llm.ErrMissingCredential)}
	app := newInterviewApp(svc)

	resp := postJSON(t, app, "/api/v1/interviews/start", dto.StartInterviewRequest{Mode: session.ModeCustom, Provider: llm.ProviderOpenAI})
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestInterviewHandler_CorruptedStateIsInternal(t *testing.T) {
	svc := &mockInterviewService{err: fmt.Errorf("%w: empty history", session.ErrStateCorruption)}
	app := newInterviewApp(svc)

	resp := postJSON(t, app, "/api/v1/interviews/answer", dto.SubmitAnswerRequest{SessionID: "s", Answer: "a"})
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestInterviewHandler_EndSuccess(t *testing.T) {
	completed := false
	zero := 0.0
	svc := &mockInterviewService{response: dto.InterviewResponse{
		SessionID:       "sess-1",
		Type:            llm.TypeConclusion,
		Content:         "You ended the interview without answering any questions.",
		TotalPercentage: &zero,
		Rating:          string(session.RatingNone),
		Completed:       &completed,
	}}
	app := newInterviewApp(svc)

	resp := postJSON(t, app, "/api/v1/interviews/end", dto.EndInterviewRequest{SessionID: "sess-1"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.InterviewResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, string(session.RatingNone), response.Data.Rating)
	require.NotNil(t, response.Data.TotalPercentage)
	require.Zero(t, *response.Data.TotalPercentage)
}
