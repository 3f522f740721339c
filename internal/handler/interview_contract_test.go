package handler_test

import (
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/sreedhar1227/llm-interview-api/internal/dto"
	"github.com/sreedhar1227/llm-interview-api/internal/session"
	"github.com/sreedhar1227/llm-interview-api/pkg/llm"
)

// interviewStepSchema pins the wire shape of an interview step response.
// Clients replay the state blob verbatim, so renaming any of these fields is
// a breaking change.
const interviewStepSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["success", "message", "data"],
  "properties": {
    "success": {"type": "boolean"},
    "message": {"type": "string"},
    "data": {
      "type": "object",
      "required": ["session_id", "type", "content"],
      "properties": {
        "session_id": {"type": "string", "minLength": 1},
        "type": {"enum": ["question", "conclusion"]},
        "content": {"type": "string", "minLength": 1},
        "state": {
          "type": "object",
          "required": ["mode", "provider", "messages", "question_count"],
          "properties": {
            "mode": {"enum": ["lecture", "custom"]},
            "provider": {"enum": ["openai", "groq", "gemini", "claude"]},
            "messages": {
              "type": "array",
              "items": {
                "type": "object",
                "required": ["role", "content"],
                "properties": {
                  "role": {"enum": ["system", "user", "assistant"]},
                  "content": {"type": "string"}
                }
              }
            },
            "question_count": {"type": "integer", "minimum": 1, "maximum": 10}
          }
        },
        "total_percentage": {"type": "number", "minimum": 0, "maximum": 100},
        "rating": {"enum": ["Excellent", "Very Good", "Good", "Need to Improve", "N/A"]},
        "scores": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["question", "answer", "score", "feedback"],
            "properties": {
              "question": {"type": "string"},
              "answer": {"type": "string"},
              "score": {"type": "integer", "minimum": 0, "maximum": 100},
              "feedback": {"type": "string"}
            }
          }
        },
        "completed": {"type": "boolean"}
      }
    }
  }
}`

func validateEnvelope(t *testing.T, payload []byte) {
	t.Helper()
	schema, err := jsonschema.CompileString("interview_step.schema.json", interviewStepSchema)
	require.NoError(t, err)

	var document interface{}
	require.NoError(t, json.Unmarshal(payload, &document))
	require.NoError(t, schema.Validate(document))
}

func TestInterviewQuestionEnvelopeContract(t *testing.T) {
	state := session.Session{
		Mode:          session.ModeCustom,
		Provider:      llm.ProviderOpenAI,
		QuestionCount: 2,
		Turns: []session.Turn{
			{Role: llm.RoleSystem, Content: "instructions"},
			{Role: llm.RoleUser, Content: "Start the interview"},
			{Role: llm.RoleAssistant, Content: `{"type":"question","content":"Q2"}`},
		},
	}
	svc := &mockInterviewService{response: dto.InterviewResponse{
		SessionID: "sess-1",
		Type:      llm.TypeQuestion,
		Content:   "Q2",
		State:     &state,
	}}
	app := newInterviewApp(svc)

	resp := postJSON(t, app, "/api/v1/interviews/answer", dto.SubmitAnswerRequest{SessionID: "sess-1", Answer: "a"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	var buf json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&buf))
	validateEnvelope(t, buf)
}

func TestInterviewConclusionEnvelopeContract(t *testing.T) {
	total := 70.0
	completed := true
	svc := &mockInterviewService{response: dto.InterviewResponse{
		SessionID:       "sess-1",
		Type:            llm.TypeConclusion,
		Content:         "The interview is complete.",
		TotalPercentage: &total,
		Rating:          string(session.RatingGood),
		Scores: []session.ScoredAnswer{
			{Question: "Q1", Answer: "A1", Score: 80, Feedback: "Good"},
			{Question: "Q2", Answer: "A2", Score: 60, Feedback: "Partial"},
		},
		Completed: &completed,
	}}
	app := newInterviewApp(svc)

	resp := postJSON(t, app, "/api/v1/interviews/answer", dto.SubmitAnswerRequest{SessionID: "sess-1", Answer: "a"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	var buf json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&buf))
	validateEnvelope(t, buf)
}
