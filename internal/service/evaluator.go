package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sreedhar1227/llm-interview-api/internal/prompt"
	"github.com/sreedhar1227/llm-interview-api/pkg/llm"
)

// FallbackScore is assigned when an answer cannot be graded. An evaluation
// failure must never abort the interview.
const FallbackScore = 50

// Evaluation is the graded outcome of one answer.
type Evaluation struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// AnswerEvaluator grades one answer against the interview context.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, client llm.Client, question, answer, interviewContext string) Evaluation
}

// NewAnswerEvaluator constructs the default evaluator.
func NewAnswerEvaluator(logger zerolog.Logger) AnswerEvaluator {
	return &answerEvaluator{
		logger: logger.With().Str("component", "answer_evaluator").Logger(),
	}
}

type answerEvaluator struct {
	logger zerolog.Logger
}

func (e *answerEvaluator) Evaluate(ctx context.Context, client llm.Client, question, answer, interviewContext string) Evaluation {
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: prompt.Evaluation(question, answer, interviewContext)},
		{Role: llm.RoleUser, Content: "Evaluate the answer."},
	}

	raw, err := client.Complete(ctx, history, llm.EvaluationMaxTokens)
	if err != nil {
		e.logger.Warn().Err(err).Str("provider", client.Name()).Msg("evaluation request failed")
		return fallbackEvaluation(err)
	}

	// Score is a pointer so a grader reply that omits it can be told apart
	// from an explicit zero. An absent score falls back to the neutral 50.
	var decoded struct {
		Score    *int   `json:"score"`
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &decoded); err != nil {
		e.logger.Warn().Err(err).Str("provider", client.Name()).Msg("evaluation output not valid JSON")
		return fallbackEvaluation(fmt.Errorf("invalid evaluation output: %w", err))
	}

	result := Evaluation{Score: FallbackScore, Feedback: decoded.Feedback}
	if decoded.Score != nil {
		result.Score = *decoded.Score
	}

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}
	if strings.TrimSpace(result.Feedback) == "" {
		result.Feedback = "No feedback provided."
	}
	return result
}

func fallbackEvaluation(err error) Evaluation {
	return Evaluation{
		Score:    FallbackScore,
		Feedback: fmt.Sprintf("Evaluation failed: %v", err),
	}
}
