package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/sreedhar1227/llm-interview-api/internal/dto"
	"github.com/sreedhar1227/llm-interview-api/internal/observability"
	"github.com/sreedhar1227/llm-interview-api/internal/prompt"
	"github.com/sreedhar1227/llm-interview-api/internal/repository"
	"github.com/sreedhar1227/llm-interview-api/internal/session"
	"github.com/sreedhar1227/llm-interview-api/pkg/llm"
)

// ErrProtocolViolation indicates the dialogue backend returned a payload type
// the current step cannot accept.
var ErrProtocolViolation = errors.New("dialogue backend broke the interview protocol")

// ErrTranscriptsNotFound indicates none of the requested lectures have transcripts.
var ErrTranscriptsNotFound = errors.New("no transcripts found for the requested lectures")

// ErrCustomInfoRequired indicates a custom interview was requested without topic parameters.
var ErrCustomInfoRequired = errors.New("custom_info is required for custom interviews")

// ErrPersistence indicates a database write failed during an interview step.
var ErrPersistence = errors.New("interview persistence failed")

// InterviewConfig carries dialogue tuning knobs.
type InterviewConfig struct {
	// CallTimeout bounds each individual backend call.
	CallTimeout time.Duration
	// EventSubject is the NATS subject concluded interviews are announced on.
	EventSubject string
}

// InterviewService drives interview sessions from first question to conclusion.
type InterviewService interface {
	Start(ctx context.Context, payload dto.StartInterviewRequest) (dto.InterviewResponse, error)
	Submit(ctx context.Context, payload dto.SubmitAnswerRequest) (dto.InterviewResponse, error)
	End(ctx context.Context, payload dto.EndInterviewRequest) (dto.InterviewResponse, error)
}

// ClientFactory resolves a provider tag to its backend client.
type ClientFactory interface {
	Client(provider string) (llm.Client, error)
}

type interviewService struct {
	clients     ClientFactory
	interviews  repository.InterviewRepository
	transcripts repository.TranscriptRepository
	evaluator   AnswerEvaluator
	validator   *validator.Validate
	nats        *nats.Conn
	logger      zerolog.Logger
	tracer      trace.Tracer
	config      InterviewConfig
}

// interviewConcludedEvent is published when an interview reaches a conclusion.
type interviewConcludedEvent struct {
	SessionID       string    `json:"session_id"`
	Provider        string    `json:"provider"`
	Mode            string    `json:"mode"`
	QuestionsAsked  int       `json:"questions_asked"`
	AnswersScored   int       `json:"answers_scored"`
	TotalPercentage float64   `json:"total_percentage"`
	Rating          string    `json:"rating"`
	ConcludedAt     time.Time `json:"concluded_at"`
}

// NewInterviewService constructs the interview dialogue service.
func NewInterviewService(clients ClientFactory, interviews repository.InterviewRepository, transcripts repository.TranscriptRepository, evaluator AnswerEvaluator, validate *validator.Validate, natsConn *nats.Conn, logger zerolog.Logger, cfg InterviewConfig) InterviewService {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 60 * time.Second
	}
	if cfg.EventSubject == "" {
		cfg.EventSubject = "interview.concluded"
	}
	return &interviewService{
		clients:     clients,
		interviews:  interviews,
		transcripts: transcripts,
		evaluator:   evaluator,
		validator:   validate,
		nats:        natsConn,
		logger:      logger.With().Str("component", "interview_service").Logger(),
		tracer:      otel.Tracer("github.com/sreedhar1227/llm-interview-api/internal/service/interview"),
		config:      cfg,
	}
}

func (s *interviewService) Start(ctx context.Context, payload dto.StartInterviewRequest) (dto.InterviewResponse, error) {
	ctx, span := s.tracer.Start(ctx, "interview.start", trace.WithAttributes(
		attribute.String("interview.mode", payload.Mode),
		attribute.String("interview.provider", payload.Provider),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.InterviewResponse{}, err
	}

	client, err := s.clients.Client(payload.Provider)
	if err != nil {
		return dto.InterviewResponse{}, err
	}

	state := session.Session{
		Mode:     payload.Mode,
		Provider: payload.Provider,
	}

	switch state.Mode {
	case session.ModeLecture:
		transcript, err := s.combinedTranscript(ctx, payload.LectureIDs)
		if err != nil {
			return dto.InterviewResponse{}, err
		}
		state.Context = transcript
		state.AppendSystem(prompt.Lecture(transcript))
	case session.ModeCustom:
		if payload.CustomInfo == nil {
			return dto.InterviewResponse{}, ErrCustomInfoRequired
		}
		info := prompt.ApplyDefaults(*payload.CustomInfo)
		state.CustomInfo = &info
		state.Context = prompt.CustomContext(info)
		state.AppendSystem(prompt.Custom(info))
	}

	state.AppendUser("Start the interview")

	first, err := s.generate(ctx, client, state.Messages())
	if err != nil {
		return dto.InterviewResponse{}, err
	}
	if first.Type != llm.TypeQuestion {
		return dto.InterviewResponse{}, fmt.Errorf("%w: expected a question to open the interview, got %q", ErrProtocolViolation, first.Type)
	}

	if err := state.AppendAssistant(first); err != nil {
		return dto.InterviewResponse{}, err
	}
	state.QuestionCount = 1
	state.ConversationLog = fmt.Sprintf("AI: %s\n", first.Content)

	logID, err := s.interviews.InsertConversationLog(ctx, state.ConversationLog)
	if err != nil {
		return dto.InterviewResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	state.LogID = logID
	if err := s.interviews.InsertQuestion(ctx, first.Content); err != nil {
		return dto.InterviewResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	sessionID := uuid.NewString()
	observability.InterviewsStarted().Inc()
	s.logger.Info().
		Str("session_id", sessionID).
		Str("provider", payload.Provider).
		Str("mode", payload.Mode).
		Msg("interview started")

	return dto.InterviewResponse{
		SessionID: sessionID,
		Type:      first.Type,
		Content:   first.Content,
		State:     &state,
	}, nil
}

func (s *interviewService) Submit(ctx context.Context, payload dto.SubmitAnswerRequest) (dto.InterviewResponse, error) {
	ctx, span := s.tracer.Start(ctx, "interview.submit", trace.WithAttributes(
		attribute.String("interview.session_id", payload.SessionID),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.InterviewResponse{}, err
	}
	state := payload.State
	if err := state.Validate(); err != nil {
		return dto.InterviewResponse{}, err
	}

	client, err := s.clients.Client(state.Provider)
	if err != nil {
		return dto.InterviewResponse{}, err
	}

	question, err := state.CurrentQuestion()
	if err != nil {
		return dto.InterviewResponse{}, err
	}

	evalCtx, cancel := context.WithTimeout(ctx, s.config.CallTimeout)
	evaluation := s.evaluator.Evaluate(evalCtx, client, question, payload.Answer, state.EvaluationContext())
	cancel()
	observability.AnswersScored().Inc()

	state.Scores = append(state.Scores, session.ScoredAnswer{
		Question: question,
		Answer:   payload.Answer,
		Score:    evaluation.Score,
		Feedback: evaluation.Feedback,
	})
	state.AppendUser(payload.Answer)
	state.ConversationLog += fmt.Sprintf("User: %s\n", payload.Answer)

	score := evaluation.Score
	if err := s.interviews.InsertUserResponse(ctx, payload.Answer, &score); err != nil {
		return dto.InterviewResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.interviews.UpdateConversationLog(ctx, state.LogID, state.ConversationLog); err != nil {
		return dto.InterviewResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if state.QuestionCount >= session.MaxQuestions {
		content := "The interview is complete. Thank you for participating!\n\n" + scoreSummary(state.Scores)
		return s.conclude(ctx, payload.SessionID, &state, content, true)
	}

	next, err := s.generate(ctx, client, state.Messages())
	if err != nil {
		return dto.InterviewResponse{}, err
	}

	switch next.Type {
	case llm.TypeQuestion:
		if err := state.AppendAssistant(next); err != nil {
			return dto.InterviewResponse{}, err
		}
		state.QuestionCount++
		state.ConversationLog += fmt.Sprintf("AI: %s\n", next.Content)
		if err := s.interviews.InsertQuestion(ctx, next.Content); err != nil {
			return dto.InterviewResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if err := s.interviews.UpdateConversationLog(ctx, state.LogID, state.ConversationLog); err != nil {
			return dto.InterviewResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return dto.InterviewResponse{
			SessionID: payload.SessionID,
			Type:      next.Type,
			Content:   next.Content,
			State:     &state,
		}, nil
	case llm.TypeConclusion:
		content := next.Content + "\n\n" + scoreSummary(state.Scores)
		return s.conclude(ctx, payload.SessionID, &state, content, true)
	default:
		return dto.InterviewResponse{}, fmt.Errorf("%w: unexpected payload type %q", ErrProtocolViolation, next.Type)
	}
}

func (s *interviewService) End(ctx context.Context, payload dto.EndInterviewRequest) (dto.InterviewResponse, error) {
	ctx, span := s.tracer.Start(ctx, "interview.end", trace.WithAttributes(
		attribute.String("interview.session_id", payload.SessionID),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.InterviewResponse{}, err
	}
	state := payload.State
	if err := state.Validate(); err != nil {
		return dto.InterviewResponse{}, err
	}

	if len(state.Scores) == 0 {
		completed := false
		zero := 0.0
		return dto.InterviewResponse{
			SessionID:       payload.SessionID,
			Type:            llm.TypeConclusion,
			Content:         "You ended the interview without answering any questions.",
			TotalPercentage: &zero,
			Rating:          string(session.RatingNone),
			Completed:       &completed,
		}, nil
	}

	content := fmt.Sprintf("You have ended the interview early after answering %d question(s).\n\n%s",
		len(state.Scores), scoreSummary(state.Scores))
	return s.conclude(ctx, payload.SessionID, &state, content, false)
}

// conclude writes the final conversation log row, publishes the concluded
// event and shapes the terminal response. completed distinguishes a natural
// finish from an early end.
func (s *interviewService) conclude(ctx context.Context, sessionID string, state *session.Session, content string, completed bool) (dto.InterviewResponse, error) {
	total, rating := session.Aggregate(state.Scores)

	if err := state.AppendAssistant(llm.Response{Type: llm.TypeConclusion, Content: content}); err != nil {
		return dto.InterviewResponse{}, err
	}
	state.ConversationLog += fmt.Sprintf("AI: %s\n", content)

	scoresJSON, err := json.Marshal(state.Scores)
	if err != nil {
		return dto.InterviewResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.interviews.ConcludeConversationLog(ctx, state.LogID, state.ConversationLog, total, string(rating), datatypes.JSON(scoresJSON)); err != nil {
		return dto.InterviewResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.publishConcluded(sessionID, state, total, rating)
	observability.InterviewsConcluded().WithLabelValues(string(rating)).Inc()

	s.logger.Info().
		Str("session_id", sessionID).
		Float64("total_percentage", total).
		Str("rating", string(rating)).
		Bool("completed", completed).
		Msg("interview concluded")

	return dto.InterviewResponse{
		SessionID:       sessionID,
		Type:            llm.TypeConclusion,
		Content:         content,
		TotalPercentage: &total,
		Rating:          string(rating),
		Scores:          state.Scores,
		Completed:       &completed,
	}, nil
}

func (s *interviewService) publishConcluded(sessionID string, state *session.Session, total float64, rating session.Rating) {
	if s.nats == nil {
		return
	}
	event := interviewConcludedEvent{
		SessionID:       sessionID,
		Provider:        state.Provider,
		Mode:            state.Mode,
		QuestionsAsked:  state.QuestionCount,
		AnswersScored:   len(state.Scores),
		TotalPercentage: total,
		Rating:          string(rating),
		ConcludedAt:     time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode concluded event")
		return
	}
	if err := s.nats.Publish(s.config.EventSubject, data); err != nil {
		s.logger.Warn().Err(err).Str("subject", s.config.EventSubject).Msg("failed to publish concluded event")
	}
}

func (s *interviewService) generate(ctx context.Context, client llm.Client, history []llm.Message) (llm.Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.config.CallTimeout)
	defer cancel()
	return client.Generate(callCtx, history, llm.DialogueMaxTokens)
}

func (s *interviewService) combinedTranscript(ctx context.Context, lectureIDs []int64) (string, error) {
	transcripts, err := s.transcripts.Resolve(ctx, lectureIDs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if len(transcripts) == 0 {
		return "", ErrTranscriptsNotFound
	}
	parts := make([]string, 0, len(transcripts))
	for _, transcript := range transcripts {
		parts = append(parts, transcript.Body)
	}
	return strings.Join(parts, "\n\n"), nil
}

// scoreSummary renders the per-question breakdown appended to every conclusion.
func scoreSummary(scores []session.ScoredAnswer) string {
	total, rating := session.Aggregate(scores)

	var b strings.Builder
	fmt.Fprintf(&b, "Total Score: %.1f%% (Rating: %s)\n", total, rating)
	for i, scored := range scores {
		fmt.Fprintf(&b, "Question %d: %d/100 - %s\n", i+1, scored.Score, scored.Feedback)
	}
	return strings.TrimRight(b.String(), "\n")
}
