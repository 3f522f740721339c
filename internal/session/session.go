package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sreedhar1227/llm-interview-api/pkg/llm"
)

// MaxQuestions is the fixed interview length after which a conclusion is
// forced without a further dialogue call.
const MaxQuestions = 10

// Interview modes.
const (
	ModeLecture = "lecture"
	ModeCustom  = "custom"
)

// ErrStateCorruption indicates the caller-supplied session is internally
// inconsistent and cannot be advanced.
var ErrStateCorruption = errors.New("session state is inconsistent")

// CustomInfo parameterizes a custom-topic interview.
type CustomInfo struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Experience string `json:"experience"`
	Tone       string `json:"tone"`
}

// Turn is one message of the dialogue history. Assistant turns store the
// serialized normalized provider response so the current question can be
// recovered on the next request.
type Turn struct {
	Role    llm.Role `json:"role"`
	Content string   `json:"content"`
}

// ScoredAnswer records the evaluation of one answer. Entries are appended in
// answer order and never mutated afterwards.
type ScoredAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Session is the full interview state. It round-trips through the caller on
// every request; the server keeps no copy between calls.
type Session struct {
	Mode            string         `json:"mode"`
	Provider        string         `json:"provider"`
	Context         string         `json:"context"`
	CustomInfo      *CustomInfo    `json:"custom_info,omitempty"`
	Turns           []Turn         `json:"messages"`
	QuestionCount   int            `json:"question_count"`
	OffTopicCount   int            `json:"off_topic_count"`
	Scores          []ScoredAnswer `json:"scores"`
	ConversationLog string         `json:"conversation_log"`
	LogID           uint           `json:"log_id"`
}

// Validate checks the structural invariants an in-flight session must hold.
func (s *Session) Validate() error {
	if len(s.Turns) == 0 {
		return fmt.Errorf("%w: empty history", ErrStateCorruption)
	}
	if s.Turns[0].Role != llm.RoleSystem {
		return fmt.Errorf("%w: history must open with the system instruction", ErrStateCorruption)
	}
	if s.Provider == "" {
		return fmt.Errorf("%w: provider missing", ErrStateCorruption)
	}
	if s.QuestionCount < 1 || s.QuestionCount > MaxQuestions {
		return fmt.Errorf("%w: question count %d out of range", ErrStateCorruption, s.QuestionCount)
	}
	return nil
}

// AppendSystem appends the opening system instruction.
func (s *Session) AppendSystem(content string) {
	s.Turns = append(s.Turns, Turn{Role: llm.RoleSystem, Content: content})
}

// AppendUser appends a raw user answer.
func (s *Session) AppendUser(content string) {
	s.Turns = append(s.Turns, Turn{Role: llm.RoleUser, Content: content})
}

// AppendAssistant appends a provider reply, serialized so the question text
// survives the round trip through the caller.
func (s *Session) AppendAssistant(resp llm.Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal assistant turn: %w", err)
	}
	s.Turns = append(s.Turns, Turn{Role: llm.RoleAssistant, Content: string(payload)})
	return nil
}

// Messages converts the history into the provider wire form.
func (s *Session) Messages() []llm.Message {
	messages := make([]llm.Message, 0, len(s.Turns))
	for _, t := range s.Turns {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}
	return messages
}

// CurrentQuestion resolves the question awaiting an answer from the last
// assistant turn.
func (s *Session) CurrentQuestion() (string, error) {
	if len(s.Turns) == 0 {
		return "", fmt.Errorf("%w: empty history", ErrStateCorruption)
	}

	last := s.Turns[len(s.Turns)-1]
	if last.Role != llm.RoleAssistant {
		return "", fmt.Errorf("%w: last turn is not assistant-authored", ErrStateCorruption)
	}

	var resp llm.Response
	if err := json.Unmarshal([]byte(last.Content), &resp); err != nil {
		return "", fmt.Errorf("%w: undecodable assistant turn", ErrStateCorruption)
	}

	return resp.Content, nil
}

// EvaluationContext returns the text the evaluator grades against: the
// resolved transcript in lecture mode, the serialized topic parameters in
// custom mode.
func (s *Session) EvaluationContext() string {
	if s.Mode == ModeCustom && s.CustomInfo != nil {
		payload, err := json.Marshal(s.CustomInfo)
		if err == nil {
			return string(payload)
		}
	}
	return s.Context
}
