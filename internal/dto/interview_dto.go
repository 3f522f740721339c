package dto

import (
	"github.com/sreedhar1227/llm-interview-api/internal/session"
)

// StartInterviewRequest opens a new interview session.
type StartInterviewRequest struct {
	Mode       string              `json:"mode" validate:"required,oneof=lecture custom"`
	Provider   string              `json:"provider" validate:"required,oneof=openai groq gemini claude"`
	LectureIDs []int64             `json:"lecture_ids" validate:"required_if=Mode lecture,omitempty,min=1,dive,gt=0"`
	CustomInfo *session.CustomInfo `json:"custom_info"`
}

// SubmitAnswerRequest carries one answer together with the session state the
// caller got back from the previous step.
type SubmitAnswerRequest struct {
	SessionID string          `json:"session_id" validate:"required"`
	Answer    string          `json:"answer" validate:"required,min=1"`
	State     session.Session `json:"state" validate:"required"`
}

// EndInterviewRequest closes an interview before its natural conclusion.
type EndInterviewRequest struct {
	SessionID string          `json:"session_id" validate:"required"`
	State     session.Session `json:"state" validate:"required"`
}

// InterviewResponse is the outcome of one interview step. State is echoed
// back so the next request can carry it; conclusion fields are set only when
// the interview is over.
type InterviewResponse struct {
	SessionID       string                 `json:"session_id"`
	Type            string                 `json:"type"`
	Content         string                 `json:"content"`
	State           *session.Session       `json:"state,omitempty"`
	TotalPercentage *float64               `json:"total_percentage,omitempty"`
	Rating          string                 `json:"rating,omitempty"`
	Scores          []session.ScoredAnswer `json:"scores,omitempty"`
	Completed       *bool                  `json:"completed,omitempty"`
}

// TranscriptResponse lists one transcript with its leading excerpt.
type TranscriptResponse struct {
	LectureID int64  `json:"lecture_id"`
	VideoID   string `json:"video_id,omitempty"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
}
