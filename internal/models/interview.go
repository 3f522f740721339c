package models

import (
	"time"

	"gorm.io/datatypes"
)

// ConversationLog is the running record of one interview. The log text is
// rewritten after every step; percentage, rating and scores are filled when
// the interview concludes.
type ConversationLog struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Log             string         `gorm:"type:text;not null" json:"log"`
	TotalPercentage *float64       `json:"total_percentage"`
	Rating          string         `gorm:"size:32" json:"rating"`
	Scores          datatypes.JSON `json:"scores"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// InterviewQuestion stores every question the interviewer asked.
type InterviewQuestion struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	QuestionText string    `gorm:"type:text;not null" json:"question_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserResponse stores one respondent answer together with its score.
type UserResponse struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ResponseText string    `gorm:"type:text;not null" json:"response_text"`
	Score        *int      `json:"score"`
	CreatedAt    time.Time `json:"created_at"`
}
