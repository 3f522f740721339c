package models

import "time"

const transcriptSummaryLength = 100

// Transcript holds one lecture transcript. Legacy imports carry either a
// numeric lecture id or a string video id, so lookups match both.
type Transcript struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LectureID int64     `gorm:"uniqueIndex;not null" json:"lecture_id"`
	VideoID   string    `gorm:"size:64;index" json:"video_id"`
	Title     string    `gorm:"size:255" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary returns the leading excerpt used in transcript listings.
func (t Transcript) Summary() string {
	if t.Body == "" {
		return "No transcript available"
	}
	runes := []rune(t.Body)
	if len(runes) <= transcriptSummaryLength {
		return t.Body
	}
	return string(runes[:transcriptSummaryLength]) + "..."
}
