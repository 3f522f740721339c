package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sreedhar1227/llm-interview-api/internal/models"
)

// InterviewRepository is the persistence gateway for conversation logs,
// questions and answers. Every write completes or fails before the issuing
// interview step returns.
type InterviewRepository interface {
	InsertConversationLog(ctx context.Context, log string) (uint, error)
	UpdateConversationLog(ctx context.Context, id uint, log string) error
	ConcludeConversationLog(ctx context.Context, id uint, log string, percentage float64, rating string, scores datatypes.JSON) error
	InsertQuestion(ctx context.Context, text string) error
	InsertUserResponse(ctx context.Context, text string, score *int) error
}

// NewInterviewRepository constructs a gorm-backed interview repository.
func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

type interviewRepository struct {
	db *gorm.DB
}

func (r *interviewRepository) InsertConversationLog(ctx context.Context, log string) (uint, error) {
	record := models.ConversationLog{Log: log}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return 0, err
	}
	return record.ID, nil
}

func (r *interviewRepository) UpdateConversationLog(ctx context.Context, id uint, log string) error {
	return r.db.WithContext(ctx).
		Model(&models.ConversationLog{}).
		Where("id = ?", id).
		Update("log", log).Error
}

func (r *interviewRepository) ConcludeConversationLog(ctx context.Context, id uint, log string, percentage float64, rating string, scores datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&models.ConversationLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"log":              log,
			"total_percentage": percentage,
			"rating":           rating,
			"scores":           scores,
		}).Error
}

func (r *interviewRepository) InsertQuestion(ctx context.Context, text string) error {
	return r.db.WithContext(ctx).Create(&models.InterviewQuestion{QuestionText: text}).Error
}

func (r *interviewRepository) InsertUserResponse(ctx context.Context, text string, score *int) error {
	return r.db.WithContext(ctx).Create(&models.UserResponse{ResponseText: text, Score: score}).Error
}
