package repository

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"github.com/sreedhar1227/llm-interview-api/internal/models"
)

// TranscriptRepository reads lecture transcripts.
type TranscriptRepository interface {
	// Resolve returns transcripts whose lecture id matches any of the given
	// ids, or whose video id matches the string form of one. Legacy rows were
	// keyed by video id only, so both columns are consulted.
	Resolve(ctx context.Context, ids []int64) ([]models.Transcript, error)
	List(ctx context.Context) ([]models.Transcript, error)
}

// NewTranscriptRepository constructs a gorm-backed transcript repository.
func NewTranscriptRepository(db *gorm.DB) TranscriptRepository {
	return &transcriptRepository{db: db}
}

type transcriptRepository struct {
	db *gorm.DB
}

func (r *transcriptRepository) Resolve(ctx context.Context, ids []int64) ([]models.Transcript, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	videoIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		videoIDs = append(videoIDs, strconv.FormatInt(id, 10))
	}

	var transcripts []models.Transcript
	err := r.db.WithContext(ctx).
		Where("lecture_id IN ? OR video_id IN ?", ids, videoIDs).
		Order("lecture_id asc").
		Find(&transcripts).Error
	if err != nil {
		return nil, err
	}
	return transcripts, nil
}

func (r *transcriptRepository) List(ctx context.Context) ([]models.Transcript, error) {
	var transcripts []models.Transcript
	err := r.db.WithContext(ctx).
		Order("lecture_id asc").
		Find(&transcripts).Error
	if err != nil {
		return nil, err
	}
	return transcripts, nil
}
