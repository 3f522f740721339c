package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sreedhar1227/llm-interview-api/internal/dto"
	"github.com/sreedhar1227/llm-interview-api/internal/repository"
)

const transcriptCacheKey = "transcripts:list"

// TranscriptService lists the transcripts interviews can be based on.
type TranscriptService interface {
	List(ctx context.Context) ([]dto.TranscriptResponse, error)
}

type transcriptService struct {
	transcripts repository.TranscriptRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewTranscriptService builds the transcript listing service. The cache client
// may be nil, in which case every call hits the database.
func NewTranscriptService(transcripts repository.TranscriptRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) TranscriptService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &transcriptService{
		transcripts: transcripts,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "transcript_service").Logger(),
	}
}

func (s *transcriptService) List(ctx context.Context) ([]dto.TranscriptResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, transcriptCacheKey).Result(); err == nil {
			var response []dto.TranscriptResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("transcript list cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read transcript cache")
		}
	}

	transcripts, err := s.transcripts.List(ctx)
	if err != nil {
		return nil, err
	}

	response := make([]dto.TranscriptResponse, 0, len(transcripts))
	for _, transcript := range transcripts {
		response = append(response, dto.TranscriptResponse{
			LectureID: transcript.LectureID,
			VideoID:   transcript.VideoID,
			Title:     transcript.Title,
			Summary:   transcript.Summary(),
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, transcriptCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write transcript cache")
			}
		}
	}

	return response, nil
}
