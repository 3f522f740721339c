package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sreedhar1227/llm-interview-api/internal/models"
)

func TestTranscriptServiceListSummarizes(t *testing.T) {
	repo := &stubTranscriptRepo{transcripts: []models.Transcript{
		{LectureID: 1, VideoID: "vid-1", Title: "Joins", Body: "Joins combine rows from two tables."},
		{LectureID: 2, Title: "Empty"},
	}}
	svc := NewTranscriptService(repo, nil, time.Minute, zerolog.Nop())

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, int64(1), items[0].LectureID)
	require.Equal(t, "Joins combine rows from two tables.", items[0].Summary)
	require.Equal(t, "No transcript available", items[1].Summary)
}

func TestTranscriptServiceListUsesCache(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	repo := &stubTranscriptRepo{transcripts: []models.Transcript{{LectureID: 1, Title: "First", Body: "body"}}}
	svc := NewTranscriptService(repo, client, time.Minute, zerolog.Nop())

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.True(t, server.Exists(transcriptCacheKey))

	// Repo changes must not be visible while the cache entry lives.
	repo.transcripts = append(repo.transcripts, models.Transcript{LectureID: 2, Title: "Second"})

	second, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, "First", second[0].Title)

	server.FastForward(2 * time.Minute)

	third, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, third, 2)
}
