package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sreedhar1227/llm-interview-api/internal/models"
	"github.com/sreedhar1227/llm-interview-api/internal/session"
)

func setupInterviewTestDB(t *testing.T, entities ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities...))
	return db
}

func TestInterviewRepositoryInsertAndUpdateConversationLog(t *testing.T) {
	db := setupInterviewTestDB(t, &models.ConversationLog{})
	repo := NewInterviewRepository(db)

	id, err := repo.InsertConversationLog(context.Background(), "AI: What is SQL?\n")
	require.NoError(t, err)
	require.NotZero(t, id)

	require.NoError(t, repo.UpdateConversationLog(context.Background(), id, "AI: What is SQL?\nUser: A query language\n"))

	var stored models.ConversationLog
	require.NoError(t, db.First(&stored, id).Error)
	require.Equal(t, "AI: What is SQL?\nUser: A query language\n", stored.Log)
	require.Nil(t, stored.TotalPercentage)
	require.Empty(t, stored.Rating)
}

func TestInterviewRepositoryConcludeConversationLog(t *testing.T) {
	db := setupInterviewTestDB(t, &models.ConversationLog{})
	repo := NewInterviewRepository(db)

	id, err := repo.InsertConversationLog(context.Background(), "AI: Q1\n")
	require.NoError(t, err)

	answers := []session.ScoredAnswer{
		{Question: "Q1", Answer: "A1", Score: 80, Feedback: "Good"},
		{Question: "Q2", Answer: "A2", Score: 60, Feedback: "Partial"},
	}
	scores, err := json.Marshal(answers)
	require.NoError(t, err)

	require.NoError(t, repo.ConcludeConversationLog(context.Background(), id, "AI: Q1\nUser: A1\nConclusion\n", 70.0, "Good", datatypes.JSON(scores)))

	var stored models.ConversationLog
	require.NoError(t, db.First(&stored, id).Error)
	require.NotNil(t, stored.TotalPercentage)
	require.InDelta(t, 70.0, *stored.TotalPercentage, 0.001)
	require.Equal(t, "Good", stored.Rating)

	var decoded []session.ScoredAnswer
	require.NoError(t, json.Unmarshal(stored.Scores, &decoded))
	require.Equal(t, answers, decoded)
}

func TestInterviewRepositoryConcludeTargetsOnlyGivenRow(t *testing.T) {
	db := setupInterviewTestDB(t, &models.ConversationLog{})
	repo := NewInterviewRepository(db)

	first, err := repo.InsertConversationLog(context.Background(), "first\n")
	require.NoError(t, err)
	second, err := repo.InsertConversationLog(context.Background(), "second\n")
	require.NoError(t, err)

	require.NoError(t, repo.ConcludeConversationLog(context.Background(), first, "first done\n", 90.0, "Excellent", datatypes.JSON(`[90]`)))

	var other models.ConversationLog
	require.NoError(t, db.First(&other, second).Error)
	require.Equal(t, "second\n", other.Log)
	require.Nil(t, other.TotalPercentage)
}

func TestInterviewRepositoryInsertQuestionAndResponse(t *testing.T) {
	db := setupInterviewTestDB(t, &models.InterviewQuestion{}, &models.UserResponse{})
	repo := NewInterviewRepository(db)

	require.NoError(t, repo.InsertQuestion(context.Background(), "What is a primary key?"))

	score := 85
	require.NoError(t, repo.InsertUserResponse(context.Background(), "A unique row identifier", &score))
	require.NoError(t, repo.InsertUserResponse(context.Background(), "I ended early", nil))

	var questions []models.InterviewQuestion
	require.NoError(t, db.Find(&questions).Error)
	require.Len(t, questions, 1)
	require.Equal(t, "What is a primary key?", questions[0].QuestionText)

	var responses []models.UserResponse
	require.NoError(t, db.Order("id asc").Find(&responses).Error)
	require.Len(t, responses, 2)
	require.NotNil(t, responses[0].Score)
	require.Equal(t, 85, *responses[0].Score)
	require.Nil(t, responses[1].Score)
}
