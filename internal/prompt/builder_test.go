package prompt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sreedhar1227/llm-interview-api/internal/session"
)

func TestLecturePromptEmbedsTranscriptAndLength(t *testing.T) {
	instruction := Lecture("Databases store rows in tables.")

	require.Contains(t, instruction, "Ask exactly 10 questions")
	require.Contains(t, instruction, "Databases store rows in tables.")
	require.Contains(t, instruction, "'question' or 'conclusion'")
	require.Contains(t, instruction, "Start the interview now.")
}

func TestCustomPromptUsesSuppliedFields(t *testing.T) {
	instruction := Custom(session.CustomInfo{
		Topic:      "SQL",
		Difficulty: "Beginner",
		Experience: "Fresher",
		Tone:       "Friendly",
	})

	require.Contains(t, instruction, `on the topic: "SQL"`)
	require.Contains(t, instruction, `difficulty level: "Beginner"`)
	require.Contains(t, instruction, `experience level: "Fresher"`)
	require.Contains(t, instruction, `a "Friendly" tone`)
}

func TestCustomPromptAppliesDefaults(t *testing.T) {
	instruction := Custom(session.CustomInfo{})

	require.Contains(t, instruction, `on the topic: "General"`)
	require.Contains(t, instruction, `difficulty level: "Intermediate"`)
	require.Contains(t, instruction, `experience level: "Fresher"`)
	require.Contains(t, instruction, `a "Professional" tone`)
}

func TestCustomContextListsAllParameters(t *testing.T) {
	context := CustomContext(session.CustomInfo{Topic: "Go", Tone: "Casual"})

	require.Contains(t, context, "topic: Go.")
	require.Contains(t, context, "difficulty level is: Intermediate.")
	require.Contains(t, context, "tone of the interview should be: Casual.")
}

func TestEvaluationPromptCarriesQuestionAnswerAndContext(t *testing.T) {
	instruction := Evaluation("What is a join?", "It combines tables.", "transcript text")

	require.Contains(t, instruction, "Question: What is a join?")
	require.Contains(t, instruction, "Answer: It combines tables.")
	require.Contains(t, instruction, "Context: transcript text")
	require.Contains(t, instruction, `{"score": <int>, "feedback": "<string>"}`)
}
