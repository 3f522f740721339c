package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseResponseDecodesStrictJSON(t *testing.T) {
	resp, err := ParseResponse(`{"type": "question", "content": "What is a primary key?"}`)
	require.NoError(t, err)
	require.Equal(t, TypeQuestion, resp.Type)
	require.Equal(t, "What is a primary key?", resp.Content)

	resp, err = ParseResponse(`{"type": "conclusion", "content": "Well done."}`)
	require.NoError(t, err)
	require.Equal(t, TypeConclusion, resp.Type)
}

func TestParseResponseFallsBackToPlainTextQuestion(t *testing.T) {
	resp, err := ParseResponse("What is a primary key?")
	require.NoError(t, err)
	require.Equal(t, TypeQuestion, resp.Type)
	require.Equal(t, "What is a primary key?", resp.Content)
}

func TestParseResponseTrimsWhitespaceBeforeFallback(t *testing.T) {
	resp, err := ParseResponse("  Explain normalisation.\n")
	require.NoError(t, err)
	require.Equal(t, "Explain normalisation.", resp.Content)
}

func TestParseResponseRejectsEmptyText(t *testing.T) {
	_, err := ParseResponse("   \n\t ")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrEmptyResponse))
}

func TestParseResponseRejectsJSONMissingFields(t *testing.T) {
	_, err := ParseResponse(`{"type": "question"}`)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMalformedOutput))

	_, err = ParseResponse(`{"content": "hello"}`)
	require.True(t, errors.Is(err, ErrMalformedOutput))

	_, err = ParseResponse(`{}`)
	require.True(t, errors.Is(err, ErrMalformedOutput))
}
