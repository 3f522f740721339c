package llm

import (
	"encoding/json"
	"strings"
)

// ParseResponse reduces raw backend text into the normalized dialogue
// contract. Strict JSON decode is attempted first; when the text is not JSON
// but non-empty it is treated as a plain-text question, and empty output is
// an error. Valid JSON that lacks the required fields is rejected so the
// caller can distinguish a broken contract from a chatty model.
func ParseResponse(raw string) (Response, error) {
	trimmed := strings.TrimSpace(raw)

	var resp Response
	if err := json.Unmarshal([]byte(trimmed), &resp); err != nil {
		if trimmed == "" {
			return Response{}, ErrEmptyResponse
		}
		return Response{Type: TypeQuestion, Content: trimmed}, nil
	}

	if resp.Type == "" || resp.Content == "" {
		return Response{}, ErrMalformedOutput
	}

	return resp, nil
}
