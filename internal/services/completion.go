package services

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyCompletion means the model answered but produced no content.
var ErrEmptyCompletion = errors.New("no content in completion")

type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// CompletionService sends one prompt to an LLM and returns the raw text of
// the first answer.
type CompletionService interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// UpstreamStatusError is a non-2xx answer from the LLM provider.
type UpstreamStatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s API error: %d", e.Provider, e.StatusCode)
}
