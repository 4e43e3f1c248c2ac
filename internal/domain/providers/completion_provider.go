package providers

import (
	"context"
	"errors"
)

// ErrCompletionUnauthorized is returned when the language-model API rejects the credentials.
var ErrCompletionUnauthorized = errors.New("completion provider unauthorized")

// ErrCompletionRateLimited is returned when the language-model API throttles the caller.
var ErrCompletionRateLimited = errors.New("completion provider rate limited")

// ErrCompletionEmpty is returned when the API answered successfully without any text.
var ErrCompletionEmpty = errors.New("completion response missing content")

// CompletionRequest is a single-turn chat completion.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
}

// CompletionProvider sends a prompt to a hosted language model and returns its text reply.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
