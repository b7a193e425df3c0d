// Package llm abstracts the text-completion providers suggestions are generated with.
package llm

import "context"

// CompletionRequest is one prompt plus the sampling parameters for it.
type CompletionRequest struct {
	Prompt        string
	SystemMessage string
	Temperature   float64
	MaxTokens     int
}

// Backend completes prompts. Implementations never retry on their own;
// failed calls surface as *model.BackendUnavailableError.
type Backend interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Close() error
}
