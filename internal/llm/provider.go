package llm

import "context"

// Provider is the boundary to a remote text-generation backend.
// Implementations may call Gemini, another API, or return canned
// results (for tests).
type Provider interface {
	// Send submits a prompt and returns the generated text.
	// Errors are classified with the Err* types in this package so the
	// Client can decide whether to retry.
	Send(ctx context.Context, prompt string) (string, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}
