package ai

import "context"

// Summarizer port for the generative-AI collaborator. Implementations build
// the fixed analysis prompt around the transcript and return the raw model
// text untouched; parsing and validation happen downstream.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}
