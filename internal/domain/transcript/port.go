package transcript

import (
	"context"
	"errors"
)

// ErrNoTranscript means the tool ran fine but the video has no captions
// (empty or whitespace-only output). Distinct from a tool crash so the
// caller can show a user-actionable message.
var ErrNoTranscript = errors.New("no transcript available for this video")

// ErrToolFailed wraps crashes of the extraction tool itself (non-zero exit,
// diagnostic output on stderr). Transient by nature; safe to retry later.
var ErrToolFailed = errors.New("transcript tool failed")

// Provider port for the transcript-extraction collaborator. Implementations
// may shell out to a helper, call a sidecar API, or anything else; the
// pipeline must not depend on which. The full URL is passed, not just the
// video ID, because the external helper re-derives the ID itself.
type Provider interface {
	Fetch(ctx context.Context, url string) (string, error)
}
