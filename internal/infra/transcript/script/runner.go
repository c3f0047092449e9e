package script

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/tubeinsight/api/internal/domain/transcript"
)

// Runner invokes the external transcript helper as a child process with the
// video URL as its sole argument. The helper re-derives the video ID itself.
type Runner struct {
	bin     string
	script  string
	timeout time.Duration
}

func NewRunner(bin, script string, timeout time.Duration) *Runner {
	return &Runner{bin: bin, script: script, timeout: timeout}
}

// Fetch runs the helper and returns its stdout as the transcript.
// Any stderr output or non-zero exit is a hard tool failure; partial stdout
// is never used. Empty stdout with a clean exit means the video simply has
// no captions.
func (r *Runner) Fetch(ctx context.Context, url string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.bin, r.script, url)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: timed out after %s", transcript.ErrToolFailed, r.timeout)
		}
		return "", fmt.Errorf("%w: %v: %s", transcript.ErrToolFailed, err, firstLine(stderr.String()))
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return "", fmt.Errorf("%w: %s", transcript.ErrToolFailed, firstLine(msg))
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", transcript.ErrNoTranscript
	}
	return text, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
