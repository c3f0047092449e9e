package script

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubeinsight/api/internal/domain/transcript"
)

func writeHelper(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("helper scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "helper.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestFetchSuccess(t *testing.T) {
	helper := writeHelper(t, `echo "transcript for $2"`)
	r := NewRunner("sh", helper, 5*time.Second)

	got, err := r.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "transcript for https://youtu.be/dQw4w9WgXcQ", got)
}

func TestFetchEmptyStdout(t *testing.T) {
	helper := writeHelper(t, `printf ""`)
	r := NewRunner("sh", helper, 5*time.Second)

	_, err := r.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	assert.ErrorIs(t, err, transcript.ErrNoTranscript)
}

func TestFetchNonZeroExit(t *testing.T) {
	helper := writeHelper(t, `echo "could not reach youtube" >&2; exit 1`)
	r := NewRunner("sh", helper, 5*time.Second)

	_, err := r.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.ErrorIs(t, err, transcript.ErrToolFailed)
	assert.Contains(t, err.Error(), "could not reach youtube")
}

func TestFetchStderrWithCleanExit(t *testing.T) {
	// stderr output means the helper hit trouble even when it exits zero
	helper := writeHelper(t, `echo "partial transcript"; echo "warning: caption fetch failed" >&2`)
	r := NewRunner("sh", helper, 5*time.Second)

	_, err := r.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.ErrorIs(t, err, transcript.ErrToolFailed)
	assert.Contains(t, err.Error(), "warning: caption fetch failed")
}

func TestFetchTimeout(t *testing.T) {
	helper := writeHelper(t, `sleep 5`)
	r := NewRunner("sh", helper, 100*time.Millisecond)

	start := time.Now()
	_, err := r.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.ErrorIs(t, err, transcript.ErrToolFailed)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestFetchMissingBinary(t *testing.T) {
	r := NewRunner("definitely-not-a-real-binary", "script.py", time.Second)

	_, err := r.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	assert.ErrorIs(t, err, transcript.ErrToolFailed)
}
