package agent

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Apply is exercised against stand-in binaries; the real CLI is an external
// collaborator we only need to invoke correctly.
func TestApply_PassesInstructionAndFlags(t *testing.T) {
	r := NewClaudeRunner("echo", 6, testLogger())

	outcome, err := r.Apply(context.Background(), t.TempDir(), "enlarge the header font")
	require.NoError(t, err)

	assert.Contains(t, outcome.Output, "enlarge the header font")
	assert.Contains(t, outcome.Output, "--permission-mode acceptEdits")
	assert.Contains(t, outcome.Output, "--max-turns 6")
	assert.Contains(t, outcome.Output, "--allowedTools "+allowedTools)
}

func TestApply_MissingBinary(t *testing.T) {
	r := NewClaudeRunner("definitely-not-a-real-binary", 6, testLogger())

	_, err := r.Apply(context.Background(), t.TempDir(), "do something")
	assert.ErrorContains(t, err, "change agent failed")
}

func TestApply_ContextTimeout(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "slow-agent.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nsleep 5\n"), 0o755))

	r := NewClaudeRunner(script, 6, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := r.Apply(ctx, dir, "do something")
	assert.ErrorContains(t, err, "timed out")
}
