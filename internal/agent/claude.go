// Package agent delegates repository modification to an external LLM coding
// agent running as a subprocess.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// systemPrompt fixes the agent's role for every invocation.
const systemPrompt = `You are a codebase engineer. A product manager gives you a natural-language description of their desired changes to the UI. You will:

1. Explore the codebase to understand the current structure.
2. Make the necessary changes to implement the requested modification.`

// allowedTools is the tool allow-list handed to the agent. Everything needed
// to read, search and edit files plus shell execution; nothing else.
const allowedTools = "Bash,Edit,Glob,Grep,LS,MultiEdit"

// Outcome is what an agent run leaves behind. The pipeline does not act on
// the output text; whether files actually changed is decided afterwards from
// the working tree.
type Outcome struct {
	Output string
}

// Runner applies a natural-language instruction to a repository checkout.
//
// Implementations must confine themselves to repoPath and must not change
// process-global state such as the working directory.
type Runner interface {
	Apply(ctx context.Context, repoPath, instruction string) (*Outcome, error)
}

type claudeRunner struct {
	bin      string
	maxTurns int
	logger   *slog.Logger
}

// NewClaudeRunner returns a Runner that shells out to the claude CLI.
// The session runs headless with auto-accepted edits and a hard cap on
// reasoning turns.
func NewClaudeRunner(bin string, maxTurns int, logger *slog.Logger) Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &claudeRunner{bin: bin, maxTurns: maxTurns, logger: logger}
}

// Apply runs one agent session over the checkout at repoPath. The combined
// output is surfaced for logging only.
func (r *claudeRunner) Apply(ctx context.Context, repoPath, instruction string) (*Outcome, error) {
	args := []string{
		"-p", instruction,
		"--append-system-prompt", systemPrompt,
		"--allowedTools", allowedTools,
		"--permission-mode", "acceptEdits",
		"--max-turns", strconv.Itoa(r.maxTurns),
	}

	r.logger.InfoContext(ctx, "invoking change agent", "bin", r.bin, "repo_path", repoPath, "max_turns", r.maxTurns)

	cmd := exec.CommandContext(ctx, r.bin, args...)
	cmd.Dir = repoPath
	cmd.Env = os.Environ()

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("change agent timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("change agent failed: %s: %w", strings.TrimSpace(string(output)), err)
	}

	trimmed := strings.TrimSpace(string(output))
	r.logger.DebugContext(ctx, "change agent finished", "output_bytes", len(trimmed))
	return &Outcome{Output: trimmed}, nil
}
