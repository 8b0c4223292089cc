// Package gitutil provides a client for working with Git repositories.
package gitutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Client handles interacting with Git repositories. Every operation takes an
// explicit working directory; the process working directory is never touched,
// so concurrent pipeline runs stay isolated.
type Client struct {
	Logger *slog.Logger
}

// NewClient returns a new Client instance.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{Logger: logger}
}

// CloneTemp clones a repository into a fresh temporary directory and returns
// the path with a cleanup function. The credential travels in the clone URL's
// userinfo and is never logged.
func (c *Client) CloneTemp(ctx context.Context, repoURL, token string) (string, func(), error) {
	authURL, err := AuthenticatedURL(repoURL, token)
	if err != nil {
		return "", nil, err
	}

	repoPath, err := os.MkdirTemp("", "pr-courier-repo-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	cleanup := func() {
		if removeErr := os.RemoveAll(repoPath); removeErr != nil {
			c.Logger.Error("failed to remove temp repo", "path", repoPath, "error", removeErr)
		}
	}

	c.Logger.InfoContext(ctx, "cloning repository", "url", repoURL, "path", repoPath)
	cmd := exec.CommandContext(ctx, "git", "clone", authURL, repoPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("git clone failed: %s: %w", scrub(string(out), token), err)
	}

	// Sanity-check the clone is openable before handing it to the agent.
	if _, err := git.PlainOpen(repoPath); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to open cloned repo: %w", err)
	}

	return repoPath, cleanup, nil
}

// CreateBranch creates and checks out a branch. If a branch of that exact
// name already exists locally it is checked out instead; this only matters
// for same-second name collisions.
func (c *Client) CreateBranch(ctx context.Context, path, branch string) error {
	exists, err := c.branchExists(path, branch)
	if err != nil {
		return err
	}

	args := []string{"checkout", "-b", branch}
	if exists {
		args = []string{"checkout", branch}
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = path
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git checkout failed: %s: %w", string(out), err)
	}
	return nil
}

// branchExists checks the local refs of an open repository.
func (c *Client) branchExists(path, branch string) (bool, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return false, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}
	_, err = repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	return err == nil, nil
}

// AddAll stages every modification in the worktree.
func (c *Client) AddAll(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, "git", "add", ".")
	cmd.Dir = path
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git add failed: %s: %w", string(out), err)
	}
	return nil
}

// HasChanges reports whether the staged worktree differs from HEAD.
func (c *Client) HasChanges(ctx context.Context, path string) (bool, error) {
	cmd := exec.CommandContext(ctx, "git", "status", "--porcelain")
	cmd.Dir = path
	out, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("git status failed: %w", err)
	}
	return strings.TrimSpace(string(out)) != "", nil
}

// Commit records the staged changes with the given message.
func (c *Client) Commit(ctx context.Context, path, message string) error {
	cmd := exec.CommandContext(ctx, "git", "commit", "-m", message)
	cmd.Dir = path
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git commit failed: %s: %w", string(out), err)
	}
	return nil
}

// Push publishes the branch to origin, setting the upstream.
func (c *Client) Push(ctx context.Context, path, branch string) error {
	c.Logger.InfoContext(ctx, "pushing branch", "branch", branch)
	cmd := exec.CommandContext(ctx, "git", "push", "-u", "origin", branch)
	cmd.Dir = path
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git push failed: %s: %w", string(out), err)
	}
	return nil
}

// scrub removes the credential from subprocess output before it reaches an
// error message or a log line.
func scrub(out, token string) string {
	if token == "" {
		return out
	}
	return strings.ReplaceAll(out, token, "***")
}
