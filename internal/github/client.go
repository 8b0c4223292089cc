// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"
)

// PullRequestParams describes the pull request to open after a successful
// publish run.
type PullRequestParams struct {
	Title string
	Body  string
	Head  string
	Base  string
}

// Client defines the GitHub operations the publish pipeline needs.
type Client interface {
	// CreatePullRequest opens a PR and returns its canonical web URL.
	CreatePullRequest(ctx context.Context, owner, repo string, params PullRequestParams) (string, error)
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubClient wraps the official go-github client to provide a focused,
// testable interface for application-specific GitHub operations.
func NewGitHubClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

// NewPATClient creates a GitHub client authenticated with a Personal Access
// Token. The bot authenticates as the token's user for every PR it opens.
func NewPATClient(ctx context.Context, token string, logger *slog.Logger) Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	return &gitHubClient{client: github.NewClient(tc), logger: logger}
}

// CreatePullRequest opens a pull request from params.Head into params.Base.
func (g *gitHubClient) CreatePullRequest(ctx context.Context, owner, repo string, params PullRequestParams) (string, error) {
	pr, _, err := g.client.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.Ptr(params.Title),
		Body:  github.Ptr(params.Body),
		Head:  github.Ptr(params.Head),
		Base:  github.Ptr(params.Base),
	})
	if err != nil {
		g.logger.Error("failed to create pull request", "owner", owner, "repo", repo, "head", params.Head, "error", err)
		return "", fmt.Errorf("failed to create pull request: %w", err)
	}

	url := pr.GetHTMLURL()
	if url == "" {
		return "", fmt.Errorf("created pull request has no HTML URL")
	}
	g.logger.Info("pull request created", "owner", owner, "repo", repo, "url", url)
	return url, nil
}
