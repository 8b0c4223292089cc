// Package jobs implements the publish pipeline that turns an accepted chat
// instruction into a pull request.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pmflow/pr-courier/internal/agent"
	"github.com/pmflow/pr-courier/internal/config"
	"github.com/pmflow/pr-courier/internal/core"
	"github.com/pmflow/pr-courier/internal/github"
	"github.com/pmflow/pr-courier/internal/gitutil"
	"github.com/pmflow/pr-courier/internal/storage"
)

const branchPrefix = "pm-thru-claude"

// errNoChanges is the user-visible failure when the agent run produced an
// empty diff. The pipeline never creates an empty commit or PR.
const errNoChanges = "No changes to commit"

// GitClient is the subset of git plumbing the pipeline drives.
type GitClient interface {
	CloneTemp(ctx context.Context, repoURL, token string) (string, func(), error)
	CreateBranch(ctx context.Context, path, branch string) error
	AddAll(ctx context.Context, path string) error
	HasChanges(ctx context.Context, path string) (bool, error)
	Commit(ctx context.Context, path, message string) error
	Push(ctx context.Context, path, branch string) error
}

// PublishJob runs the clone → agent → branch → commit → push → PR sequence.
// Each stage is a distinct failure domain; the first failure short-circuits
// the rest and becomes the result. Nothing is retried and nothing is rolled
// back: a pushed branch survives a failed PR creation.
type PublishJob struct {
	cfg    *config.Config
	git    GitClient
	agent  agent.Runner
	github github.Client
	store  storage.Store
	logger *slog.Logger
}

// NewPublishJob creates the pipeline job. store may be nil, in which case
// runs are not recorded.
func NewPublishJob(cfg *config.Config, git GitClient, runner agent.Runner, gh github.Client, store storage.Store, logger *slog.Logger) core.Job {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if git == nil {
		panic("git client cannot be nil")
	}
	if runner == nil {
		panic("agent runner cannot be nil")
	}
	if gh == nil {
		panic("github client cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &PublishJob{cfg: cfg, git: git, agent: runner, github: gh, store: store, logger: logger}
}

// Run executes the pipeline for one accepted instruction and records the
// outcome when a run store is configured.
func (j *PublishJob) Run(ctx context.Context, event *core.MessageEvent) *core.PublishResult {
	branch := fmt.Sprintf("%s-%s", branchPrefix, time.Now().Format("2006-01-02-15-04-05"))

	j.logger.Info("starting publish pipeline", "event_id", event.EventID, "branch", branch)
	result := j.execute(ctx, event, branch)
	if result.OK() {
		j.logger.Info("publish pipeline finished", "event_id", event.EventID, "pr_url", result.PRURL)
	} else {
		j.logger.Error("publish pipeline failed", "event_id", event.EventID, "error", result.Error)
	}

	j.record(ctx, event, branch, result)
	return result
}

func (j *PublishJob) execute(ctx context.Context, event *core.MessageEvent, branch string) *core.PublishResult {
	cloneCtx, cancel := context.WithTimeout(ctx, j.cfg.GitTimeout)
	defer cancel()
	repoPath, cleanup, err := j.git.CloneTemp(cloneCtx, j.cfg.RepoURL, j.cfg.GitHubToken)
	if err != nil {
		return core.Failure(fmt.Sprintf("clone failed: %v", err))
	}
	defer cleanup()

	agentCtx, cancel := context.WithTimeout(ctx, j.cfg.AgentTimeout)
	defer cancel()
	outcome, err := j.agent.Apply(agentCtx, repoPath, event.Text)
	if err != nil {
		return core.Failure(fmt.Sprintf("change agent failed: %v", err))
	}
	if outcome != nil && outcome.Output != "" {
		j.logger.Debug("change agent output", "event_id", event.EventID, "output", outcome.Output)
	}

	if err := j.withGitTimeout(ctx, func(gctx context.Context) error {
		return j.git.CreateBranch(gctx, repoPath, branch)
	}); err != nil {
		return core.Failure(fmt.Sprintf("branch creation failed: %v", err))
	}

	if err := j.withGitTimeout(ctx, func(gctx context.Context) error {
		return j.git.AddAll(gctx, repoPath)
	}); err != nil {
		return core.Failure(fmt.Sprintf("staging failed: %v", err))
	}

	var changed bool
	if err := j.withGitTimeout(ctx, func(gctx context.Context) error {
		var statusErr error
		changed, statusErr = j.git.HasChanges(gctx, repoPath)
		return statusErr
	}); err != nil {
		return core.Failure(fmt.Sprintf("status check failed: %v", err))
	}
	if !changed {
		return core.Failure(errNoChanges)
	}

	if err := j.withGitTimeout(ctx, func(gctx context.Context) error {
		return j.git.Commit(gctx, repoPath, "PM:"+event.Text)
	}); err != nil {
		return core.Failure(fmt.Sprintf("commit failed: %v", err))
	}

	if err := j.withGitTimeout(ctx, func(gctx context.Context) error {
		return j.git.Push(gctx, repoPath, branch)
	}); err != nil {
		return core.Failure(fmt.Sprintf("push failed: %v", err))
	}

	owner, name, err := gitutil.ParseRepoURL(j.cfg.RepoURL)
	if err != nil {
		return core.Failure(err.Error())
	}

	prCtx, cancel := context.WithTimeout(ctx, j.cfg.HTTPTimeout)
	defer cancel()
	url, err := j.github.CreatePullRequest(prCtx, owner, name, github.PullRequestParams{
		Title: event.Text,
		Body:  "Automated changes per instruction: " + event.Text,
		Head:  branch,
		Base:  j.cfg.BaseBranch,
	})
	if err != nil {
		return core.Failure(fmt.Sprintf("pull request creation failed: %v", err))
	}

	return &core.PublishResult{PRURL: url}
}

func (j *PublishJob) withGitTimeout(ctx context.Context, fn func(context.Context) error) error {
	gctx, cancel := context.WithTimeout(ctx, j.cfg.GitTimeout)
	defer cancel()
	return fn(gctx)
}

// record writes the run to the history store; failures are logged only, the
// audit trail never blocks the chat reply.
func (j *PublishJob) record(ctx context.Context, event *core.MessageEvent, branch string, result *core.PublishResult) {
	if j.store == nil {
		return
	}

	run := &core.PipelineRun{
		ID:          uuid.NewString(),
		EventID:     event.EventID,
		Instruction: event.Text,
		Branch:      branch,
		PRURL:       result.PRURL,
		Status:      core.RunStatusSucceeded,
		Error:       result.Error,
		CreatedAt:   time.Now().UTC(),
	}
	if !result.OK() {
		run.Status = core.RunStatusFailed
	}

	saveCtx, cancel := context.WithTimeout(ctx, j.cfg.HTTPTimeout)
	defer cancel()
	if err := j.store.SaveRun(saveCtx, run); err != nil {
		j.logger.Error("failed to record pipeline run", "event_id", event.EventID, "error", err)
	}
}
