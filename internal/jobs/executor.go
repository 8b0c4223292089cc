package jobs

import (
	"context"
	"log/slog"

	"github.com/pmflow/pr-courier/internal/core"
)

// executor implements core.Executor. Unlike a queue-and-forget dispatcher it
// runs the job on the caller's goroutine and blocks until completion, because
// the webhook handler replies to chat with the job's result and has nothing
// useful to do asynchronously. A semaphore caps how many pipelines run at
// once; callers past the cap wait their turn.
type executor struct {
	job    core.Job
	sem    chan struct{}
	logger *slog.Logger
}

// NewExecutor creates a bounded synchronous executor. If maxConcurrent is 0
// or negative, it defaults to 1.
func NewExecutor(job core.Job, maxConcurrent int, logger *slog.Logger) core.Executor {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &executor{
		job:    job,
		sem:    make(chan struct{}, maxConcurrent),
		logger: logger,
	}
}

// Execute runs the publish job for one event, waiting for a free slot first.
// The wait honors the caller's context; once a slot is acquired the job runs
// detached, so a webhook delivery the platform abandons mid-run cannot cancel
// a pipeline that is already mutating a checkout.
func (e *executor) Execute(ctx context.Context, event *core.MessageEvent) *core.PublishResult {
	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		e.logger.Warn("gave up waiting for a pipeline slot", "event_id", event.EventID)
		return core.Failure("server is busy, please try again later")
	}
	defer func() { <-e.sem }()

	e.logger.Info("pipeline slot acquired", "event_id", event.EventID)
	return e.job.Run(context.WithoutCancel(ctx), event)
}
