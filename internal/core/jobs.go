package core

import (
	"context"
	"time"
)

// Job represents a single, executable unit of work triggered by an accepted
// chat message. Its result is always a PublishResult, never a panic or a
// raised error: the pipeline's failures are values relayed back to chat.
type Job interface {
	Run(ctx context.Context, event *MessageEvent) *PublishResult
}

// Executor runs publish jobs on behalf of the webhook handler. It blocks the
// caller until the job completes; implementations bound how many jobs may
// run at once.
type Executor interface {
	Execute(ctx context.Context, event *MessageEvent) *PublishResult
}

// PublishResult is the outcome of one publish pipeline run: a pull request
// URL on success, or a structured error message. The JSON shape is consumed
// by the operator CLI and the run-history store.
type PublishResult struct {
	PRURL string `json:"pr_url,omitempty"`
	Error string `json:"error,omitempty"`
}

// OK reports whether the pipeline produced a pull request.
func (r *PublishResult) OK() bool {
	return r != nil && r.Error == ""
}

// Failure builds a failed PublishResult from an error message.
func Failure(msg string) *PublishResult {
	return &PublishResult{Error: msg}
}

// Run states recorded by the run-history store.
const (
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// PipelineRun is the audit record of one publish pipeline execution.
type PipelineRun struct {
	ID          string    `db:"id"`
	EventID     string    `db:"event_id"`
	Instruction string    `db:"instruction"`
	Branch      string    `db:"branch"`
	PRURL       string    `db:"pr_url"`
	Status      string    `db:"status"`
	Error       string    `db:"error"`
	CreatedAt   time.Time `db:"created_at"`
}
