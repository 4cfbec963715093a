package deckly

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/deckly/deckly-go/apierror"
)

// TaskStatus is the server-assigned state of an asynchronous generation job.
// The client never transitions a task itself; it only observes snapshots.
type TaskStatus string

const (
	// TaskPending means the job is queued or running.
	TaskPending TaskStatus = "pending"

	// TaskCompleted is terminal: the job finished and should carry a result.
	TaskCompleted TaskStatus = "completed"

	// TaskError is terminal: the job failed server-side.
	TaskError TaskStatus = "error"
)

// Terminal reports whether no further status transition can occur.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskError
}

// Task is one observed snapshot of a server-owned job. Snapshots are fetched
// fresh on every poll and discarded after being handed to the caller; the
// server remains the single source of truth.
type Task struct {
	ID          string        `json:"task_id"`
	Status      TaskStatus    `json:"status"`
	Message     string        `json:"message"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Result      *Presentation `json:"result,omitempty"`
	ErrorDetail string        `json:"error_detail,omitempty"`
}

// GetTask fetches the current snapshot of a task. Transient fetch failures
// are retried under the client's standard policy.
func (c *Client) GetTask(ctx context.Context, taskID string, reqOpts ...RequestOption) (*Task, error) {
	if taskID == "" {
		return nil, apierror.New(apierror.KindValidation, "task id must not be empty")
	}

	var task Task
	if err := c.Request(ctx, http.MethodGet, "/status/"+url.PathEscape(taskID), nil, &task, reqOpts...); err != nil {
		return nil, err
	}

	return &task, nil
}

// PollOption tweaks one WaitForCompletion call.
type PollOption func(*pollOptions)

type pollOptions struct {
	interval time.Duration
	observer func(*Task)
}

// WithPollInterval overrides the client's wait between status checks.
func WithPollInterval(d time.Duration) PollOption {
	return func(o *pollOptions) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithObserver registers a callback invoked synchronously with every fetched
// snapshot, including the final terminal one, before the poller inspects its
// state. A panicking observer aborts the poll.
func WithObserver(fn func(*Task)) PollOption {
	return func(o *pollOptions) {
		o.observer = fn
	}
}

// WaitForCompletion polls a task until it reaches a terminal state and
// returns the finished presentation. There is no iteration cap: polling
// continues until the task completes, fails, an unrecoverable fetch error
// occurs, or ctx is canceled.
//
// A task that reports completed without a result payload is a protocol
// violation and fails with KindGenerationFailed rather than being treated as
// still pending.
func (c *Client) WaitForCompletion(ctx context.Context, taskID string, opts ...PollOption) (*Presentation, error) {
	pollOpts := &pollOptions{
		interval: c.pollInterval,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(pollOpts)
		}
	}

	for {
		task, err := c.GetTask(ctx, taskID)
		if err != nil {
			return nil, err
		}

		recordSnapshot(task.Status)

		if err := notifyObserver(pollOpts.observer, task); err != nil {
			return nil, err
		}

		switch task.Status {
		case TaskCompleted:
			if task.Result == nil {
				return nil, apierror.Newf(apierror.KindGenerationFailed,
					"task %s completed without a result payload", taskID)
			}

			return task.Result, nil

		case TaskError:
			apiErr := apierror.Newf(apierror.KindGenerationFailed, "task %s failed: %s", taskID, task.Message)
			apiErr.Detail = task.ErrorDetail

			return nil, apiErr

		case TaskPending:
			// Still running, fall through to the wait below.
		}

		if err := sleepCtx(ctx, pollOpts.interval); err != nil {
			return nil, apierror.FromTransport(err)
		}
	}
}

// notifyObserver invokes the snapshot observer, converting a panic into an
// error that aborts the poll. Swallowing observer bugs would leave callers
// polling forever on state they never see.
func notifyObserver(observer func(*Task), task *Task) (err error) {
	if observer == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("status observer panicked: %v", r) //nolint:err113
		}
	}()

	observer(task)

	return nil
}

// sleepCtx waits for the duration or until the context is done, whichever
// comes first.
func sleepCtx(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return nil
	}

	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
