package batch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quinnjr/fgo-sheba/internal/progress"
)

// Defaults for batch execution.
const (
	DefaultConcurrency = 8
	DefaultTimeout     = 30 * time.Second
)

// Task is one unit of work: acquire Source, store the outcome under
// Dest. The worker decides what the strings mean.
type Task struct {
	// Label names the task in logs and results.
	Label string

	// Source is the task's input, typically a URL or file path.
	Source string

	// Dest is where the task's output goes, typically a bucket key.
	Dest string
}

// Result pairs a task with its outcome.
type Result struct {
	Task Task
	Err  error
}

// Func executes one task. The context it receives carries the per-task
// timeout.
type Func func(ctx context.Context, task Task) error

// Options configures a batch run.
type Options struct {
	// Concurrency is the number of tasks run in parallel.
	// Default: 8
	Concurrency int

	// Timeout bounds each task individually, so a hung task becomes a
	// failed task instead of a hung run.
	// Default: 30s
	Timeout time.Duration

	// Progress is an optional progress reporter.
	Progress *progress.Reporter
}

// Run executes tasks with bounded concurrency, applying worker to each.
// The returned slice holds exactly one result per task, in task order.
//
// A task's failure lands in its result and never stops the other tasks;
// there are no retries at this level. Cancelling ctx is the only way to
// end a run early, and even then every task still gets a result (the
// unstarted remainder report the context error).
func Run(ctx context.Context, tasks []Task, worker Func, opts Options) []Result {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	results := make([]Result, len(tasks))

	var g errgroup.Group
	g.SetLimit(opts.Concurrency)

	for i, task := range tasks {
		results[i].Task = task
		g.Go(func() error {
			results[i].Err = runOne(ctx, task, worker, opts)
			return nil
		})
	}

	// Task errors live in results, never in the group.
	_ = g.Wait()

	return results
}

func runOne(ctx context.Context, task Task, worker Func, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if opts.Progress != nil {
		opts.Progress.TaskStarted()
	}

	taskCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	err := worker(taskCtx, task)

	if opts.Progress != nil {
		if err != nil {
			opts.Progress.TaskFailed()
		} else {
			opts.Progress.TaskCompleted()
		}
	}
	return err
}

// Summarize counts the successes and failures in a result set.
func Summarize(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			ok++
		}
	}
	return ok, failed
}

// Failed returns only the failed results, preserving order.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
