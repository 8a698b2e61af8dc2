// Package batch runs independent tasks with bounded concurrency.
//
// This package is the execution layer under the asset collectors. It
// fans tasks out to a fixed-size worker pool and collects one result per
// task, so callers always know exactly what succeeded and what did not.
//
// # Usage
//
// The main entry point is the Run function:
//
//	results := batch.Run(ctx, tasks, worker, batch.Options{
//	    Concurrency: 8,
//	    Timeout:     30 * time.Second,
//	    Progress:    progressReporter,
//	})
//	ok, failed := batch.Summarize(results)
//
// # Failure Model
//
// A task failure is data, not control flow: it is recorded in the task's
// [Result] and the rest of the batch keeps running. There are no retries
// here; transport-level retries belong to the HTTP client. Each task runs
// under its own timeout so one hung transfer cannot stall the pool.
package batch
