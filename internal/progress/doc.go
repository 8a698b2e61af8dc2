// Package progress provides progress reporting for batch runs.
//
// This package outputs human-readable progress information, including
// task completion counts, failure counts, throughput, and ETA.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{
//	    Label:      "NA servant faces",
//	    TotalTasks: len(tasks),
//	    Workers:    8,
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	// Update as tasks finish
//	reporter.BytesWritten(n)
//	reporter.TaskCompleted()
//
// # Output Format
//
//	[sheba] Collecting: NA servant faces
//	[sheba] Tasks: 412 | Workers: 8
//	[sheba] Progress: 45.2% | 186/412 tasks | 14.1 MB | 12.4 tasks/s | ETA: 18s
//	[sheba] Tasks: 182 ok | 4 failed | 8 in-progress | 218 pending
package progress
