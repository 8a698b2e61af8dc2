package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// Label describes the run (for display), e.g. "NA servant faces".
	Label string

	// TotalTasks is the number of tasks the run will attempt.
	TotalTasks int

	// Workers is the number of parallel workers.
	Workers int

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 500ms
	UpdateInterval time.Duration
}

// Reporter outputs human-readable progress information for a batch run.
// All counters are safe for concurrent use by the workers.
type Reporter struct {
	opts Options

	mu      sync.Mutex
	started bool
	stopped bool

	completed      atomic.Int64
	failed         atomic.Int64
	inProgress     atomic.Int64
	completedBytes atomic.Int64
	startTime      time.Time
	stopCh         chan struct{}
	doneCh         chan struct{}
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins outputting progress information.
func (r *Reporter) Start() {
	r.mu.Lock()
	r.started = true
	r.startTime = time.Now()
	r.mu.Unlock()

	fmt.Fprintf(r.opts.Output, "[sheba] Collecting: %s\n", r.opts.Label)
	fmt.Fprintf(r.opts.Output, "[sheba] Tasks: %d | Workers: %d\n",
		r.opts.TotalTasks,
		r.opts.Workers,
	)

	go r.updateLoop()
}

// Stop stops the progress reporter and prints the final status line. It
// returns once the display loop has finished writing.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	started := r.started
	r.mu.Unlock()

	close(r.stopCh)
	if started {
		<-r.doneCh
	}
}

// TaskStarted marks a task as in progress.
func (r *Reporter) TaskStarted() {
	r.inProgress.Add(1)
}

// TaskCompleted marks a task as completed.
func (r *Reporter) TaskCompleted() {
	r.completed.Add(1)
	r.inProgress.Add(-1)
}

// TaskFailed marks a task as failed.
func (r *Reporter) TaskFailed() {
	r.failed.Add(1)
	r.inProgress.Add(-1)
}

// BytesWritten records output volume. Workers call it as they store
// data; it is independent of task completion.
func (r *Reporter) BytesWritten(n int64) {
	r.completedBytes.Add(n)
}

// Completed reports how many tasks have finished successfully so far.
func (r *Reporter) Completed() int64 {
	return r.completed.Load()
}

// Failed reports how many tasks have failed so far.
func (r *Reporter) Failed() int64 {
	return r.failed.Load()
}

// Bytes reports how many bytes completed tasks have written so far.
func (r *Reporter) Bytes() int64 {
	return r.completedBytes.Load()
}

// updateLoop periodically updates the progress display.
func (r *Reporter) updateLoop() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

// printProgress outputs the current progress.
func (r *Reporter) printProgress() {
	completed := r.completed.Load()
	failed := r.failed.Load()
	inProgress := r.inProgress.Load()
	done := completed + failed

	elapsed := time.Since(r.startTime).Seconds()
	if elapsed < 0.1 {
		elapsed = 0.1
	}
	rate := float64(done) / elapsed

	var percent float64
	eta := "calculating..."
	if r.opts.TotalTasks > 0 {
		percent = float64(done) / float64(r.opts.TotalTasks) * 100
		if rate > 0 {
			remaining := float64(int64(r.opts.TotalTasks) - done)
			eta = formatDuration(time.Duration(remaining / rate * float64(time.Second)))
		}
	}

	pending := int64(r.opts.TotalTasks) - done - inProgress
	if pending < 0 {
		pending = 0
	}

	fmt.Fprintf(r.opts.Output, "\r[sheba] Progress: %.1f%% | %d/%d tasks | %s | %.1f tasks/s | ETA: %s    ",
		percent,
		done,
		r.opts.TotalTasks,
		formatBytes(r.completedBytes.Load()),
		rate,
		eta,
	)
	fmt.Fprintf(r.opts.Output, "\n[sheba] Tasks: %d ok | %d failed | %d in-progress | %d pending    \033[A",
		completed,
		failed,
		inProgress,
		pending,
	)
}

// printFinalStatus outputs the final status.
func (r *Reporter) printFinalStatus() {
	completed := r.completed.Load()
	failed := r.failed.Load()
	duration := time.Since(r.startTime)

	elapsed := duration.Seconds()
	if elapsed < 0.1 {
		elapsed = 0.1
	}

	fmt.Fprintf(r.opts.Output, "\r[sheba] Done: %d ok | %d failed | %s written    \n",
		completed,
		failed,
		formatBytes(r.completedBytes.Load()),
	)
	fmt.Fprintf(r.opts.Output, "[sheba] Total time: %s | %.1f tasks/s\n",
		formatDuration(duration),
		float64(completed+failed)/elapsed,
	)
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// FormatBytes is exported for use by other packages.
func FormatBytes(b int64) string {
	return formatBytes(b)
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
