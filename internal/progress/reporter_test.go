package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{256 * 1024 * 1024, "256.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{1024 * 1024 * 1024 * 1024, "1.00 TB"},
	}

	for _, tt := range tests {
		result := FormatBytes(tt.input)
		if result != tt.expected {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestReporterTaskTracking(t *testing.T) {
	reporter := NewReporter(Options{
		TotalTasks:     4,
		Workers:        2,
		UpdateInterval: 100 * time.Millisecond,
	})

	// Track tasks without starting the display loop.
	reporter.TaskStarted()
	if reporter.inProgress.Load() != 1 {
		t.Errorf("expected 1 in-progress, got %d", reporter.inProgress.Load())
	}

	reporter.BytesWritten(256)
	reporter.TaskCompleted()
	if reporter.inProgress.Load() != 0 {
		t.Errorf("expected 0 in-progress after complete, got %d", reporter.inProgress.Load())
	}
	if reporter.Completed() != 1 {
		t.Errorf("expected 1 completed, got %d", reporter.Completed())
	}
	if reporter.Bytes() != 256 {
		t.Errorf("expected 256 bytes, got %d", reporter.Bytes())
	}

	reporter.TaskStarted()
	reporter.TaskFailed()
	if reporter.inProgress.Load() != 0 {
		t.Errorf("expected 0 in-progress after fail, got %d", reporter.inProgress.Load())
	}
	if reporter.Failed() != 1 {
		t.Errorf("expected 1 failed, got %d", reporter.Failed())
	}
}

func TestReporterStartStop(t *testing.T) {
	var out bytes.Buffer
	reporter := NewReporter(Options{
		Label:          "test run",
		TotalTasks:     4,
		Workers:        2,
		UpdateInterval: 10 * time.Millisecond,
		Output:         &out,
	})

	reporter.Start()

	reporter.TaskStarted()
	reporter.BytesWritten(256 * 1024)
	reporter.TaskCompleted()

	reporter.TaskStarted()
	reporter.BytesWritten(256 * 1024)
	reporter.TaskCompleted()

	time.Sleep(50 * time.Millisecond) // Let updates run

	reporter.Stop()
	// Stop twice is safe.
	reporter.Stop()

	if reporter.Completed() != 2 {
		t.Errorf("expected 2 completed tasks, got %d", reporter.Completed())
	}
	if reporter.Bytes() != 512*1024 {
		t.Errorf("expected 512KB written, got %d", reporter.Bytes())
	}
	if !strings.Contains(out.String(), "test run") {
		t.Error("header line missing the run label")
	}
}
