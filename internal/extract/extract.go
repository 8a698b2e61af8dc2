package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"gocloud.dev/blob"

	"github.com/quinnjr/fgo-sheba/internal/batch"
	"github.com/quinnjr/fgo-sheba/internal/logging"
	"github.com/quinnjr/fgo-sheba/internal/progress"
	"github.com/quinnjr/fgo-sheba/pkg/corpus"
)

// Options configures an extraction run. Zero values pick sensible
// defaults.
type Options struct {
	// Source expands scanned entries into storable objects. Defaults
	// to corpus.ImageFile, which passes plain image files through and
	// yields nothing for asset containers.
	Source corpus.ObjectSource

	// Rules is the category table applied to object names and entry
	// paths. Defaults to corpus.APKRules, the loose-file table matching
	// the default Source; a bundle-decoding Source should set
	// corpus.ExtractionRules, whose patterns target bundle object names.
	Rules corpus.RuleTable

	// Concurrency and TaskTimeout are handed to the batch executor.
	Concurrency int
	TaskTimeout time.Duration

	// ShowProgress renders a live progress line.
	ShowProgress bool

	// KeepUnpacked, when set, unpacks archives into this directory and
	// leaves it behind. Empty means a temp dir removed after the run.
	KeepUnpacked string
}

// Extractor ingests image assets from unpacked game files into a
// categorized corpus bucket.
type Extractor struct {
	opts   Options
	bucket *blob.Bucket
	writer *corpus.Writer
	stats  *corpus.Stats
	cat    *corpus.Categorizer
	log    *slog.Logger
}

// New returns an extractor writing into bucket.
func New(bucket *blob.Bucket, opts Options) *Extractor {
	if opts.Source == nil {
		opts.Source = corpus.ImageFile{}
	}
	if opts.Rules == nil {
		opts.Rules = corpus.APKRules
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = batch.DefaultConcurrency
	}
	if opts.TaskTimeout <= 0 {
		opts.TaskTimeout = batch.DefaultTimeout
	}

	stats := corpus.NewStats(opts.Rules.Categories()...)
	return &Extractor{
		opts:   opts,
		bucket: bucket,
		writer: corpus.NewWriter(bucket, corpus.WithStats(stats)),
		stats:  stats,
		cat:    corpus.NewCategorizer(opts.Rules),
		log:    logging.New("extract"),
	}
}

// Report summarizes one extraction run.
type Report struct {
	// TotalFiles is the number of scanned files handed to the executor.
	TotalFiles int
	// Extracted is the number of objects written to the corpus.
	Extracted int64
	// OK and Failed count task outcomes.
	OK     int
	Failed int
	// Stats holds the final per-category counts.
	Stats corpus.RunStats
	// Unpack is set when the run started from an archive.
	Unpack *UnpackReport
}

// RunArchive unpacks a zip archive and ingests its image assets. The
// unpacked tree lives in a temp dir unless Options.KeepUnpacked names a
// directory to keep.
func (e *Extractor) RunArchive(ctx context.Context, archivePath string) (*Report, error) {
	dir := e.opts.KeepUnpacked
	if dir == "" {
		tmp, err := os.MkdirTemp("", "sheba-extract-")
		if err != nil {
			return nil, fmt.Errorf("extract: temp dir: %w", err)
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("extract: unpack dir: %w", err)
	}

	unpacked, err := Unpack(ctx, archivePath, dir)
	if err != nil {
		return nil, err
	}
	e.log.Info("archive unpacked", "archive", archivePath,
		"entries", unpacked.Entries, "files", unpacked.Unpacked, "skipped", unpacked.Skipped)

	report, err := e.RunDir(ctx, dir)
	if report != nil {
		report.Unpack = unpacked
	}
	return report, err
}

// RunDir scans an unpacked tree and ingests its image assets, then
// writes the run summary. Per-file failures are counted in the report,
// not returned.
func (e *Extractor) RunDir(ctx context.Context, root string) (*Report, error) {
	entries, err := e.scan(ctx, root)
	if err != nil {
		return nil, err
	}
	e.log.Info("scan finished", "root", root, "files", len(entries))

	byPath := make(map[string]*corpus.Entry, len(entries))
	tasks := make([]batch.Task, len(entries))
	for i, entry := range entries {
		byPath[entry.Path] = entry
		tasks[i] = batch.Task{Label: entry.Rel, Source: entry.Path}
	}

	var reporter *progress.Reporter
	if e.opts.ShowProgress {
		reporter = progress.NewReporter(progress.Options{
			Label:      "extracting",
			TotalTasks: len(tasks),
			Workers:    e.opts.Concurrency,
		})
		reporter.Start()
	}

	var extracted atomic.Int64
	worker := func(ctx context.Context, task batch.Task) error {
		n, written, err := e.ingest(ctx, byPath[task.Source])
		extracted.Add(n)
		if reporter != nil {
			reporter.BytesWritten(written)
		}
		return err
	}

	results := batch.Run(ctx, tasks, worker, batch.Options{
		Concurrency: e.opts.Concurrency,
		Timeout:     e.opts.TaskTimeout,
		Progress:    reporter,
	})
	if reporter != nil {
		reporter.Stop()
	}

	ok, failed := batch.Summarize(results)
	for _, r := range batch.Failed(results) {
		e.log.Warn("extraction failed", "file", r.Task.Label, "error", r.Err)
	}
	e.log.Info("extraction finished", "files", len(tasks), "ok", ok, "failed", failed,
		"images", extracted.Load())

	report := &Report{
		TotalFiles: len(tasks),
		Extracted:  extracted.Load(),
		OK:         ok,
		Failed:     failed,
		Stats:      e.stats.Snapshot(),
	}
	if err := e.WriteStats(ctx, report); err != nil {
		return report, err
	}
	return report, nil
}

// scan collects every recognized file under the conventional asset
// roots of the tree.
func (e *Extractor) scan(ctx context.Context, root string) ([]*corpus.Entry, error) {
	var entries []*corpus.Entry
	for _, dir := range scanRoots(root) {
		s := corpus.NewScanner(dir)
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			entry, err := s.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("extract: scan %s: %w", dir, err)
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// scanRoots picks the conventional assets/ and res/ subtrees when the
// tree has them, otherwise the whole tree.
func scanRoots(root string) []string {
	var roots []string
	for _, sub := range []string{"assets", "res"} {
		dir := filepath.Join(root, sub)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			roots = append(roots, dir)
		}
	}
	if len(roots) == 0 {
		return []string{root}
	}
	return roots
}

// ingest expands one scanned entry into objects and writes each to its
// category. A failed write drops that object but not its siblings; the
// first error marks the task failed. Returns the object count and the
// bytes written.
func (e *Extractor) ingest(ctx context.Context, entry *corpus.Entry) (int64, int64, error) {
	objects, err := e.opts.Source.Objects(ctx, entry)
	if err != nil {
		return 0, 0, fmt.Errorf("expand %s: %w", entry.Rel, err)
	}

	var count, written int64
	var firstErr error
	for _, obj := range objects {
		cat := e.cat.Categorize(obj.Name, entry.Rel)
		if _, err := e.writer.Write(ctx, cat, obj.Name, obj.Data); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		count++
		written += int64(len(obj.Data))
	}
	return count, written, firstErr
}
