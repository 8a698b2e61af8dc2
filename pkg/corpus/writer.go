package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"gocloud.dev/blob"
)

// Writer persists images into a bucket under collision-safe keys of the
// form {category}/{name}. Keys are claimed under a lock before any bytes
// are written, so concurrent writers never race to the same final key,
// and an existing object is never overwritten. Writes are atomic: the
// object appears only once its blob writer is closed successfully.
type Writer struct {
	bucket *blob.Bucket
	stats  *Stats

	mu      sync.Mutex
	claimed map[string]struct{}
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithStats records every successful write into the given counters, keyed
// by the first segment of the final key.
func WithStats(stats *Stats) WriterOption {
	return func(w *Writer) {
		w.stats = stats
	}
}

// NewWriter returns a writer over the given bucket.
func NewWriter(bucket *blob.Bucket, opts ...WriterOption) *Writer {
	w := &Writer{
		bucket:  bucket,
		claimed: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Sanitize replaces every byte outside [A-Za-z0-9._-] with an underscore.
// Sanitizing an already sanitized name is a no-op.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '.', c == '_', c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Write stores data under {category}/{sanitized name}, appending _1, _2,
// ... before the extension until the key is free. The returned key did
// not exist when the write began. An empty category produces a key at the
// bucket root.
func (w *Writer) Write(ctx context.Context, category Category, name string, data []byte) (string, error) {
	key, err := w.claim(ctx, category, name)
	if err != nil {
		return "", err
	}
	if err := w.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return "", fmt.Errorf("corpus: write %s: %w", key, err)
	}
	w.record(key)
	return key, nil
}

// WriteFrom is Write for streamed content. It returns the final key and
// the number of bytes written. On error the partially written object is
// discarded, but the claimed key stays burned for the rest of the run.
func (w *Writer) WriteFrom(ctx context.Context, category Category, name string, r io.Reader) (string, int64, error) {
	key, err := w.claim(ctx, category, name)
	if err != nil {
		return "", 0, err
	}

	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	bw, err := w.bucket.NewWriter(writeCtx, key, nil)
	if err != nil {
		return "", 0, fmt.Errorf("corpus: open writer for %s: %w", key, err)
	}

	n, err := io.Copy(bw, r)
	if err != nil {
		// Canceling the context before Close aborts the commit.
		cancel()
		_ = bw.Close()
		return "", 0, fmt.Errorf("corpus: write %s: %w", key, err)
	}
	if err := bw.Close(); err != nil {
		return "", 0, fmt.Errorf("corpus: commit %s: %w", key, err)
	}

	w.record(key)
	return key, n, nil
}

// claim picks the first free suffixed variant of the sanitized name and
// reserves it. Probing and reservation happen under one lock, which
// serializes collision resolution across all categories.
func (w *Writer) claim(ctx context.Context, category Category, name string) (string, error) {
	base := Sanitize(name)
	if base == "" {
		return "", errors.New("corpus: empty asset name")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for n := 0; ; n++ {
		key := path.Join(string(category), suffixed(base, n))
		if _, taken := w.claimed[key]; taken {
			continue
		}
		exists, err := w.bucket.Exists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("corpus: probe %s: %w", key, err)
		}
		if exists {
			continue
		}
		w.claimed[key] = struct{}{}
		return key, nil
	}
}

func (w *Writer) record(key string) {
	if w.stats != nil {
		w.stats.Record(KeyCategory(key))
	}
}

// suffixed returns base with _n inserted before the extension. n == 0
// returns base unchanged.
func suffixed(base string, n int) string {
	if n == 0 {
		return base
	}
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s_%d%s", stem, n, ext)
}

// KeyCategory returns the first path segment of a key, or Unknown for
// keys at the bucket root.
func KeyCategory(key string) Category {
	cat, _, ok := strings.Cut(key, "/")
	if !ok || cat == "" {
		return Unknown
	}
	return Category(cat)
}
