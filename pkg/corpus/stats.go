package corpus

import "sync/atomic"

// Stats accumulates per-category counts across concurrent workers. The
// category set is fixed at construction; increments are lock-free.
type Stats struct {
	counts map[Category]*atomic.Int64
	total  atomic.Int64
}

// NewStats returns counters for the given categories. Unknown is always
// included so recording can never miss.
func NewStats(categories ...Category) *Stats {
	s := &Stats{counts: make(map[Category]*atomic.Int64, len(categories)+1)}
	for _, cat := range categories {
		if _, ok := s.counts[cat]; !ok {
			s.counts[cat] = new(atomic.Int64)
		}
	}
	if _, ok := s.counts[Unknown]; !ok {
		s.counts[Unknown] = new(atomic.Int64)
	}
	return s
}

// Record counts one stored asset. Categories outside the fixed set count
// toward Unknown. Safe for concurrent use.
func (s *Stats) Record(cat Category) {
	c, ok := s.counts[cat]
	if !ok {
		c = s.counts[Unknown]
	}
	c.Add(1)
	s.total.Add(1)
}

// RunStats is a point-in-time copy of the counters.
type RunStats struct {
	Categories map[Category]int64
	Total      int64
}

// Snapshot returns a consistent copy of the counters. It is meaningful
// once all recording workers have finished.
func (s *Stats) Snapshot() RunStats {
	out := RunStats{Categories: make(map[Category]int64, len(s.counts))}
	for cat, c := range s.counts {
		out.Categories[cat] = c.Load()
	}
	out.Total = s.total.Load()
	return out
}
