package corpus

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"gocloud.dev/blob"
)

// ValidationResult reports how a corpus bucket compares to the counts its
// run summary recorded. Problems are collected here rather than returned
// as errors; the error return of [Validate] covers only listing failures.
type ValidationResult struct {
	// Valid is true when every expected category count matches.
	Valid bool
	// Counted is the number of objects found under category prefixes.
	Counted int64
	// Expected is the total the summary claims.
	Expected int64
	// Counts holds the actual per-category object counts.
	Counts map[Category]int64
	// Mismatches lists categories whose counts differ, including
	// categories present in the bucket but absent from the summary.
	Mismatches []CountMismatch
}

// CountMismatch is one disagreeing category.
type CountMismatch struct {
	Category Category
	Expected int64
	Actual   int64
}

// Validate lists the bucket, counts objects by their first path segment,
// and compares against the expected per-category counts. Keys at the
// bucket root (run summaries) are not counted.
func Validate(ctx context.Context, bucket *blob.Bucket, expected map[Category]int64) (*ValidationResult, error) {
	result := &ValidationResult{Counts: make(map[Category]int64)}

	it := bucket.List(nil)
	for {
		obj, err := it.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("corpus: list bucket: %w", err)
		}
		cat, _, ok := strings.Cut(obj.Key, "/")
		if !ok {
			continue
		}
		result.Counts[Category(cat)]++
		result.Counted++
	}

	for cat, want := range expected {
		result.Expected += want
		if got := result.Counts[cat]; got != want {
			result.Mismatches = append(result.Mismatches, CountMismatch{
				Category: cat,
				Expected: want,
				Actual:   got,
			})
		}
	}
	for cat, got := range result.Counts {
		if _, ok := expected[cat]; !ok {
			result.Mismatches = append(result.Mismatches, CountMismatch{
				Category: cat,
				Actual:   got,
			})
		}
	}

	sort.Slice(result.Mismatches, func(i, j int) bool {
		return result.Mismatches[i].Category < result.Mismatches[j].Category
	})
	result.Valid = len(result.Mismatches) == 0

	return result, nil
}
