package corpus

import (
	"context"
	"testing"
)

func TestValidateMatchingCounts(t *testing.T) {
	ctx := context.Background()
	bucket := openTestBucket(t)
	seedBucket(t, bucket, map[string][]byte{
		"cards/a.png":   []byte("a"),
		"cards/b.png":   []byte("b"),
		"ui/c.png":      []byte("c"),
		"metadata.json": []byte("{}"),
	})

	result, err := Validate(ctx, bucket, map[Category]int64{"cards": 2, "ui": 1})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if !result.Valid {
		t.Fatalf("result not valid: %+v", result)
	}
	// Root-level summaries are not corpus objects.
	if result.Counted != 3 {
		t.Errorf("counted = %d, want 3", result.Counted)
	}
	if result.Expected != 3 {
		t.Errorf("expected = %d, want 3", result.Expected)
	}
}

func TestValidateReportsMismatches(t *testing.T) {
	ctx := context.Background()
	bucket := openTestBucket(t)
	seedBucket(t, bucket, map[string][]byte{
		"cards/a.png": []byte("a"),
		"stray/x.png": []byte("x"),
	})

	result, err := Validate(ctx, bucket, map[Category]int64{"cards": 2, "ui": 1})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if result.Valid {
		t.Fatal("result valid despite mismatches")
	}
	if len(result.Mismatches) != 3 {
		t.Fatalf("got %d mismatches, want 3: %+v", len(result.Mismatches), result.Mismatches)
	}

	// Sorted by category: cards, stray, ui.
	want := []CountMismatch{
		{Category: "cards", Expected: 2, Actual: 1},
		{Category: "stray", Expected: 0, Actual: 1},
		{Category: "ui", Expected: 1, Actual: 0},
	}
	for i, m := range result.Mismatches {
		if m != want[i] {
			t.Errorf("mismatch %d = %+v, want %+v", i, m, want[i])
		}
	}
}

func TestValidateEmptyBucket(t *testing.T) {
	ctx := context.Background()
	bucket := openTestBucket(t)

	result, err := Validate(ctx, bucket, nil)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.Valid || result.Counted != 0 {
		t.Fatalf("empty bucket result = %+v, want valid and zero counted", result)
	}
}
