package corpus

import (
	"sync"
	"testing"
)

func TestStatsConcurrentRecord(t *testing.T) {
	stats := NewStats("cards", "servants")

	const perCategory = 400
	var wg sync.WaitGroup
	for _, cat := range []Category{"cards", "servants", "never-listed"} {
		for i := 0; i < perCategory; i++ {
			wg.Add(1)
			go func(cat Category) {
				defer wg.Done()
				stats.Record(cat)
			}(cat)
		}
	}
	wg.Wait()

	snap := stats.Snapshot()
	if snap.Total != 3*perCategory {
		t.Fatalf("total = %d, want %d", snap.Total, 3*perCategory)
	}
	if snap.Categories["cards"] != perCategory {
		t.Errorf("cards = %d, want %d", snap.Categories["cards"], perCategory)
	}
	if snap.Categories["servants"] != perCategory {
		t.Errorf("servants = %d, want %d", snap.Categories["servants"], perCategory)
	}
	// Unlisted categories fold into unknown.
	if snap.Categories[Unknown] != perCategory {
		t.Errorf("unknown = %d, want %d", snap.Categories[Unknown], perCategory)
	}
}

func TestStatsSnapshotIsIndependent(t *testing.T) {
	stats := NewStats("cards")
	stats.Record("cards")

	snap := stats.Snapshot()
	snap.Categories["cards"] = 99

	if again := stats.Snapshot(); again.Categories["cards"] != 1 {
		t.Fatalf("mutating a snapshot leaked back: %v", again.Categories)
	}
}

func TestStatsZeroCategoriesPresent(t *testing.T) {
	stats := NewStats("cards", "ui")

	snap := stats.Snapshot()
	if snap.Total != 0 {
		t.Fatalf("total = %d, want 0", snap.Total)
	}
	for _, cat := range []Category{"cards", "ui", Unknown} {
		if count, ok := snap.Categories[cat]; !ok || count != 0 {
			t.Errorf("category %s = %d (present %t), want 0 and present", cat, count, ok)
		}
	}
}
