package corpus

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

func openTestBucket(t *testing.T) *blob.Bucket {
	t.Helper()
	bucket, err := blob.OpenBucket(context.Background(), "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	t.Cleanup(func() { bucket.Close() })
	return bucket
}

func TestWriteCollisionSuffixes(t *testing.T) {
	ctx := context.Background()
	bucket := openTestBucket(t)
	w := NewWriter(bucket)

	payloads := [][]byte{[]byte("first"), []byte("second"), []byte("third"), []byte("fourth")}
	wantKeys := []string{"cards/card.png", "cards/card_1.png", "cards/card_2.png", "cards/card_3.png"}

	for i, payload := range payloads {
		key, err := w.Write(ctx, "cards", "card.png", payload)
		if err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		if key != wantKeys[i] {
			t.Fatalf("write %d: key = %q, want %q", i, key, wantKeys[i])
		}
	}

	// Every payload survived under its own key.
	for i, key := range wantKeys {
		data, err := bucket.ReadAll(ctx, key)
		if err != nil {
			t.Fatalf("read %s: %v", key, err)
		}
		if !bytes.Equal(data, payloads[i]) {
			t.Errorf("%s = %q, want %q", key, data, payloads[i])
		}
	}
}

func TestWriteNeverOverwritesExisting(t *testing.T) {
	ctx := context.Background()
	bucket := openTestBucket(t)
	if err := bucket.WriteAll(ctx, "ui/btn.png", []byte("old"), nil); err != nil {
		t.Fatalf("seed bucket: %v", err)
	}

	w := NewWriter(bucket)
	key, err := w.Write(ctx, "ui", "btn.png", []byte("new"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if key != "ui/btn_1.png" {
		t.Fatalf("key = %q, want ui/btn_1.png", key)
	}

	old, err := bucket.ReadAll(ctx, "ui/btn.png")
	if err != nil {
		t.Fatalf("read seeded object: %v", err)
	}
	if !bytes.Equal(old, []byte("old")) {
		t.Fatalf("seeded object changed to %q", old)
	}
}

func TestWriteConcurrentSameName(t *testing.T) {
	ctx := context.Background()
	bucket := openTestBucket(t)
	w := NewWriter(bucket)

	const n = 16
	keys := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key, err := w.Write(ctx, "cards", "same.png", []byte(fmt.Sprintf("payload-%d", i)))
			if err != nil {
				t.Errorf("write %d: %v", i, err)
				return
			}
			keys[i] = key
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, key := range keys {
		if key == "" {
			continue
		}
		if seen[key] {
			t.Fatalf("key %s handed out twice", key)
		}
		seen[key] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d distinct keys, want %d", len(seen), n)
	}
}

func TestWriteEmptyName(t *testing.T) {
	ctx := context.Background()
	w := NewWriter(openTestBucket(t))
	if _, err := w.Write(ctx, "cards", "", []byte("x")); err == nil {
		t.Fatal("expected an error for an empty name")
	}
}

func TestWriteFrom(t *testing.T) {
	ctx := context.Background()
	bucket := openTestBucket(t)
	w := NewWriter(bucket)

	const payload = "streamed bytes"
	key, n, err := w.WriteFrom(ctx, "skills", "skill_1.png", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("WriteFrom: %v", err)
	}
	if n != int64(len(payload)) {
		t.Fatalf("wrote %d bytes, want %d", n, len(payload))
	}

	data, err := bucket.ReadAll(ctx, key)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	if string(data) != payload {
		t.Fatalf("read back %q, want %q", data, payload)
	}
}

func TestWriterRecordsStats(t *testing.T) {
	ctx := context.Background()
	stats := NewStats("cards", "ui")
	w := NewWriter(openTestBucket(t), WithStats(stats))

	for _, write := range []struct {
		category Category
		name     string
	}{
		{"cards", "a.png"},
		{"cards", "b.png"},
		{"ui", "c.png"},
	} {
		if _, err := w.Write(ctx, write.category, write.name, []byte("x")); err != nil {
			t.Fatalf("write %s/%s: %v", write.category, write.name, err)
		}
	}

	snap := stats.Snapshot()
	if snap.Total != 3 {
		t.Errorf("total = %d, want 3", snap.Total)
	}
	if snap.Categories["cards"] != 2 || snap.Categories["ui"] != 1 {
		t.Errorf("categories = %v", snap.Categories)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"clean-name_1.png", "clean-name_1.png"},
		{"bad name?.png", "bad_name_.png"},
		{"sprite/atlas:0", "sprite_atlas_0"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{"bad name?.png", "sprite/atlas:0", "ok.png", "日本語.png"}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize(%q): second pass changed %q to %q", in, once, twice)
		}
	}
}

func TestSuffixed(t *testing.T) {
	tests := []struct {
		base string
		n    int
		want string
	}{
		{"card.png", 0, "card.png"},
		{"card.png", 1, "card_1.png"},
		{"card.png", 12, "card_12.png"},
		{"noext", 2, "noext_2"},
		{"a.b.png", 1, "a.b_1.png"},
	}
	for _, tt := range tests {
		if got := suffixed(tt.base, tt.n); got != tt.want {
			t.Errorf("suffixed(%q, %d) = %q, want %q", tt.base, tt.n, got, tt.want)
		}
	}
}

func TestKeyCategory(t *testing.T) {
	tests := []struct {
		key  string
		want Category
	}{
		{"cards/a.png", "cards"},
		{"cards/arts/a.png", "cards"},
		{"metadata.json", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		if got := KeyCategory(tt.key); got != tt.want {
			t.Errorf("KeyCategory(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
