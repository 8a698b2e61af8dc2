package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"testing"

	"gocloud.dev/blob"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeBounds(t *testing.T, data []byte) image.Rectangle {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return img.Bounds()
}

func seedBucket(t *testing.T, bucket *blob.Bucket, objects map[string][]byte) {
	t.Helper()
	ctx := context.Background()
	for key, data := range objects {
		if err := bucket.WriteAll(ctx, key, data, nil); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}
}

func TestBuildCardsExtracted(t *testing.T) {
	ctx := context.Background()
	src := openTestBucket(t)
	dst := openTestBucket(t)

	red := encodePNG(t, solidImage(64, 64, color.RGBA{200, 10, 10, 255}))
	blue := encodePNG(t, solidImage(64, 64, color.RGBA{10, 10, 200, 255}))
	gray := encodePNG(t, solidImage(64, 64, color.RGBA{128, 128, 128, 255}))
	seedBucket(t, src, map[string][]byte{
		"cards/0001.png": red,
		"cards/0002.png": blue,
		"cards/0003.png": gray,
	})

	info, err := BuildCards(ctx, src, dst, ExtractedCardDataset())
	if err != nil {
		t.Fatalf("BuildCards: %v", err)
	}

	if info.Total != 3 {
		t.Fatalf("total = %d, want 3", info.Total)
	}
	if info.Classes["buster"] != 1 || info.Classes["arts"] != 1 || info.Classes[Unknown] != 1 {
		t.Fatalf("classes = %v", info.Classes)
	}

	// Without a resize the bytes pass through untouched.
	got, err := dst.ReadAll(ctx, "buster/0001.png")
	if err != nil {
		t.Fatalf("read buster/0001.png: %v", err)
	}
	if !bytes.Equal(got, red) {
		t.Error("copied image bytes changed")
	}

	// The summary lands next to the classes.
	data, err := dst.ReadAll(ctx, DatasetInfoName)
	if err != nil {
		t.Fatalf("read %s: %v", DatasetInfoName, err)
	}
	var stored DatasetInfo
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("unmarshal %s: %v", DatasetInfoName, err)
	}
	if stored.Total != info.Total {
		t.Errorf("stored total = %d, want %d", stored.Total, info.Total)
	}
	if stored.Classes["np"] != 0 {
		t.Errorf("stored np = %d, want 0", stored.Classes["np"])
	}
}

func TestBuildCardsFetchedResizes(t *testing.T) {
	ctx := context.Background()
	src := openTestBucket(t)
	dst := openTestBucket(t)

	// Presorted under arts/ even though the pixels are red: the existing
	// class wins over color.
	red := encodePNG(t, solidImage(64, 64, color.RGBA{200, 10, 10, 255}))
	seedBucket(t, src, map[string][]byte{"cards/arts/777_card1.png": red})

	info, err := BuildCards(ctx, src, dst, FetchedCardDataset())
	if err != nil {
		t.Fatalf("BuildCards: %v", err)
	}
	if info.Classes["arts"] != 1 || info.Total != 1 {
		t.Fatalf("info = %+v, want one arts image", info)
	}

	data, err := dst.ReadAll(ctx, "arts/777_card1.png")
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if bounds := decodeBounds(t, data); bounds.Dx() != 224 || bounds.Dy() != 224 {
		t.Fatalf("output bounds = %v, want 224x224", bounds)
	}
}

func TestBuildCardsNameBeforeColor(t *testing.T) {
	ctx := context.Background()
	src := openTestBucket(t)
	dst := openTestBucket(t)

	// Red pixels, quick name. The name rule decides.
	red := encodePNG(t, solidImage(64, 64, color.RGBA{200, 10, 10, 255}))
	seedBucket(t, src, map[string][]byte{"cards/cmd_card_quick_7.png": red})

	info, err := BuildCards(ctx, src, dst, ExtractedCardDataset())
	if err != nil {
		t.Fatalf("BuildCards: %v", err)
	}
	if info.Classes["quick"] != 1 {
		t.Fatalf("classes = %v, want quick=1", info.Classes)
	}
	if ok, err := dst.Exists(ctx, "quick/cmd_card_quick_7.png"); err != nil || !ok {
		t.Fatalf("expected quick/cmd_card_quick_7.png (exists %t, err %v)", ok, err)
	}
}

func TestBuildCardsSkipsUndecodable(t *testing.T) {
	ctx := context.Background()
	src := openTestBucket(t)
	dst := openTestBucket(t)

	seedBucket(t, src, map[string][]byte{"cards/broken.png": []byte("not an image")})

	info, err := BuildCards(ctx, src, dst, ExtractedCardDataset())
	if err != nil {
		t.Fatalf("BuildCards: %v", err)
	}
	if info.Total != 0 {
		t.Fatalf("total = %d, want 0", info.Total)
	}

	// The summary is still written for an empty dataset.
	if ok, err := dst.Exists(ctx, DatasetInfoName); err != nil || !ok {
		t.Fatalf("expected %s (exists %t, err %v)", DatasetInfoName, ok, err)
	}
}

func TestBuildServants(t *testing.T) {
	ctx := context.Background()
	src := openTestBucket(t)
	dst := openTestBucket(t)

	face := encodePNG(t, solidImage(30, 50, color.RGBA{90, 90, 90, 255}))
	portrait := encodePNG(t, solidImage(60, 60, color.RGBA{90, 90, 90, 255}))
	seedBucket(t, src, map[string][]byte{
		"servants/faces/1_100100_face.png":         face,
		"servants/portraits/1_100100_portrait.png": portrait,
		"servants/faces/notes.txt":                 []byte("not an image"),
	})

	n, err := BuildServants(ctx, src, dst)
	if err != nil {
		t.Fatalf("BuildServants: %v", err)
	}
	if n != 2 {
		t.Fatalf("wrote %d images, want 2", n)
	}

	for _, key := range []string{"faces/1_100100_face.png", "portraits/1_100100_portrait.png"} {
		data, err := dst.ReadAll(ctx, key)
		if err != nil {
			t.Fatalf("read %s: %v", key, err)
		}
		if bounds := decodeBounds(t, data); bounds.Dx() != 128 || bounds.Dy() != 128 {
			t.Errorf("%s bounds = %v, want 128x128", key, bounds)
		}
	}
}

func TestBuildClassIcons(t *testing.T) {
	ctx := context.Background()
	src := openTestBucket(t)
	dst := openTestBucket(t)

	icon := encodePNG(t, solidImage(100, 100, color.RGBA{30, 30, 30, 255}))
	seedBucket(t, src, map[string][]byte{"class_icons/saber.png": icon})

	n, err := BuildClassIcons(ctx, src, dst)
	if err != nil {
		t.Fatalf("BuildClassIcons: %v", err)
	}
	if n != 1 {
		t.Fatalf("wrote %d images, want 1", n)
	}

	data, err := dst.ReadAll(ctx, "saber.png")
	if err != nil {
		t.Fatalf("read saber.png: %v", err)
	}
	if bounds := decodeBounds(t, data); bounds.Dx() != 64 || bounds.Dy() != 64 {
		t.Fatalf("bounds = %v, want 64x64", bounds)
	}
}
