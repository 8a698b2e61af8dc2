package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"gocloud.dev/blob"
	"golang.org/x/image/draw"

	// Registers the webp decoder; png and jpeg register via the named
	// imports above.
	_ "golang.org/x/image/webp"
)

// DatasetInfoName is where dataset summaries are stored.
const DatasetInfoName = "dataset_info.json"

// Output edges for the fixed-size datasets.
const (
	servantEdge   = 128
	classIconEdge = 64
)

// DatasetOptions configures card dataset preparation.
type DatasetOptions struct {
	// Classes are the dataset's class labels. Images already sorted into
	// a {class}/ subdirectory of cards/ keep that class.
	Classes []Category
	// Rules classify loose card images by name before the color fallback
	// runs. May be nil to go straight to color.
	Rules RuleTable
	// ColorThreshold is the minimum mean channel value for the color
	// fallback. Zero disables it.
	ColorThreshold float64
	// ResizeTo scales output to a square of this edge. Zero keeps images
	// at their stored size and copies their bytes untouched.
	ResizeTo int
}

// FetchedCardDataset configures card preparation for CDN-downloaded
// corpora: no np class, color-only classification at threshold 150, and
// 224x224 output for the classifier's input size.
func FetchedCardDataset() DatasetOptions {
	return DatasetOptions{
		Classes:        []Category{"buster", "arts", "quick", Unknown},
		ColorThreshold: 150,
		ResizeTo:       224,
	}
}

// ExtractedCardDataset configures card preparation for bundle-extracted
// corpora: np is a class, names are matched before color, the threshold
// is 180, and images keep their original size.
func ExtractedCardDataset() DatasetOptions {
	return DatasetOptions{
		Classes:        CardRules.Categories(),
		Rules:          CardRules,
		ColorThreshold: 180,
	}
}

// DatasetInfo summarizes a prepared dataset.
type DatasetInfo struct {
	Classes map[Category]int64 `json:"classes"`
	Total   int64              `json:"total"`
}

// BuildCards prepares a card classification dataset from the cards/ tree
// of a corpus. Images already sorted into a known class subdirectory keep
// their class; loose images are classified by name and then by center
// color. Undecodable images are skipped. The dataset_info.json summary is
// written to the destination before returning.
func BuildCards(ctx context.Context, src, dst *blob.Bucket, opts DatasetOptions) (DatasetInfo, error) {
	info := DatasetInfo{Classes: make(map[Category]int64, len(opts.Classes))}
	for _, cls := range opts.Classes {
		info.Classes[cls] = 0
	}

	known := make(map[Category]bool, len(opts.Classes))
	for _, cls := range opts.Classes {
		known[cls] = true
	}

	classifier := NewCategorizer(opts.Rules, WithColorFallback(opts.ColorThreshold))
	writer := NewWriter(dst)

	it := src.List(&blob.ListOptions{Prefix: "cards/"})
	for {
		obj, err := it.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return info, fmt.Errorf("corpus: list cards: %w", err)
		}

		data, err := src.ReadAll(ctx, obj.Key)
		if err != nil {
			continue
		}

		rel := strings.TrimPrefix(obj.Key, "cards/")
		name := path.Base(rel)
		stem := strings.TrimSuffix(name, path.Ext(name))

		var (
			img    image.Image
			format string
		)
		decode := func() bool {
			if img != nil {
				return true
			}
			var err error
			img, format, err = decodeImage(data)
			return err == nil
		}

		var class Category
		if dir, _, ok := strings.Cut(rel, "/"); ok && known[Category(dir)] {
			class = Category(dir)
		} else {
			class = classifier.Categorize(stem, "")
			if class == Unknown && opts.ColorThreshold > 0 {
				if !decode() {
					continue
				}
				class = classifyByColor(img, opts.ColorThreshold)
			}
		}

		out := data
		if opts.ResizeTo > 0 {
			if !decode() {
				continue
			}
			if format == "webp" {
				// No webp encoder; resized output becomes PNG.
				name = stem + ".png"
				format = "png"
			}
			out, err = encodeImage(resizeSquare(img, opts.ResizeTo), format)
			if err != nil {
				continue
			}
		}

		if _, err := writer.Write(ctx, class, name, out); err != nil {
			return info, err
		}
		info.Classes[class]++
		info.Total++
	}

	if err := WriteDatasetInfo(ctx, dst, info); err != nil {
		return info, err
	}
	return info, nil
}

// BuildServants normalizes servant faces and portraits to 128x128,
// keeping the faces/ and portraits/ split in the destination.
func BuildServants(ctx context.Context, src, dst *blob.Bucket) (int64, error) {
	writer := NewWriter(dst)

	var written int64
	for _, sub := range []string{"faces", "portraits"} {
		prefix := "servants/" + sub + "/"
		it := src.List(&blob.ListOptions{Prefix: prefix})
		for {
			obj, err := it.Next(ctx)
			if err == io.EOF {
				break
			}
			if err != nil {
				return written, fmt.Errorf("corpus: list %s: %w", prefix, err)
			}

			out, name, ok := renderSquare(ctx, src, obj.Key, servantEdge)
			if !ok {
				continue
			}
			if _, err := writer.Write(ctx, Category(sub), name, out); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}

// BuildClassIcons normalizes class icons to 64x64, written flat into the
// destination bucket.
func BuildClassIcons(ctx context.Context, src, dst *blob.Bucket) (int64, error) {
	writer := NewWriter(dst)

	var written int64
	it := src.List(&blob.ListOptions{Prefix: "class_icons/"})
	for {
		obj, err := it.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return written, fmt.Errorf("corpus: list class_icons: %w", err)
		}

		out, name, ok := renderSquare(ctx, src, obj.Key, classIconEdge)
		if !ok {
			continue
		}
		if _, err := writer.Write(ctx, "", name, out); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// WriteDatasetInfo stores the dataset summary in the destination bucket.
func WriteDatasetInfo(ctx context.Context, dst *blob.Bucket, info DatasetInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("corpus: marshal dataset info: %w", err)
	}
	if err := dst.WriteAll(ctx, DatasetInfoName, data, nil); err != nil {
		return fmt.Errorf("corpus: write dataset info: %w", err)
	}
	return nil
}

// renderSquare reads one object, decodes it, and re-encodes it as a PNG
// square of the given edge. ok is false for objects that cannot be read
// or decoded; those are skipped by the callers.
func renderSquare(ctx context.Context, src *blob.Bucket, key string, edge int) (data []byte, name string, ok bool) {
	raw, err := src.ReadAll(ctx, key)
	if err != nil {
		return nil, "", false
	}
	img, _, err := decodeImage(raw)
	if err != nil {
		return nil, "", false
	}
	out, err := encodeImage(resizeSquare(img, edge), "png")
	if err != nil {
		return nil, "", false
	}

	name = path.Base(key)
	if ext := path.Ext(name); ext != ".png" {
		name = strings.TrimSuffix(name, ext) + ".png"
	}
	return out, name, true
}

// decodeImage decodes PNG, JPEG, or WEBP bytes.
func decodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("corpus: decode image: %w", err)
	}
	return img, format, nil
}

// encodeImage encodes to the named format; anything but jpeg becomes PNG.
func encodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("corpus: encode jpeg: %w", err)
		}
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("corpus: encode png: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// resizeSquare scales an image to an edge x edge square with Catmull-Rom
// resampling.
func resizeSquare(img image.Image, edge int) image.Image {
	if b := img.Bounds(); b.Dx() == edge && b.Dy() == edge {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, edge, edge))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
