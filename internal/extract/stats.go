package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"gocloud.dev/blob"

	"github.com/quinnjr/fgo-sheba/pkg/corpus"
)

// StatsName is the key of the run summary at the bucket root.
const StatsName = "extraction_stats.json"

// ExtractionStats is the persisted run summary.
type ExtractionStats struct {
	TotalFiles      int                       `json:"total_files"`
	ExtractedImages int64                     `json:"extracted_images"`
	Categories      map[corpus.Category]int64 `json:"categories"`
}

// WriteStats stores the run summary at the bucket root. The summary
// describes the run, not an asset, so a rerun replaces it.
func (e *Extractor) WriteStats(ctx context.Context, report *Report) error {
	stats := ExtractionStats{
		TotalFiles:      report.TotalFiles,
		ExtractedImages: report.Extracted,
		Categories:      report.Stats.Categories,
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("extract: encode stats: %w", err)
	}
	if err := e.bucket.WriteAll(ctx, StatsName, data, nil); err != nil {
		return fmt.Errorf("extract: write stats: %w", err)
	}
	return nil
}

// ReadStats loads a previously written run summary from the bucket
// root.
func ReadStats(ctx context.Context, bucket *blob.Bucket) (*ExtractionStats, error) {
	data, err := bucket.ReadAll(ctx, StatsName)
	if err != nil {
		return nil, fmt.Errorf("extract: read stats: %w", err)
	}
	var stats ExtractionStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("extract: decode stats: %w", err)
	}
	return &stats, nil
}
