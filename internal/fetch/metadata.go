package fetch

import (
	"context"
	"encoding/json"
	"fmt"

	"gocloud.dev/blob"

	"github.com/quinnjr/fgo-sheba/pkg/corpus"
)

// MetadataName is the key of the run manifest at the bucket root.
const MetadataName = "metadata.json"

// Metadata records where a corpus came from and what it holds.
type Metadata struct {
	Region     string                    `json:"region"`
	Source     string                    `json:"source"`
	APIBase    string                    `json:"api_base"`
	CDNBase    string                    `json:"cdn_base"`
	Categories map[corpus.Category]int64 `json:"categories"`
	Total      int64                     `json:"total"`
}

// WriteMetadata stores the run manifest from the current counters. The
// manifest describes the run, not an asset, so a rerun replaces it.
func (c *Collector) WriteMetadata(ctx context.Context) error {
	snap := c.stats.Snapshot()
	meta := Metadata{
		Region:     string(c.region),
		Source:     "Atlas Academy",
		APIBase:    c.client.APIBaseURL(),
		CDNBase:    c.client.CDNBaseURL(),
		Categories: snap.Categories,
		Total:      snap.Total,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("fetch: encode metadata: %w", err)
	}
	if err := c.bucket.WriteAll(ctx, MetadataName, data, nil); err != nil {
		return fmt.Errorf("fetch: write metadata: %w", err)
	}
	return nil
}

// ReadMetadata loads a previously written run manifest from the bucket
// root.
func ReadMetadata(ctx context.Context, bucket *blob.Bucket) (*Metadata, error) {
	data, err := bucket.ReadAll(ctx, MetadataName)
	if err != nil {
		return nil, fmt.Errorf("fetch: read metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("fetch: decode metadata: %w", err)
	}
	return &meta, nil
}
