// Package fetch drives asset collection runs against the Atlas Academy
// API and CDN.
//
// A run walks a fixed sequence of phases: servant faces and portraits,
// command cards, skill icons, class icons, battle UI, and optionally
// craft essences. Each phase builds download tasks and hands them to
// the batch executor, so one failing task never stops its siblings.
// Assets land in a bucket under category prefixes, and a metadata.json
// manifest at the root records the source and the final counts.
//
// # Usage
//
//	client := atlas.NewClient(atlas.DefaultOptions())
//	collector := fetch.New(client, bucket, atlas.RegionNA, fetch.Options{Limit: 10})
//	report, err := collector.Run(ctx)
//
// The report carries per-phase task counts, the category totals, and
// the number of bytes written.
package fetch
