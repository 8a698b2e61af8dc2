// Package atlas talks to the Atlas Academy API and asset CDN.
//
// This package handles:
//   - Bulk JSON exports (servant and craft essence manifests)
//   - Per-servant detail records (command card decks)
//   - CDN URL construction for faces, portraits, cards, skill icons,
//     class icons, and fixed UI assets
//   - Retry with exponential backoff
//
// # Usage
//
//	client := atlas.NewClient(atlas.DefaultOptions())
//
//	// Fetch the servant manifest
//	servants, err := client.BasicServants(ctx, atlas.RegionNA)
//
//	// Download one asset
//	data, err := client.GetBytes(ctx, client.FaceURL(atlas.RegionNA, servants[0].ID))
//
// All endpoints are public game data exports. 4xx responses are final;
// connection failures and 5xx responses retry with backoff.
package atlas
