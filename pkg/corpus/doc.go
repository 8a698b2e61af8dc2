// Package corpus provides types for building category-partitioned image
// corpora in cloud storage.
//
// A corpus is a flat bucket of images laid out as {category}/{file}, built
// from either a remote CDN or the contents of an application package. The
// package covers the pipeline stages between raw bytes and stored files:
// signature sniffing, directory scanning, categorization, collision-safe
// writing, counting, dataset preparation, and validation. Storage is
// accessed through gocloud.dev/blob, so local directories, in-memory
// buckets, and S3-compatible stores all work.
//
// # Sniffing
//
// [Sniff] classifies a byte prefix against a closed table of magic
// signatures: Unity asset bundles (UnityFS, UnityWeb, UnityRaw) and
// standalone images (PNG, JPEG, WEBP). File extensions play no part.
//
// # Scanning
//
// [Scanner] walks a directory tree and yields one [Entry] per file whose
// leading bytes match a known signature. Call [Scanner.Next] until it
// returns io.EOF. Unrecognized or unreadable files are skipped.
//
// # Categorizing
//
// [Categorizer] assigns each asset exactly one [Category] using an ordered
// [RuleTable]; earlier rules win and [Unknown] is the guaranteed fallback,
// so classification is total. For command cards, a color fallback samples
// the image center when the name gives no signal.
//
// # Writing
//
// [Writer] persists images under {category}/{name} with sanitized names
// and deterministic collision suffixes (_1, _2, ...). It never overwrites:
// keys are claimed under a lock before the write begins.
//
// # Datasets
//
// [BuildCards], [BuildServants], and [BuildClassIcons] turn a corpus into
// training datasets (class subdirectories of normalized images) and write
// a dataset_info.json summary.
//
// # Validation
//
// [Validate] recounts a corpus bucket and compares it against the
// per-category counts a run summary recorded. Problems are reported in the
// [ValidationResult], not as errors.
package corpus
