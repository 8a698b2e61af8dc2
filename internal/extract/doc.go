// Package extract turns unpacked game files into a categorized image
// corpus.
//
// The pipeline has three stages: unpack a zip archive into a
// directory, scan that directory for files whose leading bytes sniff
// as an image or asset container, then expand each file through an
// ObjectSource and write the results into category prefixes. The
// built-in source passes plain image files through and yields nothing
// for containers; a Unity asset decoder can be plugged in via
// Options.Source.
//
// A per-file failure is counted and logged, never fatal. The run
// summary lands in extraction_stats.json at the bucket root.
package extract
