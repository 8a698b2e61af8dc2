package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// openBucket opens an output root as a bucket. Anything with a scheme
// goes through the gocloud URL muxer; a plain path becomes a local
// fileblob bucket, created on demand and without metadata sidecars.
func openBucket(ctx context.Context, output string) (*blob.Bucket, error) {
	if strings.Contains(output, "://") {
		bucket, err := blob.OpenBucket(ctx, output)
		if err != nil {
			return nil, fmt.Errorf("open bucket %s: %w", output, err)
		}
		return bucket, nil
	}
	bucket, err := fileblob.OpenBucket(output, &fileblob.Options{
		CreateDir: true,
		Metadata:  fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("open output dir %s: %w", output, err)
	}
	return bucket, nil
}

// openCorpus opens the sub-corpus under the output root, e.g. assets/.
// Closing the returned bucket closes the root.
func openCorpus(ctx context.Context, output, sub string) (*blob.Bucket, error) {
	root, err := openBucket(ctx, output)
	if err != nil {
		return nil, err
	}
	if sub == "" {
		return root, nil
	}
	return blob.PrefixedBucket(root, sub+"/"), nil
}

// runLock guards a local output root against concurrent writing runs,
// whose collision suffixes would interleave. Bucket URLs get no lock;
// the writer's claim-and-probe is the only guard there.
func runLock(output string) (func(), error) {
	if strings.Contains(output, "://") {
		return func() {}, nil
	}
	if err := os.MkdirAll(output, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	lock := flock.New(filepath.Join(output, ".sheba.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another run is already writing to %s", output)
	}
	return func() { _ = lock.Unlock() }, nil
}
