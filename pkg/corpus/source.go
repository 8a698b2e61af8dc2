package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Object is one named image pulled out of a scanned entry.
type Object struct {
	Name string
	Data []byte
}

// ObjectSource turns a validated entry into the images it holds.
//
// Implementations must isolate per-object failures: one undecodable
// object inside a container is dropped without affecting its siblings.
// A container that cannot be opened at all returns an error; callers
// record it as a failed task and continue with the rest of the scan.
type ObjectSource interface {
	Objects(ctx context.Context, entry *Entry) ([]Object, error)
}

// ImageFile reads entries that already are standalone images, yielding a
// single object named after the file. Files without an extension get the
// sniffed format appended so the stored name keeps its type. Container
// entries yield nothing.
type ImageFile struct{}

// Objects implements ObjectSource.
func (ImageFile) Objects(_ context.Context, entry *Entry) ([]Object, error) {
	if !entry.Format.IsImage() {
		return nil, nil
	}

	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("corpus: read %s: %w", entry.Path, err)
	}

	name := filepath.Base(entry.Path)
	if filepath.Ext(name) == "" {
		name += "." + entry.Format.Name
	}
	return []Object{{Name: name, Data: data}}, nil
}
