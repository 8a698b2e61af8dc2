package extract

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafePath marks an archive entry whose path would escape the
// unpack directory. One such entry fails the whole unpack: the archive
// is hostile, not damaged.
var ErrUnsafePath = errors.New("extract: entry path escapes unpack dir")

// UnpackReport accounts for one archive unpack.
type UnpackReport struct {
	// Entries is the number of entries in the archive, directories
	// included.
	Entries int
	// Unpacked is the number of files written.
	Unpacked int
	// Skipped is the number of entries that failed to extract.
	Skipped int
}

// Unpack expands a zip archive into dir. An entry that fails to
// extract is skipped and counted; a path traversal entry aborts with
// ErrUnsafePath. A corrupt archive fails outright.
func Unpack(ctx context.Context, archivePath, dir string) (*UnpackReport, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("extract: open archive %s: %w", archivePath, err)
	}
	defer r.Close()

	report := &UnpackReport{Entries: len(r.File)}
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if err := unpackEntry(f, dir); err != nil {
			if errors.Is(err, ErrUnsafePath) {
				return report, fmt.Errorf("%w: %s", ErrUnsafePath, f.Name)
			}
			slog.Debug("archive entry skipped", "entry", f.Name, "error", err)
			report.Skipped++
			continue
		}
		report.Unpacked++
	}
	return report, nil
}

func unpackEntry(f *zip.File, dir string) error {
	dest := filepath.Join(dir, filepath.FromSlash(f.Name))
	if !strings.HasPrefix(dest, filepath.Clean(dir)+string(os.PathSeparator)) {
		return ErrUnsafePath
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	w, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, rc); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
