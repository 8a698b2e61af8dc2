package corpus

import (
	"io"
	"os"
	"path/filepath"
)

// Entry is one file that passed signature inspection during a scan.
type Entry struct {
	// Path locates the file on disk.
	Path string
	// Rel is the path relative to the scan root, slash-separated.
	Rel string
	// Format is the sniffed signature.
	Format Format
	// Size is the file size in bytes.
	Size int64
}

// Scanner walks a directory tree and yields entries whose leading bytes
// match a known container or image signature. The walk is breadth-first
// and visits directory entries in name order, so the sequence is
// deterministic for a given tree. A Scanner is single-pass; create a new
// one to walk again.
type Scanner struct {
	root  string
	dirs  []string
	files []string
}

// NewScanner returns a scanner rooted at the given directory.
func NewScanner(root string) *Scanner {
	return &Scanner{root: root, dirs: []string{root}}
}

// Next returns the next recognized entry, or io.EOF once the walk is
// complete. Files that cannot be read and files matching no signature are
// skipped silently; the scan is best-effort by contract.
func (s *Scanner) Next() (*Entry, error) {
	for {
		for len(s.files) == 0 {
			if len(s.dirs) == 0 {
				return nil, io.EOF
			}
			dir := s.dirs[0]
			s.dirs = s.dirs[1:]

			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, e := range entries {
				p := filepath.Join(dir, e.Name())
				switch {
				case e.IsDir():
					s.dirs = append(s.dirs, p)
				case e.Type().IsRegular():
					s.files = append(s.files, p)
				}
			}
		}

		path := s.files[0]
		s.files = s.files[1:]

		if entry := s.sniffFile(path); entry != nil {
			return entry, nil
		}
	}
}

func (s *Scanner) sniffFile(path string) *Entry {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	prefix := make([]byte, SniffLen)
	n, _ := io.ReadFull(f, prefix)

	format := Sniff(prefix[:n])
	if format.Kind == KindUnrecognized {
		return nil
	}

	info, err := f.Stat()
	if err != nil {
		return nil
	}

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = filepath.Base(path)
	}

	return &Entry{
		Path:   path,
		Rel:    filepath.ToSlash(rel),
		Format: format,
		Size:   info.Size(),
	}
}
