// Package files is the filesystem seam: directory creation, entry
// discovery by suffix and modification times, all over an afero.Fs so tests
// can run against memory.
package files

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/vinayprograms/tanager/internal/apperr"
	"github.com/vinayprograms/tanager/internal/parallel"
)

// Store wraps a filesystem.
type Store struct {
	fs afero.Fs
}

// NewStore returns a Store over fs.
func NewStore(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewOSStore returns a Store over the real filesystem.
func NewOSStore() *Store {
	return NewStore(afero.NewOsFs())
}

// Fs exposes the underlying filesystem.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// EnsureDir creates dir and any missing parents. Existing directories are
// not an error.
func (s *Store) EnsureDir(dir string) error {
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return nil
}

// Exists reports whether path exists.
func (s *Store) Exists(path string) (bool, error) {
	return afero.Exists(s.fs, path)
}

// ReadFile returns the contents of path.
func (s *Store) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(s.fs, path)
}

// ModTime returns the modification time of path.
func (s *Store) ModTime(path string) (time.Time, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Find lists the files under dir, at any depth, whose names end in one of
// suffixes. Paths are absolute (joined onto dir) and sorted. Anything
// inside a .git directory is skipped. A missing dir yields no files; an
// unreadable directory below it is an error. Suffixes match literally.
func (s *Store) Find(dir string, suffixes []string) ([]string, error) {
	exists, err := afero.DirExists(s.fs, dir)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	fsys := afero.NewIOFS(afero.NewBasePathFs(s.fs, dir))

	var found []string
	for _, suffix := range suffixes {
		matches, err := doublestar.Glob(fsys, "**/*"+doublestar.EscapeMeta(suffix), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, fmt.Errorf("failed to search %s for *%s: %w", dir, suffix, err)
		}
		for _, m := range matches {
			if inGitDir(m) {
				continue
			}
			found = append(found, filepath.Join(dir, filepath.FromSlash(m)))
		}
	}

	slices.Sort(found)
	return slices.Compact(found), nil
}

func inGitDir(slashPath string) bool {
	for _, part := range strings.Split(slashPath, "/") {
		if part == ".git" {
			return true
		}
	}
	return false
}

// Stamp is a file path with its modification time.
type Stamp struct {
	Path    string
	ModTime time.Time
}

// Stamps stats every path concurrently and waits for all of them. The first
// failing stat, in path order, is returned. Directories are dropped.
func (s *Store) Stamps(paths []string) ([]Stamp, error) {
	stamped, err := parallel.Map(paths, func(path string) (*Stamp, error) {
		info, err := s.fs.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, nil
		}
		return &Stamp{Path: path, ModTime: info.ModTime()}, nil
	})
	if err != nil {
		return nil, err
	}

	stamps := make([]Stamp, 0, len(stamped))
	for _, st := range stamped {
		if st != nil {
			stamps = append(stamps, *st)
		}
	}
	return stamps, nil
}

// Newest returns the stamp with the latest modification time. Among equal
// times any of the tied stamps may be returned.
func Newest(stamps []Stamp) (Stamp, bool) {
	if len(stamps) == 0 {
		return Stamp{}, false
	}
	newest := stamps[0]
	for _, st := range stamps[1:] {
		if st.ModTime.After(newest.ModTime) {
			newest = st
		}
	}
	return newest, true
}

// SortNewestFirst orders stamps by descending modification time, then path.
func SortNewestFirst(stamps []Stamp) {
	slices.SortFunc(stamps, func(a, b Stamp) int {
		if c := b.ModTime.Compare(a.ModTime); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
}

// Latest returns the most recently modified file under dir matching
// suffixes. It returns apperr.ErrNoFiles when nothing matches.
func (s *Store) Latest(dir string, suffixes []string) (string, error) {
	paths, err := s.Find(dir, suffixes)
	if err != nil {
		return "", err
	}

	stamps, err := s.Stamps(paths)
	if err != nil {
		return "", err
	}

	newest, ok := Newest(stamps)
	if !ok {
		return "", fmt.Errorf("%w: %s", apperr.ErrNoFiles, dir)
	}
	return newest.Path, nil
}
