package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinayprograms/tanager/internal/apperr"
)

func writeAt(t *testing.T, fs afero.Fs, path string, unix int64) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte("entry"), 0644))
	mtime := time.Unix(unix, 0)
	require.NoError(t, fs.Chtimes(path, mtime, mtime))
}

func TestEnsureDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewStore(fs)

	require.NoError(t, s.EnsureDir("/notes/2017/12"))
	ok, err := afero.DirExists(fs, "/notes/2017/12")
	require.NoError(t, err)
	assert.True(t, ok)

	// existing directories are fine
	require.NoError(t, s.EnsureDir("/notes/2017"))
}

func TestFind(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAt(t, fs, "/notes/a.md", 1)
	writeAt(t, fs, "/notes/2017/b.md", 2)
	writeAt(t, fs, "/notes/2017/12/c.md", 3)
	writeAt(t, fs, "/notes/2017/skip.txt", 4)
	writeAt(t, fs, "/notes/.git/ignored.md", 5)
	writeAt(t, fs, "/elsewhere/d.md", 6)

	got, err := NewStore(fs).Find("/notes", []string{".md"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.FromSlash("/notes/2017/12/c.md"),
		filepath.FromSlash("/notes/2017/b.md"),
		filepath.FromSlash("/notes/a.md"),
	}, got)
}

func TestFindMissingDir(t *testing.T) {
	got, err := NewStore(afero.NewMemMapFs()).Find("/nowhere", []string{".md"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindSuffixIsLiteral(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAt(t, fs, "/notes/a.[x]", 1)
	writeAt(t, fs, "/notes/b.x", 2)
	writeAt(t, fs, "/notes/c.md*", 3)
	writeAt(t, fs, "/notes/d.md", 4)

	s := NewStore(fs)

	got, err := s.Find("/notes", []string{".[x]"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.FromSlash("/notes/a.[x]")}, got)

	got, err = s.Find("/notes", []string{".md*"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.FromSlash("/notes/c.md*")}, got)
}

// lockedFs fails to open one directory, like a permission error would.
type lockedFs struct {
	afero.Fs
	locked string
}

func (l lockedFs) Open(name string) (afero.File, error) {
	if filepath.Clean(name) == l.locked {
		return nil, os.ErrPermission
	}
	return l.Fs.Open(name)
}

func (l lockedFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if filepath.Clean(name) == l.locked {
		return nil, os.ErrPermission
	}
	return l.Fs.OpenFile(name, flag, perm)
}

func TestFindUnreadableDirectory(t *testing.T) {
	mem := afero.NewMemMapFs()
	writeAt(t, mem, "/notes/a.md", 1)
	writeAt(t, mem, "/notes/private/b.md", 2)

	s := NewStore(lockedFs{Fs: mem, locked: filepath.FromSlash("/notes/private")})

	_, err := s.Find("/notes", []string{".md"})
	assert.ErrorIs(t, err, os.ErrPermission)

	_, err = s.Latest("/notes", []string{".md"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrNoFiles)
}

func TestNewestEveryOrder(t *testing.T) {
	a := Stamp{Path: "a", ModTime: time.Unix(100, 0)}
	b := Stamp{Path: "b", ModTime: time.Unix(500, 0)}
	c := Stamp{Path: "c", ModTime: time.Unix(250, 0)}

	orders := [][]Stamp{
		{a, b, c}, {a, c, b}, {b, a, c},
		{b, c, a}, {c, a, b}, {c, b, a},
	}
	for _, order := range orders {
		got, ok := Newest(order)
		require.True(t, ok)
		assert.Equal(t, "b", got.Path)
	}

	_, ok := Newest(nil)
	assert.False(t, ok)
}

func TestLatest(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAt(t, fs, "/notes/2017/one.md", 100)
	writeAt(t, fs, "/notes/2018/two.md", 500)
	writeAt(t, fs, "/notes/three.md", 250)
	writeAt(t, fs, "/notes/newer.txt", 900)

	got, err := NewStore(fs).Latest("/notes", []string{".md"})
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/notes/2018/two.md"), got)
}

func TestLatestNoFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/notes", 0755))
	writeAt(t, fs, "/notes/readme.txt", 1)

	_, err := NewStore(fs).Latest("/notes", []string{".md"})
	assert.ErrorIs(t, err, apperr.ErrNoFiles)
}

func TestSortNewestFirst(t *testing.T) {
	stamps := []Stamp{
		{Path: "b", ModTime: time.Unix(100, 0)},
		{Path: "c", ModTime: time.Unix(300, 0)},
		{Path: "a", ModTime: time.Unix(100, 0)},
	}
	SortNewestFirst(stamps)

	var paths []string
	for _, st := range stamps {
		paths = append(paths, st.Path)
	}
	assert.Equal(t, []string{"c", "a", "b"}, paths)
}

func TestExistsAndRead(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAt(t, fs, "/notes/a.md", 1)
	s := NewStore(fs)

	ok, err := s.Exists("/notes/a.md")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists("/notes/missing.md")
	require.NoError(t, err)
	assert.False(t, ok)

	data, err := s.ReadFile("/notes/a.md")
	require.NoError(t, err)
	assert.Equal(t, "entry", string(data))

	mtime, err := s.ModTime("/notes/a.md")
	require.NoError(t, err)
	assert.Equal(t, int64(1), mtime.Unix())
}
