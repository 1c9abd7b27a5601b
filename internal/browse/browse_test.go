package browse

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinayprograms/tanager/internal/files"
)

func stamps(paths ...string) []files.Stamp {
	out := make([]files.Stamp, len(paths))
	for i, p := range paths {
		out[i] = files.Stamp{Path: p, ModTime: time.Unix(int64(1000-i), 0)}
	}
	return out
}

func newTestModel(t *testing.T, load Loader) Model {
	t.Helper()
	m, err := NewModel("journal", "/notes", load, nil, zerolog.Nop())
	require.NoError(t, err)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func TestEnterSelectsEntry(t *testing.T) {
	m := newTestModel(t, func() ([]files.Stamp, error) {
		return stamps("/notes/2017/b.md", "/notes/a.md"), nil
	})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, "/notes/2017/b.md", next.(Model).Selected())
}

func TestQuitSelectsNothing(t *testing.T) {
	m := newTestModel(t, func() ([]files.Stamp, error) {
		return stamps("/notes/a.md"), nil
	})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Empty(t, next.(Model).Selected())
	assert.Empty(t, next.(Model).View())
}

func TestFileChangeReloads(t *testing.T) {
	calls := 0
	m := newTestModel(t, func() ([]files.Stamp, error) {
		calls++
		if calls == 1 {
			return stamps("/notes/a.md"), nil
		}
		return stamps("/notes/new.md", "/notes/a.md"), nil
	})

	next, _ := m.Update(fileChangedMsg{})
	assert.Equal(t, 2, calls)

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "/notes/new.md", next.(Model).Selected())
}

func TestReloadFailureEnds(t *testing.T) {
	errBoom := errors.New("boom")
	calls := 0
	m := newTestModel(t, func() ([]files.Stamp, error) {
		calls++
		if calls > 1 {
			return nil, errBoom
		}
		return stamps("/notes/a.md"), nil
	})

	next, cmd := m.Update(fileChangedMsg{})
	require.NotNil(t, cmd)
	next, _ = next.Update(cmd())
	assert.ErrorIs(t, next.(Model).Err(), errBoom)
}

func TestNewModelLoadError(t *testing.T) {
	errBoom := errors.New("boom")
	_, err := NewModel("journal", "/notes", func() ([]files.Stamp, error) { return nil, errBoom }, nil, zerolog.Nop())
	assert.ErrorIs(t, err, errBoom)
}

func TestItemsAreRelative(t *testing.T) {
	items := toItems("/notes", stamps("/notes/2017/a.md"))
	require.Len(t, items, 1)
	assert.Equal(t, filepath.FromSlash("2017/a.md"), items[0].(entryItem).Title())
}

func TestWatchDirs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/notes/2017/12", 0755))
	require.NoError(t, fs.MkdirAll("/notes/.git/objects", 0755))
	require.NoError(t, afero.WriteFile(fs, "/notes/a.md", nil, 0644))

	assert.Equal(t, []string{"/notes", "/notes/2017", "/notes/2017/12"}, WatchDirs(fs, "/notes"))
}
