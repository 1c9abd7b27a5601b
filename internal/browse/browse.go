// Package browse is the interactive entry picker: a list of a notebook's
// entries, newest first, refreshed while files change underneath it.
package browse

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/vinayprograms/tanager/internal/files"
)

// Loader returns the entries to show, in display order.
type Loader func() ([]files.Stamp, error)

type entryItem struct {
	stamp files.Stamp
	rel   string
}

func (i entryItem) Title() string       { return i.rel }
func (i entryItem) Description() string { return i.stamp.ModTime.Format("2006-01-02 15:04") }
func (i entryItem) FilterValue() string { return i.rel }

type fileChangedMsg struct{}

type loadErrMsg struct{ err error }

// Model is the bubbletea model of the picker.
type Model struct {
	list     list.Model
	dir      string
	load     Loader
	watcher  *fsnotify.Watcher
	log      zerolog.Logger
	selected string
	err      error
	quitting bool
}

var titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)

// NewModel builds a picker over dir. watcher may be nil.
func NewModel(name, dir string, load Loader, watcher *fsnotify.Watcher, log zerolog.Logger) (Model, error) {
	stamps, err := load()
	if err != nil {
		return Model{}, err
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(toItems(dir, stamps), delegate, 0, 0)
	l.Title = fmt.Sprintf("%s (newest first)", name)
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.KeyMap.Quit.SetKeys("q")
	l.KeyMap.ForceQuit.SetKeys("ctrl+c")
	l.KeyMap.NextPage.SetKeys("pgdown", "ctrl+f", "ctrl+d")
	l.KeyMap.PrevPage.SetKeys("pgup", "ctrl+b", "ctrl+u")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		}
	}

	return Model{list: l, dir: dir, load: load, watcher: watcher, log: log}, nil
}

func toItems(dir string, stamps []files.Stamp) []list.Item {
	items := make([]list.Item, len(stamps))
	for i, st := range stamps {
		rel, err := filepath.Rel(dir, st.Path)
		if err != nil {
			rel = st.Path
		}
		items[i] = entryItem{stamp: st, rel: rel}
	}
	return items
}

// Selected is the path chosen with enter, or "" when the picker was quit.
func (m Model) Selected() string {
	return m.selected
}

// Err is a reload failure that ended the picker.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return waitForFileChange(m.watcher, m.log)
}

func waitForFileChange(watcher *fsnotify.Watcher, log zerolog.Logger) tea.Cmd {
	return func() tea.Msg {
		if watcher == nil {
			return nil
		}

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					if event.Has(fsnotify.Create) {
						// new subdirectories need watching too
						_ = watcher.Add(event.Name)
					}
					return fileChangedMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Warn().Err(err).Msg("watcher error")
			}
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if i, ok := m.list.SelectedItem().(entryItem); ok {
				m.selected = i.stamp.Path
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
	case fileChangedMsg:
		stamps, err := m.load()
		if err != nil {
			return m, func() tea.Msg { return loadErrMsg{err} }
		}
		cmd := m.list.SetItems(toItems(m.dir, stamps))
		return m, tea.Batch(cmd, waitForFileChange(m.watcher, m.log))
	case loadErrMsg:
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 1)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// WatchDirs lists dir and every directory below it, skipping .git.
func WatchDirs(fsys afero.Fs, dir string) []string {
	var dirs []string
	_ = afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		if info.Name() == ".git" {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs
}

func setupWatcher(dirs []string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		_ = watcher.Add(dir)
	}
	return watcher, nil
}

// Run shows the picker for the entries under dir with the given suffix and
// returns the selected path, or "" if none was chosen.
func Run(store *files.Store, name, dir, suffix string, log zerolog.Logger) (string, error) {
	load := func() ([]files.Stamp, error) {
		paths, err := store.Find(dir, []string{suffix})
		if err != nil {
			return nil, err
		}
		stamps, err := store.Stamps(paths)
		if err != nil {
			return nil, err
		}
		files.SortNewestFirst(stamps)
		return stamps, nil
	}

	watcher, err := setupWatcher(WatchDirs(store.Fs(), dir))
	if err != nil {
		log.Warn().Err(err).Msg("could not create file watcher")
		watcher = nil
	}
	if watcher != nil {
		defer watcher.Close()
	}

	m, err := NewModel(name, dir, load, watcher, log)
	if err != nil {
		return "", err
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return "", fmt.Errorf("browser failed: %w", err)
	}

	fm := final.(Model)
	if fm.Err() != nil {
		return "", fm.Err()
	}
	return fm.Selected(), nil
}
