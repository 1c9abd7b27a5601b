// Package dispatch runs one tanager invocation: it resolves the notebook
// named by the words and then edits, prints, lists, shows or browses.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/vinayprograms/tanager/internal/apperr"
	"github.com/vinayprograms/tanager/internal/config"
	"github.com/vinayprograms/tanager/internal/editor"
	"github.com/vinayprograms/tanager/internal/entry"
	"github.com/vinayprograms/tanager/internal/files"
	"github.com/vinayprograms/tanager/internal/gitsync"
	"github.com/vinayprograms/tanager/internal/notebook"
	"github.com/vinayprograms/tanager/internal/render"
)

// NoFilesMessage is printed when --recent finds nothing to edit.
const NoFilesMessage = "No files in notebook"

// BrowseFunc lets the user pick one of a notebook's entries. An empty path
// means nothing was picked.
type BrowseFunc func(nb *notebook.Notebook, suffix string) (string, error)

// RenderFunc writes an entry's content for reading.
type RenderFunc func(w io.Writer, content string) error

// Dispatcher holds the collaborators of an invocation. Committer and Browse
// may be nil; Render defaults to render.Markdown.
type Dispatcher struct {
	Store     *files.Store
	Launcher  editor.Launcher
	Committer gitsync.Committer
	Expander  *entry.Expander
	Browse    BrowseFunc
	Render    RenderFunc
	Out       io.Writer
	Log       zerolog.Logger
	// ExpandHome expands notebook paths. Nil means go-homedir.
	ExpandHome notebook.ExpandFunc
}

// Run resolves the notebook for words and performs the mode cfg selects.
// Nothing touches the filesystem or starts an editor until resolution
// has succeeded.
func (d *Dispatcher) Run(ctx context.Context, cfg *config.Config, date time.Time, words []string) error {
	reg, err := notebook.BuildRegistry(cfg.Notebooks, d.ExpandHome)
	if err != nil {
		return err
	}

	if cfg.List && !cfg.EditRecent && !cfg.Pwd {
		return d.list(reg)
	}

	nb, err := reg.Resolve(words)
	if err != nil {
		return err
	}
	title := notebook.TitleWords(nb, words)

	d.Log.Debug().
		Str("notebook", nb.Name).
		Strs("title", title).
		Time("date", date).
		Msg("resolved notebook")

	switch {
	case cfg.EditRecent:
		return d.editRecent(ctx, cfg, nb)
	case cfg.Pwd:
		_, err := fmt.Fprintln(d.Out, nb.Path)
		return err
	case cfg.Show:
		return d.show(nb, date, title)
	case cfg.Browse:
		return d.browse(ctx, cfg, nb)
	default:
		return d.edit(ctx, cfg, nb, date, title)
	}
}

func (d *Dispatcher) list(reg *notebook.Registry) error {
	var rows []render.NotebookRow
	for _, nb := range reg.Notebooks() {
		rows = append(rows, render.NotebookRow{
			Name:    nb.Name,
			Aliases: nb.Aliases,
			Path:    nb.Path,
			Default: nb.Default,
		})
	}
	return render.Notebooks(d.Out, rows)
}

func (d *Dispatcher) editRecent(ctx context.Context, cfg *config.Config, nb *notebook.Notebook) error {
	suffix := entry.Suffix(nb.Template)
	path, err := d.Store.Latest(nb.Path, []string{suffix})
	if errors.Is(err, apperr.ErrNoFiles) {
		d.Log.Debug().Str("dir", nb.Path).Str("suffix", suffix).Msg("no entries found")
		_, err = fmt.Fprintln(d.Out, NoFilesMessage)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to find recent entry: %w", err)
	}
	return d.launch(ctx, cfg, nb, path)
}

func (d *Dispatcher) entryPath(nb *notebook.Notebook, date time.Time, title []string) (string, error) {
	expander := d.Expander
	if expander == nil {
		expander = entry.NewExpander()
	}
	return expander.Path(date, title, nb.Path, nb.Template, nb.DefaultTitle)
}

func (d *Dispatcher) show(nb *notebook.Notebook, date time.Time, title []string) error {
	path, err := d.entryPath(nb, date, title)
	if err != nil {
		return err
	}

	exists, err := d.Store.Exists(path)
	if err != nil {
		return err
	}
	if !exists {
		_, err = fmt.Fprintf(d.Out, "No entry at %s\n", path)
		return err
	}

	content, err := d.Store.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	renderFn := d.Render
	if renderFn == nil {
		renderFn = render.Markdown
	}
	return renderFn(d.Out, string(content))
}

func (d *Dispatcher) browse(ctx context.Context, cfg *config.Config, nb *notebook.Notebook) error {
	if d.Browse == nil {
		return fmt.Errorf("browsing is not available")
	}

	path, err := d.Browse(nb, entry.Suffix(nb.Template))
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	return d.launch(ctx, cfg, nb, path)
}

func (d *Dispatcher) edit(ctx context.Context, cfg *config.Config, nb *notebook.Notebook, date time.Time, title []string) error {
	path, err := d.entryPath(nb, date, title)
	if err != nil {
		return err
	}
	if err := d.Store.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return d.launch(ctx, cfg, nb, path)
}

func (d *Dispatcher) launch(ctx context.Context, cfg *config.Config, nb *notebook.Notebook, path string) error {
	d.Log.Debug().Str("editor", cfg.EditorCmd).Str("path", path).Msg("opening entry")

	if err := d.Launcher.Launch(ctx, cfg.EditorCmd, path); err != nil {
		return err
	}

	if nb.AutoCommit && d.Committer != nil {
		d.commit(nb, path)
	}
	return nil
}

// commit records an edited entry. Failures only warn: the entry itself is
// already saved.
func (d *Dispatcher) commit(nb *notebook.Notebook, path string) {
	exists, err := d.Store.Exists(path)
	if err != nil || !exists {
		d.Log.Debug().Str("path", path).Msg("entry not saved, nothing to commit")
		return
	}

	rel, err := filepath.Rel(nb.Path, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	if err := d.Committer.Commit(path, gitsync.Message(nb.Name, rel), nb.AutoPush); err != nil {
		d.Log.Warn().Err(err).Str("path", path).Msg("auto-commit failed")
	}
}
