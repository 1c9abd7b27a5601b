// Package notebook builds the name and alias lookup table for configured
// notebooks and picks the notebook an invocation applies to.
package notebook

import (
	"fmt"
	"slices"
	"sort"

	"github.com/mitchellh/go-homedir"

	"github.com/vinayprograms/tanager/internal/apperr"
	"github.com/vinayprograms/tanager/internal/config"
)

// Notebook is a named, aliasable directory plus the template for naming
// its entries.
type Notebook struct {
	Name         string
	Path         string
	Aliases      []string
	Template     string
	DefaultTitle string
	Default      bool
	AutoCommit   bool
	AutoPush     bool
	Extra        map[string]any
}

// Matches reports whether word is the notebook's name or one of its aliases.
func (n *Notebook) Matches(word string) bool {
	return word == n.Name || slices.Contains(n.Aliases, word)
}

// Registry maps every notebook name and alias to its notebook.
type Registry struct {
	byKey     map[string]*Notebook
	notebooks []*Notebook
}

// ExpandFunc turns a configured path into an absolute one.
type ExpandFunc func(path string) (string, error)

// BuildRegistry creates a registry from notebook configs. A nil expand uses
// home directory expansion. Names and aliases must be unique across
// notebooks and at most one notebook may be the default. The input map is
// not modified.
func BuildRegistry(cfgs map[string]config.NotebookConfig, expand ExpandFunc) (*Registry, error) {
	if expand == nil {
		expand = homedir.Expand
	}

	names := make([]string, 0, len(cfgs))
	for name := range cfgs {
		names = append(names, name)
	}
	sort.Strings(names)

	r := &Registry{byKey: make(map[string]*Notebook, len(cfgs))}
	var defaultName string

	for _, name := range names {
		nb, err := newNotebook(name, cfgs[name], expand)
		if err != nil {
			return nil, err
		}

		if nb.Default {
			if defaultName != "" {
				return nil, fmt.Errorf("%w: notebooks %q and %q are both marked default", apperr.ErrConfig, defaultName, name)
			}
			defaultName = name
		}

		if err := r.register(name, nb); err != nil {
			return nil, err
		}
		for _, alias := range nb.Aliases {
			if err := r.register(alias, nb); err != nil {
				return nil, err
			}
		}
		r.notebooks = append(r.notebooks, nb)
	}

	return r, nil
}

func newNotebook(name string, cfg config.NotebookConfig, expand ExpandFunc) (*Notebook, error) {
	path, err := expand(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: notebook %q path %q: %v", apperr.ErrConfig, name, cfg.Path, err)
	}

	nb := &Notebook{
		Name:         name,
		Path:         path,
		Aliases:      slices.Clone(cfg.Aliases),
		Template:     cfg.Template,
		DefaultTitle: cfg.DefaultTitle,
		Default:      cfg.Default,
		AutoCommit:   cfg.AutoCommit,
		AutoPush:     cfg.AutoPush,
	}
	if nb.Template == "" {
		nb.Template = config.DefaultTemplate
	}
	if nb.DefaultTitle == "" {
		nb.DefaultTitle = config.DefaultTitle
	}
	if len(cfg.Extra) > 0 {
		nb.Extra = make(map[string]any, len(cfg.Extra))
		for k, v := range cfg.Extra {
			nb.Extra[k] = v
		}
	}
	return nb, nil
}

func (r *Registry) register(key string, nb *Notebook) error {
	existing, ok := r.byKey[key]
	if ok && existing != nb {
		return fmt.Errorf("%w: %q is claimed by notebooks %q and %q", apperr.ErrConfig, key, existing.Name, nb.Name)
	}
	r.byKey[key] = nb
	return nil
}

// Lookup returns the notebook registered under a name or alias.
func (r *Registry) Lookup(key string) (*Notebook, bool) {
	nb, ok := r.byKey[key]
	return nb, ok
}

// Keys returns every registered name and alias, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Notebooks returns each notebook once, ordered by name.
func (r *Registry) Notebooks() []*Notebook {
	return slices.Clone(r.notebooks)
}

// Default returns the notebook marked default, if any.
func (r *Registry) Default() (*Notebook, bool) {
	for _, nb := range r.notebooks {
		if nb.Default {
			return nb, true
		}
	}
	return nil, false
}

// Resolve picks the notebook for words: the one named by the first word,
// otherwise the default.
func (r *Registry) Resolve(words []string) (*Notebook, error) {
	if len(words) > 0 {
		if nb, ok := r.byKey[words[0]]; ok {
			return nb, nil
		}
	}
	if nb, ok := r.Default(); ok {
		return nb, nil
	}
	return nil, apperr.ErrNotebookNotFound
}

// TitleWords returns the words that make up the entry title. A leading word
// naming nb is dropped, but only when more words follow it. The input slice
// is not modified.
func TitleWords(nb *Notebook, words []string) []string {
	if len(words) > 1 && nb.Matches(words[0]) {
		return slices.Clone(words[1:])
	}
	return slices.Clone(words)
}
