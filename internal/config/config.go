package config

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/vinayprograms/tanager/internal/apperr"
)

const (
	// DefaultConfigPath is used when neither -c nor TANAGER_CONFIG is given.
	DefaultConfigPath = "~/.tanager.json"
	// DefaultTemplate names entries by year directory, date and title.
	DefaultTemplate = "<YYYY>/<YYYY-MM-DD>_<title>.md"
	// DefaultTitle is the title used when no words are supplied.
	DefaultTitle = "daily"
	// DefaultSuffix is the entry extension when a template has none.
	DefaultSuffix = ".md"
)

// NotebookConfig is one entry of the "notebooks" table as written in the
// config file.
type NotebookConfig struct {
	Path         string   `json:"path" toml:"path" yaml:"path"`
	Aliases      []string `json:"aliases,omitempty" toml:"aliases" yaml:"aliases"`
	Template     string   `json:"template,omitempty" toml:"template" yaml:"template"`
	DefaultTitle string   `json:"defaultTitle,omitempty" toml:"defaultTitle" yaml:"defaultTitle"`
	Default      bool     `json:"default,omitempty" toml:"default" yaml:"default"`
	AutoCommit   bool     `json:"autoCommit,omitempty" toml:"autoCommit" yaml:"autoCommit"`
	AutoPush     bool     `json:"autoPush,omitempty" toml:"autoPush" yaml:"autoPush"`

	// Extra holds keys the file declares that tanager does not know about.
	Extra map[string]any `json:"-" toml:"-" yaml:"-"`
}

// Validate checks a single notebook entry.
func (n NotebookConfig) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Path, validation.Required.Error("notebook missing a path")),
	)
}

// Config is the resolved configuration for one invocation.
type Config struct {
	EditorCmd    string                    `json:"editorCmd" toml:"editorCmd" yaml:"editorCmd"`
	Template     string                    `json:"template,omitempty" toml:"template" yaml:"template"`
	DefaultTitle string                    `json:"defaultTitle,omitempty" toml:"defaultTitle" yaml:"defaultTitle"`
	Notebooks    map[string]NotebookConfig `json:"notebooks" toml:"notebooks" yaml:"notebooks"`

	// Modes come from the command line only.
	EditRecent bool `json:"-" toml:"-" yaml:"-"`
	Pwd        bool `json:"-" toml:"-" yaml:"-"`
	List       bool `json:"-" toml:"-" yaml:"-"`
	Show       bool `json:"-" toml:"-" yaml:"-"`
	Browse     bool `json:"-" toml:"-" yaml:"-"`
}

// Validate reports whether the config holds enough to run. Every failure
// wraps apperr.ErrConfig. Notebook entries are validated through the map.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.EditorCmd, validation.Required.Error("could not find editor, try setting $VISUAL")),
		validation.Field(&c.Notebooks, validation.Required.Error("no notebooks found, set them in the config file")),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrConfig, err)
	}
	return nil
}

// applyDefaults fills the top-level template and title, then lets every
// notebook inherit whatever it leaves blank.
func (c *Config) applyDefaults() {
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	if c.DefaultTitle == "" {
		c.DefaultTitle = DefaultTitle
	}
	for name, nb := range c.Notebooks {
		if nb.Template == "" {
			nb.Template = c.Template
		}
		if nb.DefaultTitle == "" {
			nb.DefaultTitle = c.DefaultTitle
		}
		c.Notebooks[name] = nb
	}
}
