// Package render prints entries and notebook listings for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// WordWrap is the column entries are wrapped at.
const WordWrap = 80

// Markdown renders content with glamour and writes it to w.
func Markdown(w io.Writer, content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(WordWrap),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(content)
	if err != nil {
		return fmt.Errorf("failed to render entry: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// NotebookRow is one line of a notebook listing.
type NotebookRow struct {
	Name    string
	Aliases []string
	Path    string
	Default bool
}

var (
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	aliasStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	defaultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Notebooks writes one styled line per row: name, aliases, default marker
// and path.
func Notebooks(w io.Writer, rows []NotebookRow) error {
	for _, row := range rows {
		line := nameStyle.Render(row.Name)
		if len(row.Aliases) > 0 {
			line += " " + aliasStyle.Render("("+strings.Join(row.Aliases, ", ")+")")
		}
		if row.Default {
			line += " " + defaultStyle.Render("*")
		}
		line += " " + pathStyle.Render(row.Path)

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
