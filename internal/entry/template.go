// Package entry turns a notebook template, a date and title words into the
// path of a journal entry.
//
// A template holds exactly one <title> token and any number of date
// placeholders such as <YYYY> or <YYYY-MM-DD>. On each side of the title
// the leftmost placeholder is replaced by the date formatted with its body,
// and the scan restarts, until no placeholder is left. The title goes in
// last, as typed.
package entry

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vinayprograms/tanager/internal/apperr"
	"github.com/vinayprograms/tanager/internal/config"
)

const (
	// TitleToken marks where the title goes in a template.
	TitleToken = "<title>"
	// TitleSeparator joins title words.
	TitleSeparator = "-"
	// MaxExpansions bounds placeholder substitutions per template.
	MaxExpansions = 30
)

// FormatFunc renders t according to a placeholder body.
type FormatFunc func(t time.Time, layout string) string

// Expander expands templates. The zero value formats with FormatDate.
type Expander struct {
	Format FormatFunc
}

// NewExpander returns an Expander using FormatDate.
func NewExpander() *Expander {
	return &Expander{Format: FormatDate}
}

// Title joins words with TitleSeparator, or returns defaultTitle when there
// are none.
func Title(words []string, defaultTitle string) string {
	if len(words) == 0 {
		return defaultTitle
	}
	return strings.Join(words, TitleSeparator)
}

// Path returns baseDir joined with the expanded template.
func (e *Expander) Path(date time.Time, words []string, baseDir, template, defaultTitle string) (string, error) {
	rel, err := e.Expand(date, Title(words, defaultTitle), template)
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, rel), nil
}

// Expand replaces every date placeholder in template and puts title in
// place of <title>. The title is inserted verbatim, never scanned.
func (e *Expander) Expand(date time.Time, title, template string) (string, error) {
	switch n := strings.Count(template, TitleToken); {
	case n == 0:
		return "", fmt.Errorf("%w: %q has no %s", apperr.ErrInvalidTemplate, template, TitleToken)
	case n > 1:
		return "", fmt.Errorf("%w: %q has %d %s tokens, want one", apperr.ErrInvalidTemplate, template, n, TitleToken)
	}

	before, after, _ := strings.Cut(template, TitleToken)

	n := 0
	head, err := e.expandDates(date, before, template, &n)
	if err != nil {
		return "", err
	}
	tail, err := e.expandDates(date, after, template, &n)
	if err != nil {
		return "", err
	}
	return head + title + tail, nil
}

// expandDates replaces every placeholder in s, counting substitutions in n
// so both sides of the title share one cap.
func (e *Expander) expandDates(date time.Time, s, template string, n *int) (string, error) {
	format := e.Format
	if format == nil {
		format = FormatDate
	}

	for {
		start, end, ok := nextPlaceholder(s)
		if !ok {
			return s, nil
		}
		if *n == MaxExpansions {
			return "", fmt.Errorf("%w: more than %d substitutions in %q", apperr.ErrTemplateExpansion, MaxExpansions, template)
		}
		*n++

		layout := s[start+1 : end-1]
		if layout == "" {
			return "", fmt.Errorf("%w: %q has an empty placeholder", apperr.ErrInvalidTemplate, template)
		}
		s = s[:start] + format(date, layout) + s[end:]
	}
}

// nextPlaceholder finds the leftmost <...> span whose body holds neither
// '<' nor '>'. It returns the span as s[start:end]. Unpaired brackets are
// left as literal text.
func nextPlaceholder(s string) (start, end int, ok bool) {
	open := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			open = i
		case '>':
			if open >= 0 {
				return open, i + 1, true
			}
		}
	}
	return 0, 0, false
}

// Suffix returns the file extension entries made from template carry. A
// template without an extension, or whose extension is itself a
// placeholder, yields config.DefaultSuffix.
func Suffix(template string) string {
	ext := filepath.Ext(template)
	if ext == "" || ext == "." || strings.ContainsAny(ext, "<>") {
		return config.DefaultSuffix
	}
	return ext
}
