// Package datephrase turns the -d argument into a time.
package datephrase

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/vinayprograms/tanager/internal/apperr"
)

// Layouts accepted verbatim before falling back to natural language.
var layouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"20060102",
}

// "dec5" and "march12" read better to the parser with a space.
var gluedMonthDay = regexp.MustCompile(`(?i)^([a-z]{3,9})(\d{1,2})$`)

var parser = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// Parse interprets phrase relative to now. An empty phrase is now itself.
// Absolute dates are read in now's location.
func Parse(phrase string, now time.Time) (time.Time, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return now, nil
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, phrase, now.Location()); err == nil {
			return t, nil
		}
	}

	text := gluedMonthDay.ReplaceAllString(phrase, "$1 $2")
	r, err := parser.Parse(text, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", apperr.ErrDateParse, phrase, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", apperr.ErrDateParse, phrase)
	}
	return r.Time, nil
}
