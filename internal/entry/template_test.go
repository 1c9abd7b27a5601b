package entry

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinayprograms/tanager/internal/apperr"
)

// Christmas 2017 was a Monday. Noon local keeps the calendar day stable
// whatever the machine's zone.
var christmas = time.Date(2017, time.December, 25, 12, 0, 0, 0, time.Local)

func TestPathHandlesComplexParsing(t *testing.T) {
	e := NewExpander()

	tests := []struct {
		name         string
		baseDir      string
		template     string
		defaultTitle string
		words        []string
		want         string
	}{
		{"default template", "/path/to/notebook", "<YYYY>/<YYYY-MM-DD>_<title>.md", "daily", nil, "/path/to/notebook/2017/2017-12-25_daily.md"},
		{"title only", "/dir/", "<title>", "foo", []string{"cat", "dog"}, "/dir/cat-dog"},
		{"title with extension", "/dir/", "<title>.txt", "foo", []string{"cat", "dog"}, "/dir/cat-dog.txt"},
		{"nested dates", "/dir/", "<YYYY>/<MM>/<YYYY-MM-DD>_<title>.md", "foo", []string{"cat", "dog"}, "/dir/2017/12/2017-12-25_cat-dog.md"},
		{"default title", "/dir/foo/", "<YYYY>/<title>.md", "every-day", nil, "/dir/foo/2017/every-day.md"},
		{"weekday tokens", "/dir/bar/", "<dd>/<YYYY><MM><E> <title>.md", "foo", []string{"this", "morning"}, "/dir/bar/Mo/2017121 this-morning.md"},
		{"strftime placeholder", "/dir", "<%Y>/<%Y-%m-%d>_<title>.md", "daily", nil, "/dir/2017/2017-12-25_daily.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Path(christmas, tt.words, tt.baseDir, tt.template, tt.defaultTitle)
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestPathTitleOnlyTemplates(t *testing.T) {
	e := &Expander{Format: func(time.Time, string) string {
		t.Fatal("formatter called for a template without date placeholders")
		return ""
	}}

	for _, title := range []string{"daily", "a", "some-long-title", "with spaces", "notes-<MM>", "a<b-c>d", "<>"} {
		for _, tmpl := range []string{"<title>", "pre_<title>", "<title>_post.md", "dir/<title>"} {
			got, err := e.Path(christmas, nil, "/base", tmpl, title)
			require.NoError(t, err)

			want := filepath.Join("/base", strings.Replace(tmpl, TitleToken, title, 1))
			assert.Equal(t, want, got)
		}
	}
}

func TestPathKeepsBracketedWordsVerbatim(t *testing.T) {
	e := NewExpander()

	tests := []struct {
		words []string
		want  string
	}{
		{[]string{"notes", "<MM>"}, "/dir/2017/notes-<MM>.md"},
		{[]string{"a<b", "c>d"}, "/dir/2017/a<b-c>d.md"},
		{[]string{"<>"}, "/dir/2017/<>.md"},
	}

	for _, tt := range tests {
		got, err := e.Path(christmas, tt.words, "/dir", "<YYYY>/<title>.md", "daily")
		require.NoError(t, err, tt.words)
		assert.Equal(t, filepath.FromSlash(tt.want), got)
	}
}

func TestPathRejectsInvalidTemplates(t *testing.T) {
	e := NewExpander()

	for _, tmpl := range []string{"", "YYYY-MM-DD", "<YYYY>/<YYYY-MM-DD>.md", "<title><title>", "<YYYY>/<>_<title>"} {
		t.Run(tmpl, func(t *testing.T) {
			_, err := e.Path(christmas, []string{"cat"}, "/dir", tmpl, "daily")
			assert.ErrorIs(t, err, apperr.ErrInvalidTemplate)
		})
	}
}

func TestExpandStopsRunawaySubstitution(t *testing.T) {
	e := &Expander{Format: func(time.Time, string) string { return "<again>" }}

	_, err := e.Expand(christmas, "daily", "<YYYY>/<title>")
	assert.ErrorIs(t, err, apperr.ErrTemplateExpansion)
}

func TestExpandAllowsThirtySubstitutions(t *testing.T) {
	calls := 0
	e := &Expander{Format: func(time.Time, string) string {
		calls++
		return "x"
	}}

	tmpl := "<title>"
	for range MaxExpansions {
		tmpl += "<D>"
	}

	got, err := e.Expand(christmas, "t", tmpl)
	require.NoError(t, err)
	assert.Equal(t, MaxExpansions, calls)
	assert.Len(t, got, 1+MaxExpansions)

	_, err = e.Expand(christmas, "t", tmpl+"<D>")
	assert.ErrorIs(t, err, apperr.ErrTemplateExpansion)
}

func TestExpandUsesLeftmostShortestSpan(t *testing.T) {
	var layouts []string
	e := &Expander{Format: func(_ time.Time, layout string) string {
		layouts = append(layouts, layout)
		return strings.ToUpper(layout)
	}}

	got, err := e.Expand(christmas, "t", "x>a<<c>_<title><")
	require.NoError(t, err)
	assert.Equal(t, "x>a<C_t<", got)
	assert.Equal(t, []string{"c"}, layouts)
}

func TestExpandRescansFormattedOutput(t *testing.T) {
	e := &Expander{Format: func(_ time.Time, layout string) string {
		if layout == "outer" {
			return "<inner>"
		}
		return "done"
	}}

	got, err := e.Expand(christmas, "t", "<outer>/<title>")
	require.NoError(t, err)
	assert.Equal(t, "done/t", got)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "daily", Title(nil, "daily"))
	assert.Equal(t, "daily", Title([]string{}, "daily"))
	assert.Equal(t, "meeting-notes", Title([]string{"meeting", "notes"}, "daily"))
}

func TestNextPlaceholder(t *testing.T) {
	tests := []struct {
		in         string
		start, end int
		ok         bool
	}{
		{"", 0, 0, false},
		{"plain", 0, 0, false},
		{"<YYYY>", 0, 6, true},
		{"x<<MM>", 2, 6, true},
		{"x>y<MM>", 3, 7, true},
		{"<open", 0, 0, false},
	}

	for _, tt := range tests {
		start, end, ok := nextPlaceholder(tt.in)
		if ok != tt.ok || start != tt.start || end != tt.end {
			t.Errorf("nextPlaceholder(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.in, start, end, ok, tt.start, tt.end, tt.ok)
		}
	}
}

func TestSuffix(t *testing.T) {
	tests := []struct {
		template string
		want     string
	}{
		{"<YYYY>/<YYYY-MM-DD>_<title>.md", ".md"},
		{"<title>.txt", ".txt"},
		{"<title>", ".md"},
		{"<YYYY>.<MM>/<title>", ".md"},
		{"<title>.<YYYY>", ".md"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Suffix(tt.template), tt.template)
	}
}
