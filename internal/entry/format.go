package entry

import (
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
	"github.com/nleeper/goment"
)

// FormatDate renders t with a moment.js style layout ("YYYY-MM-DD", "dd",
// "E"). A layout containing '%' is read as strftime instead ("%Y-%m-%d").
func FormatDate(t time.Time, layout string) string {
	if strings.Contains(layout, "%") {
		return strftime.Format(layout, t)
	}

	g, err := goment.New(t)
	if err != nil {
		return layout
	}
	return g.Format(layout)
}
