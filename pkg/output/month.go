package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/RakeemAI/Rakeem/internal/deadlines"
	"github.com/RakeemAI/Rakeem/pkg/datetime"
)

// MonthGrid writes a Saturday-first calendar of the month, marking days with
// at least one due obligation with an asterisk, followed by the entries.
func MonthGrid(w io.Writer, year int, month time.Month, entries []deadlines.Entry, lang string) error {
	last, err := datetime.EndOfMonth(year, month)
	if err != nil {
		return err
	}
	days := deadlines.GroupByDay(entries)

	var b strings.Builder
	fmt.Fprintf(&b, "%d-%02d\n", year, int(month))
	for _, name := range weekdayNames(lang) {
		fmt.Fprintf(&b, "%-4s", name)
	}
	b.WriteString("\n")

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) - int(time.Saturday) + 7) % 7
	b.WriteString(strings.Repeat("    ", offset))
	col := offset
	for day := 1; day <= last.Day(); day++ {
		mark := " "
		if _, ok := days[datetime.FormatDate(first.AddDate(0, 0, day-1))]; ok {
			mark = "*"
		}
		fmt.Fprintf(&b, "%3d%s", day, mark)
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	return PrettyFormat(w, entries, lang)
}
