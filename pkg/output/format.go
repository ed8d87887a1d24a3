// Package output renders upcoming deadlines for people and for machines.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/RakeemAI/Rakeem/internal/deadlines"
	"github.com/RakeemAI/Rakeem/pkg/constants"
	"github.com/RakeemAI/Rakeem/pkg/datetime"
	json "github.com/goccy/go-json"
)

// PrettyFormat writes a human-readable table of entries with relative day
// labels in the requested language.
func PrettyFormat(w io.Writer, entries []deadlines.Entry, lang string) error {
	p := NewPrinter(lang)
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, p.Sprintf(msgNoDeadlines))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		p.Sprintf(msgDueDate), p.Sprintf(msgWhen), p.Sprintf(msgAuthority), p.Sprintf(msgCategory), p.Sprintf(msgObligation))
	_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", "________", "____", "_________", "________", "__________")
	for _, entry := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			datetime.FormatDate(entry.DueDate),
			RelativeDays(p, entry.DaysRemaining),
			entry.Authority,
			entry.Category,
			entry.Name,
		)
	}
	return tw.Flush()
}

var csvHeader = []string{"id", "name", "authority", "category", "due_date", "days_remaining", "description"}

// CsvFormat writes entries in comma-separated value format with a header row.
func CsvFormat(w io.Writer, entries []deadlines.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, entry := range entries {
		record := []string{
			entry.ID,
			entry.Name,
			entry.Authority,
			entry.Category,
			datetime.FormatDate(entry.DueDate),
			strconv.Itoa(entry.DaysRemaining),
			entry.Description,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONFormat writes entries as an indented JSON array.
func JSONFormat(w io.Writer, entries []deadlines.Entry) error {
	if entries == nil {
		entries = []deadlines.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode deadlines: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Write renders entries in the named format.
func Write(w io.Writer, format string, entries []deadlines.Entry, lang string) error {
	switch format {
	case "", constants.OutputFormatPretty:
		return PrettyFormat(w, entries, lang)
	case constants.OutputFormatCSV:
		return CsvFormat(w, entries)
	case constants.OutputFormatJSON:
		return JSONFormat(w, entries)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
