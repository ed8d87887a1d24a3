package output

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/RakeemAI/Rakeem/internal/deadlines"
	"github.com/RakeemAI/Rakeem/pkg/constants"
	"github.com/RakeemAI/Rakeem/pkg/datetime"
	"github.com/google/uuid"
)

// ICalProductID identifies the generator in exported calendars.
const ICalProductID = "-//Rakeem//Compliance Calendar//AR"

const icalUIDDomain = "rakeem"

// icalNamespace seeds the UIDs of entries without an identifier.
var icalNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://rakeem/deadlines"))

var icalEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

// icalLineOctets is the longest content line allowed before folding.
const icalLineOctets = 75

// ICal renders entries as an iCalendar document with one all-day event per
// entry. stamp is written as DTSTAMP so the output is reproducible.
func ICal(entries []deadlines.Entry, stamp time.Time) []byte {
	var buf []byte
	buf = appendLine(buf, "BEGIN:VCALENDAR")
	buf = appendLine(buf, "VERSION:2.0")
	buf = appendLine(buf, "PRODID:"+ICalProductID)
	buf = appendLine(buf, "CALSCALE:GREGORIAN")
	buf = appendLine(buf, "METHOD:PUBLISH")

	dtstamp := stamp.UTC().Format(constants.ICSTimestampLayout)
	for _, entry := range entries {
		buf = appendLine(buf, "BEGIN:VEVENT")
		buf = appendLine(buf, "DTSTAMP:"+dtstamp)
		buf = appendLine(buf, fmt.Sprintf("UID:%s@%s", eventUID(entry), icalUIDDomain))
		buf = appendLine(buf, "SUMMARY:"+icalEscaper.Replace(entry.Name+" — "+entry.Authority))
		buf = appendLine(buf, "DESCRIPTION:"+icalEscaper.Replace(entry.Description))
		if entry.Category != "" {
			buf = appendLine(buf, "CATEGORIES:"+icalEscaper.Replace(entry.Category))
		}
		buf = appendLine(buf, "DTSTART;VALUE=DATE:"+entry.DueDate.Format(constants.ICSDateLayout))
		buf = appendLine(buf, "DTEND;VALUE=DATE:"+datetime.AddDays(entry.DueDate, 1).Format(constants.ICSDateLayout))
		buf = appendLine(buf, "END:VEVENT")
	}

	return appendLine(buf, "END:VCALENDAR")
}

// appendLine writes one CRLF terminated content line, folding it into
// continuation lines of at most icalLineOctets octets (the leading space
// included). Folds never split a UTF-8 sequence.
func appendLine(buf []byte, line string) []byte {
	limit := icalLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		buf = append(buf, line[:cut]...)
		buf = append(buf, "\r\n "...)
		line = line[cut:]
		limit = icalLineOctets - 1
	}
	buf = append(buf, line...)
	return append(buf, "\r\n"...)
}

// WriteICal writes the iCalendar rendering of entries to w.
func WriteICal(w io.Writer, entries []deadlines.Entry, stamp time.Time) error {
	_, err := w.Write(ICal(entries, stamp))
	return err
}

// eventUID is the entry id, or a name-based UUID for entries without one so
// that re-exports update rather than duplicate calendar events.
func eventUID(entry deadlines.Entry) string {
	if id := strings.TrimSpace(entry.ID); id != "" {
		return id
	}
	return uuid.NewSHA1(icalNamespace, []byte(entry.Name+"|"+entry.Authority)).String()
}
