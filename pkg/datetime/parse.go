// Package datetime provides the civil date primitives used by the deadline
// engine. Dates are represented as time.Time values at midnight UTC so that
// day arithmetic never crosses a daylight-saving boundary.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/RakeemAI/Rakeem/pkg/constants"
	"github.com/RakeemAI/Rakeem/pkg/errors"
)

const (
	// DateLayout is the format expected in config files, catalogs and output.
	DateLayout = constants.DateLayout
)

// Civil drops the clock and location of t, keeping its calendar date as seen
// in t's own location.
func Civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current civil date of the local clock.
func Today() time.Time {
	return Civil(time.Now())
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.Wrap(err, errors.CodeInvalidArgument,
			fmt.Sprintf("invalid date %q, expected %s", value, DateLayout))
	}
	return t, nil
}

// MustParseDate parses a date string and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseDate(value string) time.Time {
	t, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return t
}

// FormatDate renders a civil date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the number of whole days from one civil date to another;
// the result is negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	return int(Civil(to).Sub(Civil(from)).Hours() / 24)
}

// AddDays offsets a civil date by n days.
func AddDays(t time.Time, n int) time.Time {
	return Civil(t).AddDate(0, 0, n)
}
