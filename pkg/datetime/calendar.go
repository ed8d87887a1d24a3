package datetime

import (
	"time"

	"github.com/RakeemAI/Rakeem/pkg/errors"
)

// quarterEndMonths are the closing months of calendar quarters.
var quarterEndMonths = [...]time.Month{time.March, time.June, time.September, time.December}

// ValidateMonth rejects months outside January..December.
func ValidateMonth(month time.Month) error {
	if month < time.January || month > time.December {
		return errors.Newf(errors.CodeInvalidArgument, "invalid month %d, expected 1-12", int(month))
	}
	return nil
}

// ValidateDay rejects non-positive days and days past 31.
func ValidateDay(day int) error {
	if day < 1 || day > 31 {
		return errors.Newf(errors.CodeInvalidArgument, "invalid day %d, expected 1-31", day)
	}
	return nil
}

// EndOfMonth returns the last calendar day of the given month.
func EndOfMonth(year int, month time.Month) (time.Time, error) {
	if err := ValidateMonth(month); err != nil {
		return time.Time{}, err
	}
	return endOfMonth(year, month), nil
}

// SafeDate builds a date, clamping day down to the last day of the month so
// that e.g. February 30th becomes February 28th (29th in leap years).
func SafeDate(year int, month time.Month, day int) (time.Time, error) {
	if err := ValidateMonth(month); err != nil {
		return time.Time{}, err
	}
	if day < 1 {
		return time.Time{}, errors.Newf(errors.CodeInvalidArgument, "invalid day %d, expected a positive day", day)
	}
	return safeDate(year, month, day), nil
}

// NextAnniversary returns the next occurrence of base's month and day on or
// after today.
func NextAnniversary(base, today time.Time) time.Time {
	today = Civil(today)
	candidate := safeDate(today.Year(), base.Month(), base.Day())
	if candidate.Before(today) {
		candidate = safeDate(today.Year()+1, base.Month(), base.Day())
	}
	return candidate
}

// MonthEndFollowing returns the last day of the month after date's month.
func MonthEndFollowing(date time.Time) time.Time {
	year, month := NextMonth(date.Year(), date.Month())
	return endOfMonth(year, month)
}

// NextQuarterEnd returns the nearest quarter-closing month end on or after
// today.
func NextQuarterEnd(today time.Time) time.Time {
	today = Civil(today)
	for _, m := range quarterEndMonths {
		if eom := endOfMonth(today.Year(), m); !eom.Before(today) {
			return eom
		}
	}
	// Unreachable for valid dates since December 31st closes every year.
	return endOfMonth(today.Year()+1, time.March)
}

// NextMonth returns the year and month following the given one.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

func endOfMonth(year int, month time.Month) time.Time {
	// Day zero of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}

func safeDate(year int, month time.Month, day int) time.Time {
	if last := endOfMonth(year, month).Day(); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
