package rules

import (
	"time"

	"github.com/RakeemAI/Rakeem/internal/catalog"
	"github.com/RakeemAI/Rakeem/pkg/constants"
	"github.com/RakeemAI/Rakeem/pkg/datetime"
)

// Generic rules are approximations for catalog entries without a dedicated
// rule. The anchor days (30th for monthly, quarter-end + one month for
// quarterly) are defaults pending domain review, not regulatory facts.
var frequencyRules = map[catalog.Frequency]FrequencyRule{
	catalog.FrequencyAnnual:    approxAnnual,
	catalog.FrequencyMonthly:   approxMonthly,
	catalog.FrequencyQuarterly: approxQuarterly,
}

func approxAnnual(rec catalog.Record, today time.Time) (time.Time, bool, error) {
	month := time.Month(rec.ApproxMonthOr(constants.DefaultApproxMonth))
	day := rec.ApproxDayOr(constants.DefaultApproxDayAnnual)

	due, err := datetime.SafeDate(today.Year(), month, day)
	if err != nil {
		return time.Time{}, false, err
	}
	if due.Before(today) {
		due, err = datetime.SafeDate(today.Year()+1, month, day)
	}
	return due, err == nil, err
}

func approxMonthly(rec catalog.Record, today time.Time) (time.Time, bool, error) {
	day := rec.ApproxDayOr(constants.DefaultApproxDayMonthly)

	due, err := datetime.SafeDate(today.Year(), today.Month(), day)
	if err != nil {
		return time.Time{}, false, err
	}
	if due.Before(today) {
		year, month := datetime.NextMonth(today.Year(), today.Month())
		due, err = datetime.SafeDate(year, month, day)
	}
	return due, err == nil, err
}

func approxQuarterly(_ catalog.Record, today time.Time) (time.Time, bool, error) {
	return datetime.MonthEndFollowing(datetime.NextQuarterEnd(today)), true, nil
}
