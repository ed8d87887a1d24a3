package deadlines

import (
	"time"

	"github.com/RakeemAI/Rakeem/internal/catalog"
	"github.com/RakeemAI/Rakeem/internal/profile"
	"github.com/RakeemAI/Rakeem/pkg/datetime"
)

// MonthEvents returns the obligations whose next due date on or after today
// falls in the given calendar month. Months already past yield nothing since
// every due date is resolved forward from today.
func (e *Engine) MonthEvents(records []catalog.Record, year int, month time.Month, p profile.Profile, today time.Time) ([]Entry, error) {
	if err := datetime.ValidateMonth(month); err != nil {
		return nil, err
	}
	today = datetime.Civil(today)

	return e.collect("month", records, p, today, func(due time.Time, _ int) bool {
		return due.Year() == year && due.Month() == month
	})
}

// GroupByDay buckets entries by due date, preserving their order within a day.
func GroupByDay(entries []Entry) map[string][]Entry {
	days := make(map[string][]Entry)
	for _, entry := range entries {
		key := datetime.FormatDate(entry.DueDate)
		days[key] = append(days[key], entry)
	}
	return days
}
