// Package deadlines aggregates resolved due dates into the sorted list of
// obligations falling due within a horizon.
package deadlines

import (
	"fmt"
	"sort"
	"time"

	"github.com/RakeemAI/Rakeem/internal/catalog"
	"github.com/RakeemAI/Rakeem/internal/profile"
	"github.com/RakeemAI/Rakeem/internal/rules"
	"github.com/RakeemAI/Rakeem/pkg/datetime"
	"github.com/RakeemAI/Rakeem/pkg/errors"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Entry is one obligation falling due within the requested window.
type Entry struct {
	ID            string
	Name          string
	Authority     string
	Category      string
	DueDate       time.Time
	DaysRemaining int
	Description   string
}

type entryJSON struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Authority     string `json:"authority"`
	Category      string `json:"category"`
	DueDate       string `json:"due_date"`
	DaysRemaining int    `json:"days_remaining"`
	Description   string `json:"description"`
}

// MarshalJSON renders the due date as YYYY-MM-DD.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		ID:            e.ID,
		Name:          e.Name,
		Authority:     e.Authority,
		Category:      e.Category,
		DueDate:       datetime.FormatDate(e.DueDate),
		DaysRemaining: e.DaysRemaining,
		Description:   e.Description,
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	due, err := datetime.ParseDate(raw.DueDate)
	if err != nil {
		return fmt.Errorf("entry %q: %w", raw.ID, err)
	}
	*e = Entry{
		ID:            raw.ID,
		Name:          raw.Name,
		Authority:     raw.Authority,
		Category:      raw.Category,
		DueDate:       due,
		DaysRemaining: raw.DaysRemaining,
		Description:   raw.Description,
	}
	return nil
}

// Stats summarizes one aggregation run.
type Stats struct {
	Records       int
	NotComputable int
	NotApplicable int
	Selected      int
}

// Recorder receives the outcome of every aggregation run.
type Recorder interface {
	ObserveRun(view string, stats Stats, elapsed time.Duration)
}

// Engine computes upcoming deadlines from a catalog. An Engine holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	logger         *zap.Logger
	resolver       rules.Resolver
	recorder       Recorder
	applicableOnly bool
}

// Option customizes an Engine.
type Option func(*Engine)

// WithResolver replaces the default rule resolver.
func WithResolver(r rules.Resolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithApplicableOnly drops records that do not concern the profile, such as
// the quarterly VAT return for a monthly filer.
func WithApplicableOnly(enabled bool) Option {
	return func(e *Engine) {
		e.applicableOnly = enabled
	}
}

// NewEngine returns an Engine using the built-in rules.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{logger: logger, resolver: rules.NewResolver()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute returns the obligations due between today and today+daysAhead
// inclusive, sorted by days remaining then name. The result is never nil.
func (e *Engine) Compute(records []catalog.Record, daysAhead int, p profile.Profile, today time.Time) ([]Entry, error) {
	if daysAhead < 0 {
		return nil, errors.Newf(errors.CodeInvalidArgument, "days ahead must not be negative, got %d", daysAhead)
	}
	today = datetime.Civil(today)

	return e.collect("upcoming", records, p, today, func(due time.Time, days int) bool {
		return days >= 0 && days <= daysAhead
	})
}

// collect resolves every record and keeps the entries accepted by keep.
func (e *Engine) collect(view string, records []catalog.Record, p profile.Profile, today time.Time, keep func(due time.Time, days int) bool) ([]Entry, error) {
	start := time.Now()
	stats := Stats{Records: len(records)}
	entries := make([]Entry, 0)

	for _, rec := range records {
		if e.applicableOnly && !rules.Applies(rec, p) {
			stats.NotApplicable++
			continue
		}

		res, err := e.resolver.Resolve(rec, today, p)
		if err != nil {
			e.logger.Error("failed to resolve due date",
				zap.String("op", "deadlines.Compute"),
				zap.String("id", rec.ID),
				zap.Error(err),
			)
			return nil, err
		}
		if !res.Computable {
			stats.NotComputable++
			e.logger.Debug("due date not computable",
				zap.String("op", "deadlines.Compute"),
				zap.String("id", rec.ID),
				zap.String("frequency", string(rec.Frequency)),
			)
			continue
		}

		days := datetime.DaysBetween(today, res.DueDate)
		if !keep(res.DueDate, days) {
			continue
		}
		entries = append(entries, Entry{
			ID:            rec.ID,
			Name:          rec.Name,
			Authority:     rec.Authority,
			Category:      rec.Category,
			DueDate:       res.DueDate,
			DaysRemaining: days,
			Description:   rec.Description,
		})
	}

	sortEntries(entries)
	stats.Selected = len(entries)

	elapsed := time.Since(start)
	if e.recorder != nil {
		e.recorder.ObserveRun(view, stats, elapsed)
	}
	e.logger.Debug("deadlines computed",
		zap.String("op", "deadlines.Compute"),
		zap.String("view", view),
		zap.String("today", datetime.FormatDate(today)),
		zap.Int("records", stats.Records),
		zap.Int("selected", stats.Selected),
		zap.Duration("elapsed", elapsed),
	)
	return entries, nil
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].DaysRemaining != entries[j].DaysRemaining {
			return entries[i].DaysRemaining < entries[j].DaysRemaining
		}
		return entries[i].Name < entries[j].Name
	})
}

// Compute is a convenience wrapper using an Engine without logging.
func Compute(records []catalog.Record, daysAhead int, p profile.Profile, today time.Time) ([]Entry, error) {
	return NewEngine(nil).Compute(records, daysAhead, p, today)
}
