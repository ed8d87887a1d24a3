// Package rules resolves the next due date of an obligation.
//
// Resolution is two-tier: a table of dedicated rules keyed by obligation
// identifier is consulted first; on a miss, a table of generic rules keyed by
// the record's declared frequency is used. A record matching neither is not
// computable, which is a normal outcome rather than an error.
package rules

import (
	"fmt"
	"maps"
	"time"

	"github.com/RakeemAI/Rakeem/internal/catalog"
	"github.com/RakeemAI/Rakeem/internal/profile"
	"github.com/RakeemAI/Rakeem/pkg/datetime"
)

// Rule computes the next due date of one specific obligation. It returns
// ok == false when the profile lacks the data the rule needs.
type Rule func(today time.Time, p profile.Profile) (due time.Time, ok bool, err error)

// FrequencyRule computes an approximate next due date from a record's
// declared frequency and approximate month/day.
type FrequencyRule func(rec catalog.Record, today time.Time) (due time.Time, ok bool, err error)

// Result is the outcome of resolving one record. DueDate is meaningful only
// when Computable is true.
type Result struct {
	Record     catalog.Record
	DueDate    time.Time
	Computable bool
}

// Resolver maps records to due dates. The zero value uses the built-in
// tables.
type Resolver struct {
	rules          map[string]Rule
	frequencyRules map[catalog.Frequency]FrequencyRule
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithRule registers or replaces the dedicated rule for an obligation id.
func WithRule(id string, rule Rule) ResolverOption {
	return func(r *Resolver) {
		r.rules[id] = rule
	}
}

// WithFrequencyRule registers or replaces the generic rule for a frequency.
func WithFrequencyRule(freq catalog.Frequency, rule FrequencyRule) ResolverOption {
	return func(r *Resolver) {
		r.frequencyRules[freq] = rule
	}
}

// NewResolver returns a Resolver seeded with the built-in rule tables.
func NewResolver(opts ...ResolverOption) Resolver {
	r := Resolver{
		rules:          maps.Clone(dedicatedRules),
		frequencyRules: maps.Clone(frequencyRules),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r Resolver) ruleTable() map[string]Rule {
	if r.rules == nil {
		return dedicatedRules
	}
	return r.rules
}

func (r Resolver) frequencyTable() map[catalog.Frequency]FrequencyRule {
	if r.frequencyRules == nil {
		return frequencyRules
	}
	return r.frequencyRules
}

// HasDedicatedRule reports whether id has an identifier-specific rule.
func (r Resolver) HasDedicatedRule(id string) bool {
	_, ok := r.ruleTable()[id]
	return ok
}

// HasFrequencyRule reports whether freq has a generic rule.
func (r Resolver) HasFrequencyRule(freq catalog.Frequency) bool {
	_, ok := r.frequencyTable()[freq]
	return ok
}

// Resolve computes the next due date of rec on or after today. The only
// errors are invalid calendar fields, e.g. an approximate month of 13.
func (r Resolver) Resolve(rec catalog.Record, today time.Time, p profile.Profile) (Result, error) {
	today = datetime.Civil(today)
	result := Result{Record: rec}

	var (
		due time.Time
		ok  bool
		err error
	)
	if rule, found := r.ruleTable()[rec.ID]; found && rec.ID != "" {
		due, ok, err = rule(today, p)
	} else if rule, found := r.frequencyTable()[rec.Frequency]; found {
		due, ok, err = rule(rec, today)
	}
	if err != nil {
		return result, fmt.Errorf("resolve obligation %q: %w", rec.ID, err)
	}

	result.DueDate = due
	result.Computable = ok
	return result, nil
}

// NextDueDate is a convenience wrapper around the default Resolver.
func NextDueDate(rec catalog.Record, today time.Time, p profile.Profile) (time.Time, bool, error) {
	res, err := Resolver{}.Resolve(rec, today, p)
	if err != nil {
		return time.Time{}, false, err
	}
	return res.DueDate, res.Computable, nil
}
