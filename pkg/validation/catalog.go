package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/RakeemAI/Rakeem/internal/catalog"
	"github.com/RakeemAI/Rakeem/pkg/datetime"
)

// RuleCoverage reports which obligations a resolver can compute.
type RuleCoverage interface {
	HasDedicatedRule(id string) bool
	HasFrequencyRule(freq catalog.Frequency) bool
}

// ValidateCatalog inspects records for problems that do not stop the loader
// but would surprise a user: duplicate or missing identifiers, records no
// rule can compute, and approximate dates out of range. It returns warnings
// in record order.
func ValidateCatalog(records []catalog.Record, coverage RuleCoverage) []string {
	var warnings []string
	seen := make(map[string]int, len(records))

	for i, rec := range records {
		label := recordLabel(i, rec)
		id := strings.TrimSpace(rec.ID)

		if id == "" {
			warnings = append(warnings, fmt.Sprintf("%s has no id", label))
		} else if first, ok := seen[id]; ok {
			warnings = append(warnings, fmt.Sprintf("%s duplicates the id of record %d", label, first))
		} else {
			seen[id] = i
		}

		if strings.TrimSpace(rec.Name) == "" {
			warnings = append(warnings, fmt.Sprintf("%s has no name", label))
		}

		dedicated := id != "" && coverage.HasDedicatedRule(id)
		if !dedicated && !coverage.HasFrequencyRule(rec.Frequency) {
			if rec.Frequency == "" {
				warnings = append(warnings, fmt.Sprintf("%s has no dedicated rule and no frequency; it will never be scheduled", label))
			} else {
				warnings = append(warnings, fmt.Sprintf("%s has unsupported frequency %q; it will never be scheduled", label, rec.Frequency))
			}
		}

		if rec.ApproxMonth != nil {
			if err := datetime.ValidateMonth(time.Month(*rec.ApproxMonth)); err != nil {
				warnings = append(warnings, fmt.Sprintf("%s approximate month: %v", label, err))
			}
		}
		if rec.ApproxDay != nil {
			if err := datetime.ValidateDay(*rec.ApproxDay); err != nil {
				warnings = append(warnings, fmt.Sprintf("%s approximate day: %v", label, err))
			}
		}
		if dedicated && (rec.ApproxMonth != nil || rec.ApproxDay != nil) {
			warnings = append(warnings, fmt.Sprintf("%s has a dedicated rule; its approximate date is ignored", label))
		}
	}

	return warnings
}

func recordLabel(i int, rec catalog.Record) string {
	if rec.ID != "" {
		return fmt.Sprintf("Record %d (%s)", i, rec.ID)
	}
	if rec.Name != "" {
		return fmt.Sprintf("Record %d (%s)", i, rec.Name)
	}
	return fmt.Sprintf("Record %d", i)
}
