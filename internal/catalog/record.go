// Package catalog loads the obligation catalog: the read-only list of
// recurring regulatory duties the deadline engine resolves.
package catalog

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Frequency is the declared recurrence of an obligation. The vocabulary is
// open; only the values below have generic due-date rules.
type Frequency string

const (
	FrequencyAnnual    Frequency = "annual"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

var frequencyAliases = map[string]Frequency{
	"annual":    FrequencyAnnual,
	"annually":  FrequencyAnnual,
	"yearly":    FrequencyAnnual,
	"سنوي":      FrequencyAnnual,
	"monthly":   FrequencyMonthly,
	"شهري":      FrequencyMonthly,
	"quarterly": FrequencyQuarterly,
	"ربع سنوي":  FrequencyQuarterly,
}

// NormalizeFrequency maps English and Arabic spellings onto the canonical
// frequencies. Unknown values are returned trimmed but otherwise unchanged.
func NormalizeFrequency(value string) Frequency {
	key := strings.ToLower(normalizeText(value))
	if freq, ok := frequencyAliases[key]; ok {
		return freq
	}
	return Frequency(strings.TrimSpace(value))
}

// Record is one obligation of the catalog.
type Record struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Authority   string    `json:"authority" yaml:"authority"`
	Category    string    `json:"category" yaml:"category"`
	Frequency   Frequency `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	Description string    `json:"description" yaml:"description"`

	// ApproxMonth and ApproxDay anchor the generic annual and monthly rules
	// when no dedicated rule exists for ID.
	ApproxMonth *int `json:"approx_month,omitempty" yaml:"approx_month,omitempty"`
	ApproxDay   *int `json:"approx_day,omitempty" yaml:"approx_day,omitempty"`
}

// ApproxMonthOr returns ApproxMonth, or def when it is unset.
func (r Record) ApproxMonthOr(def int) int {
	if r.ApproxMonth == nil {
		return def
	}
	return *r.ApproxMonth
}

// ApproxDayOr returns ApproxDay, or def when it is unset.
func (r Record) ApproxDayOr(def int) int {
	if r.ApproxDay == nil {
		return def
	}
	return *r.ApproxDay
}

// Field keys as they appear in stored catalogs, in English and in Arabic.
var fieldAliases = map[string]string{
	"id":           "id",
	"المعرّف":      "id",
	"المعرف":       "id",
	"name":         "name",
	"الاسم":        "name",
	"authority":    "authority",
	"الجهة":        "authority",
	"category":     "category",
	"الفئة":        "category",
	"frequency":    "frequency",
	"التكرار":      "frequency",
	"description":  "description",
	"الوصف":        "description",
	"approx_month": "approx_month",
	"approxmonth":  "approx_month",
	"تقريب_الشهر":  "approx_month",
	"approx_day":   "approx_day",
	"approxday":    "approx_day",
	"تقريب_اليوم":  "approx_day",
}

func canonicalField(key string) (string, bool) {
	field, ok := fieldAliases[strings.ToLower(normalizeText(key))]
	return field, ok
}

func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func init() {
	// Lookups are NFC normalized, so the alias keys must be too.
	for key, field := range fieldAliases {
		if n := normalizeText(key); n != key {
			fieldAliases[n] = field
		}
	}
	for key, freq := range frequencyAliases {
		if n := normalizeText(key); n != key {
			frequencyAliases[n] = freq
		}
	}
}
