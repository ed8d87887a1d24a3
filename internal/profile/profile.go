// Package profile describes the fiscal facts about a company that due-date
// rules depend on.
package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/RakeemAI/Rakeem/pkg/constants"
	"github.com/RakeemAI/Rakeem/pkg/datetime"
	"github.com/RakeemAI/Rakeem/pkg/errors"
)

// VATFrequency is how often the company files VAT returns.
type VATFrequency string

const (
	VATMonthly   VATFrequency = "monthly"
	VATQuarterly VATFrequency = "quarterly"
)

// ParseVATFrequency accepts "monthly" or "quarterly" in any case.
func ParseVATFrequency(value string) (VATFrequency, error) {
	switch VATFrequency(strings.ToLower(strings.TrimSpace(value))) {
	case VATMonthly:
		return VATMonthly, nil
	case VATQuarterly:
		return VATQuarterly, nil
	}
	return "", errors.Newf(errors.CodeInvalidArgument,
		"invalid VAT frequency %q, expected %s or %s", value, VATMonthly, VATQuarterly)
}

// Profile is an immutable fiscal profile. Build it with New; the zero value is
// not valid.
type Profile struct {
	fiscalYearEndMonth time.Month
	fiscalYearEndDay   int
	vatFrequency       VATFrequency
	crIssueDate        *time.Time
}

// Option customizes a Profile under construction.
type Option func(*Profile)

// WithFiscalYearEnd sets the fiscal year end month and day.
func WithFiscalYearEnd(month time.Month, day int) Option {
	return func(p *Profile) {
		p.fiscalYearEndMonth = month
		p.fiscalYearEndDay = day
	}
}

// WithVATFrequency sets the VAT filing frequency.
func WithVATFrequency(freq VATFrequency) Option {
	return func(p *Profile) {
		p.vatFrequency = freq
	}
}

// WithCRIssueDate sets the commercial registration issue date.
func WithCRIssueDate(date time.Time) Option {
	return func(p *Profile) {
		d := datetime.Civil(date)
		p.crIssueDate = &d
	}
}

// New builds a validated Profile. Unset fields default to a December 31st
// fiscal year end, quarterly VAT and no commercial registration date.
func New(opts ...Option) (Profile, error) {
	p := Profile{
		fiscalYearEndMonth: constants.DefaultFiscalYearEndMonth,
		fiscalYearEndDay:   constants.DefaultFiscalYearEndDay,
		vatFrequency:       VATQuarterly,
	}
	for _, opt := range opts {
		opt(&p)
	}

	if err := datetime.ValidateMonth(p.fiscalYearEndMonth); err != nil {
		return Profile{}, fmt.Errorf("fiscal year end: %w", err)
	}
	if err := datetime.ValidateDay(p.fiscalYearEndDay); err != nil {
		return Profile{}, fmt.Errorf("fiscal year end: %w", err)
	}
	if _, err := ParseVATFrequency(string(p.vatFrequency)); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Default returns the profile used when a caller supplies none.
func Default() Profile {
	p, _ := New()
	return p
}

func (p Profile) FiscalYearEndMonth() time.Month { return p.fiscalYearEndMonth }
func (p Profile) FiscalYearEndDay() int          { return p.fiscalYearEndDay }
func (p Profile) VATFrequency() VATFrequency     { return p.vatFrequency }

// CRIssueDate returns the commercial registration issue date, if known.
func (p Profile) CRIssueDate() (time.Time, bool) {
	if p.crIssueDate == nil {
		return time.Time{}, false
	}
	return *p.crIssueDate, true
}

// FiscalYearEnd returns the fiscal year end date falling in year, with the day
// clamped to the month's length.
func (p Profile) FiscalYearEnd(year int) time.Time {
	d, _ := datetime.SafeDate(year, p.fiscalYearEndMonth, p.fiscalYearEndDay)
	return d
}

// NextFiscalYearEnd returns the first fiscal year end on or after today.
func (p Profile) NextFiscalYearEnd(today time.Time) time.Time {
	today = datetime.Civil(today)
	if fye := p.FiscalYearEnd(today.Year()); !fye.Before(today) {
		return fye
	}
	return p.FiscalYearEnd(today.Year() + 1)
}

func (p Profile) String() string {
	cr := "none"
	if d, ok := p.CRIssueDate(); ok {
		cr = datetime.FormatDate(d)
	}
	return fmt.Sprintf("fye=%02d-%02d vat=%s cr=%s", int(p.fiscalYearEndMonth), p.fiscalYearEndDay, p.vatFrequency, cr)
}
