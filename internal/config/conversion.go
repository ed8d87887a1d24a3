// Package config defines conversion utilities for configuration objects.
package config

import (
	"strings"
	"time"

	"github.com/RakeemAI/Rakeem/internal/profile"
	"github.com/RakeemAI/Rakeem/pkg/datetime"
)

// ToProfile converts the configured fiscal profile into a validated
// profile.Profile. Zero month or day fall back to December 31st.
func (pc ProfileConfig) ToProfile() (profile.Profile, error) {
	var opts []profile.Option

	month, day := pc.FiscalYearEndMonth, pc.FiscalYearEndDay
	if month != 0 || day != 0 {
		if month == 0 {
			month = int(time.December)
		}
		if day == 0 {
			day = 31
		}
		opts = append(opts, profile.WithFiscalYearEnd(time.Month(month), day))
	}

	if strings.TrimSpace(pc.VATFrequency) != "" {
		freq, err := profile.ParseVATFrequency(pc.VATFrequency)
		if err != nil {
			return profile.Profile{}, err
		}
		opts = append(opts, profile.WithVATFrequency(freq))
	}

	if strings.TrimSpace(pc.CRIssueDate) != "" {
		issued, err := datetime.ParseDate(pc.CRIssueDate)
		if err != nil {
			return profile.Profile{}, err
		}
		opts = append(opts, profile.WithCRIssueDate(issued))
	}

	return profile.New(opts...)
}

// FromProfile converts a profile back into its configuration form.
func FromProfile(p profile.Profile) ProfileConfig {
	pc := ProfileConfig{
		FiscalYearEndMonth: int(p.FiscalYearEndMonth()),
		FiscalYearEndDay:   p.FiscalYearEndDay(),
		VATFrequency:       string(p.VATFrequency()),
	}
	if issued, ok := p.CRIssueDate(); ok {
		pc.CRIssueDate = datetime.FormatDate(issued)
	}
	return pc
}

// CompanyProfile returns the configured fiscal profile.
func (c *Configuration) CompanyProfile() (profile.Profile, error) {
	return c.Profile.ToProfile()
}
