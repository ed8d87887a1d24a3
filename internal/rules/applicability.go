package rules

import (
	"github.com/RakeemAI/Rakeem/internal/catalog"
	"github.com/RakeemAI/Rakeem/internal/profile"
	"github.com/RakeemAI/Rakeem/pkg/constants"
)

// Applies reports whether rec concerns a company with profile p. Only the VAT
// returns are profile specific: a monthly filer has no quarterly return and
// vice versa. Everything else applies to every company.
func Applies(rec catalog.Record, p profile.Profile) bool {
	switch rec.ID {
	case constants.ObligationVATMonthly:
		return p.VATFrequency() == profile.VATMonthly
	case constants.ObligationVATQuarterly:
		return p.VATFrequency() == profile.VATQuarterly
	default:
		return true
	}
}
