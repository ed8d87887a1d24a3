package rules

import (
	"time"

	"github.com/RakeemAI/Rakeem/internal/profile"
	"github.com/RakeemAI/Rakeem/pkg/constants"
	"github.com/RakeemAI/Rakeem/pkg/datetime"
)

var dedicatedRules = map[string]Rule{
	constants.ObligationZakatAnnual:         afterFiscalYearEnd(constants.ZakatFilingDays),
	constants.ObligationIncomeTaxAnnual:     afterFiscalYearEnd(constants.ZakatFilingDays),
	constants.ObligationVATMonthly:          vatMonthly,
	constants.ObligationVATQuarterly:        vatQuarterly,
	constants.ObligationWithholdingTax:      withholdingTax,
	constants.ObligationExciseTax:           exciseTax,
	constants.ObligationGOSIMonthly:         gosiMonthly,
	constants.ObligationFinancialStatements: afterFiscalYearEnd(constants.FinancialStatementsDays),
	constants.ObligationCRRenewal:           crRenewal,
}

// afterFiscalYearEnd is due a fixed number of days after the next fiscal year
// end on or after today.
func afterFiscalYearEnd(days int) Rule {
	return func(today time.Time, p profile.Profile) (time.Time, bool, error) {
		return datetime.AddDays(p.NextFiscalYearEnd(today), days), true, nil
	}
}

// vatMonthly treats the current month as the tax period; the return is due at
// the end of the following month.
func vatMonthly(today time.Time, _ profile.Profile) (time.Time, bool, error) {
	periodEnd, err := datetime.EndOfMonth(today.Year(), today.Month())
	if err != nil {
		return time.Time{}, false, err
	}
	return datetime.MonthEndFollowing(periodEnd), true, nil
}

// vatQuarterly is due at the end of the month after the next quarter end.
func vatQuarterly(today time.Time, _ profile.Profile) (time.Time, bool, error) {
	return datetime.MonthEndFollowing(datetime.NextQuarterEnd(today)), true, nil
}

func withholdingTax(today time.Time, _ profile.Profile) (time.Time, bool, error) {
	periodEnd, err := datetime.EndOfMonth(today.Year(), today.Month())
	if err != nil {
		return time.Time{}, false, err
	}
	return datetime.AddDays(periodEnd, constants.WithholdingTaxDays), true, nil
}

// exciseTax is due mid-month of the month following today's.
func exciseTax(today time.Time, _ profile.Profile) (time.Time, bool, error) {
	year, month := datetime.NextMonth(today.Year(), today.Month())
	due, err := datetime.SafeDate(year, month, constants.MidMonthDay)
	return due, err == nil, err
}

// gosiMonthly is due mid-month; once this month's date has passed the next
// month's applies.
func gosiMonthly(today time.Time, _ profile.Profile) (time.Time, bool, error) {
	due, err := datetime.SafeDate(today.Year(), today.Month(), constants.MidMonthDay)
	if err != nil {
		return time.Time{}, false, err
	}
	if !due.Before(today) {
		return due, true, nil
	}
	year, month := datetime.NextMonth(today.Year(), today.Month())
	due, err = datetime.SafeDate(year, month, constants.MidMonthDay)
	return due, err == nil, err
}

// crRenewal falls on the anniversary of the commercial registration. Without
// an issue date there is nothing to compute.
func crRenewal(today time.Time, p profile.Profile) (time.Time, bool, error) {
	issued, ok := p.CRIssueDate()
	if !ok {
		return time.Time{}, false, nil
	}
	return datetime.NextAnniversary(issued, today), true, nil
}
