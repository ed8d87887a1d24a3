// Package constants provides shared constants for the deadline engine.
package constants

// DateLayout is the civil date format used in configuration, catalogs and
// output (ISO 8601 calendar date).
const DateLayout = "2006-01-02"

// ICSDateLayout is the iCalendar DATE value format.
const ICSDateLayout = "20060102"

// ICSTimestampLayout is the iCalendar UTC DATE-TIME format used for DTSTAMP.
const ICSTimestampLayout = "20060102T150405Z"

// Obligation identifiers with a dedicated due-date rule.
const (
	ObligationZakatAnnual         = "zakat_annual"
	ObligationIncomeTaxAnnual     = "income_tax_annual"
	ObligationVATMonthly          = "vat_monthly"
	ObligationVATQuarterly        = "vat_quarterly"
	ObligationWithholdingTax      = "withholding_tax"
	ObligationExciseTax           = "excise_tax"
	ObligationGOSIMonthly         = "gosi_monthly"
	ObligationFinancialStatements = "financial_statements"
	ObligationCRRenewal           = "cr_renewal"
)

// Rule offsets and anchor days.
const (
	// ZakatFilingDays is the filing window after fiscal year end for Zakat and
	// income tax returns.
	ZakatFilingDays = 120

	// FinancialStatementsDays is the window after fiscal year end for
	// audited financial statements.
	FinancialStatementsDays = 90

	// WithholdingTaxDays is the number of days after month end for
	// withholding tax remittance.
	WithholdingTaxDays = 10

	// MidMonthDay is the due day for excise tax and GOSI contributions.
	MidMonthDay = 15
)

// Generic fallback defaults.
const (
	DefaultApproxMonth        = 12
	DefaultApproxDayAnnual    = 31
	DefaultApproxDayMonthly   = 30
	DefaultFiscalYearEndMonth = 12
	DefaultFiscalYearEndDay   = 31
)

// DefaultDaysAhead is the default reporting horizon in days.
const DefaultDaysAhead = 14

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Output languages for relative day labels.
const (
	LanguageEnglish = "en"
	LanguageArabic  = "ar"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultCatalogFile is the catalog used when none is configured
	DefaultCatalogFile = "data/deadlines.example.json"

	// EnvPrefix prefixes environment overrides, e.g. RAKEEM_DEADLINES_DAYSAHEAD.
	EnvPrefix = "RAKEEM"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestBodySize is the default request body limit (256 KB)
	DefaultMaxRequestBodySize int64 = 256 * 1024
)
