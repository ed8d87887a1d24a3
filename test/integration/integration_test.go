package integration

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/RakeemAI/Rakeem/internal/catalog"
	"github.com/RakeemAI/Rakeem/internal/config"
	"github.com/RakeemAI/Rakeem/internal/deadlines"
	"github.com/RakeemAI/Rakeem/internal/profile"
	"github.com/RakeemAI/Rakeem/internal/rules"
	"github.com/RakeemAI/Rakeem/pkg/datetime"
	"github.com/RakeemAI/Rakeem/pkg/output"
	"github.com/RakeemAI/Rakeem/pkg/testutil"
	"github.com/RakeemAI/Rakeem/pkg/validation"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

const repoRoot = "../.."

// loadExample loads the shipped example configuration and catalog exactly as
// the CLI does.
func loadExample(t *testing.T) (*config.Configuration, profile.Profile, []catalog.Record) {
	t.Helper()

	conf, err := config.LoadConfiguration(filepath.Join(repoRoot, "config.yaml.example"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	conf.Catalog.Path = filepath.Join(repoRoot, conf.Catalog.Path)

	if err := conf.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	p, err := conf.CompanyProfile()
	if err != nil {
		t.Fatalf("CompanyProfile() error = %v", err)
	}
	records, err := catalog.NewLoader(zap.NewNop()).Load(conf.Catalog.Path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return conf, p, records
}

// TestMainIntegrationBaseline checks the example setup against known due dates.
func TestMainIntegrationBaseline(t *testing.T) {
	_, p, records := loadExample(t)
	today := datetime.MustParseDate("2025-03-10")

	entries, err := deadlines.Compute(records, 420, p, today)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if len(entries) != len(records) {
		t.Errorf("Expected every one of the %d obligations within 420 days, got %d", len(records), len(entries))
	}

	baseline := []struct {
		id   string
		due  string
		days int
	}{
		{"wps_payroll", "2025-03-10", 0},
		{"gosi_monthly", "2025-03-15", 5},
		{"chamber_membership", "2025-03-31", 21},
		{"withholding_tax", "2025-04-10", 31},
		{"excise_tax", "2025-04-15", 36},
		{"vat_monthly", "2025-04-30", 51},
		{"vat_quarterly", "2025-04-30", 51},
		{"nitaqat_review", "2025-04-30", 51},
		{"cr_renewal", "2025-06-15", 97},
		{"financial_statements", "2026-03-31", 386},
		{"zakat_annual", "2026-04-30", 416},
		{"income_tax_annual", "2026-04-30", 416},
	}

	for _, check := range baseline {
		entry := testutil.FindEntry(entries, check.id)
		if entry == nil {
			t.Errorf("Missing obligation %s", check.id)
			continue
		}
		if got := datetime.FormatDate(entry.DueDate); got != check.due {
			t.Errorf("%s: due %s, expected %s", check.id, got, check.due)
		}
		if entry.DaysRemaining != check.days {
			t.Errorf("%s: %d days remaining, expected %d", check.id, entry.DaysRemaining, check.days)
		}
	}
}

func TestExampleCatalogIsClean(t *testing.T) {
	conf, _, records := loadExample(t)

	if warnings := validation.ValidateCatalog(records, rules.NewResolver()); len(warnings) != 0 {
		t.Errorf("Expected no catalog warnings, got %v", warnings)
	}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("Expected no configuration warnings, got %v", warnings)
	}
}

func TestOutputFormatsAgree(t *testing.T) {
	_, p, records := loadExample(t)
	entries, err := deadlines.Compute(records, 60, p, datetime.MustParseDate("2025-03-10"))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	var csvBuf bytes.Buffer
	if err := output.CsvFormat(&csvBuf, entries); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}
	rows, err := csv.NewReader(&csvBuf).ReadAll()
	if err != nil {
		t.Fatalf("Generated CSV is not parseable: %v", err)
	}
	if len(rows) != len(entries)+1 {
		t.Errorf("Expected %d CSV rows, got %d", len(entries)+1, len(rows))
	}

	var jsonBuf bytes.Buffer
	if err := output.JSONFormat(&jsonBuf, entries); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}
	var decoded []deadlines.Entry
	if err := json.Unmarshal(jsonBuf.Bytes(), &decoded); err != nil {
		t.Fatalf("Generated JSON is not parseable: %v", err)
	}
	if len(decoded) != len(entries) {
		t.Errorf("Expected %d JSON entries, got %d", len(entries), len(decoded))
	}
	for i := range entries {
		if i < len(decoded) && rows[i+1][0] != decoded[i].ID {
			t.Errorf("Row %d: CSV id %s, JSON id %s", i, rows[i+1][0], decoded[i].ID)
		}
	}

	ics := string(output.ICal(entries, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)))
	if n := strings.Count(ics, "BEGIN:VEVENT"); n != len(entries) {
		t.Errorf("Expected %d calendar events, got %d", len(entries), n)
	}

	var pretty bytes.Buffer
	if err := output.PrettyFormat(&pretty, entries, "ar"); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	for _, e := range entries {
		if !strings.Contains(pretty.String(), e.Name) {
			t.Errorf("Pretty output is missing %s", e.Name)
		}
	}
}

// TestDataConsistency sweeps every day of a leap year and checks the window
// invariants hold for each reference date.
func TestDataConsistency(t *testing.T) {
	_, p, records := loadExample(t)
	engine := deadlines.NewEngine(zap.NewNop())

	start := datetime.MustParseDate("2024-01-01")
	for day := 0; day < 366; day++ {
		today := datetime.AddDays(start, day)

		entries, err := engine.Compute(records, 366, p, today)
		if err != nil {
			t.Fatalf("%s: Compute() error = %v", datetime.FormatDate(today), err)
		}

		seen := make(map[string]bool, len(entries))
		for i, e := range entries {
			if seen[e.ID] {
				t.Errorf("%s: %s reported twice", datetime.FormatDate(today), e.ID)
			}
			seen[e.ID] = true

			if e.DueDate.Before(today) {
				t.Errorf("%s: %s due %s is in the past", datetime.FormatDate(today), e.ID, datetime.FormatDate(e.DueDate))
			}
			if e.DaysRemaining != datetime.DaysBetween(today, e.DueDate) {
				t.Errorf("%s: %s days remaining %d does not match due date", datetime.FormatDate(today), e.ID, e.DaysRemaining)
			}
			if i > 0 && entries[i-1].DaysRemaining > e.DaysRemaining {
				t.Errorf("%s: entries out of order at %d", datetime.FormatDate(today), i)
			}
		}

		for _, id := range []string{"vat_monthly", "withholding_tax", "excise_tax", "gosi_monthly", "wps_payroll"} {
			if !seen[id] {
				t.Errorf("%s: monthly obligation %s missing from a 366 day window", datetime.FormatDate(today), id)
			}
		}
	}
}

func TestConfigurationVariations(t *testing.T) {
	_, _, records := loadExample(t)
	today := datetime.MustParseDate("2025-03-10")

	tests := []struct {
		name    string
		profile config.ProfileConfig
		id      string
		due     string
	}{
		{
			name:    "March fiscal year end",
			profile: config.ProfileConfig{FiscalYearEndMonth: 3, FiscalYearEndDay: 31},
			id:      "zakat_annual",
			due:     "2025-07-29",
		},
		{
			name:    "June fiscal year end",
			profile: config.ProfileConfig{FiscalYearEndMonth: 6, FiscalYearEndDay: 30},
			id:      "financial_statements",
			due:     "2025-09-28",
		},
		{
			name:    "Registration issued in spring",
			profile: config.ProfileConfig{CRIssueDate: "2019-04-01"},
			id:      "cr_renewal",
			due:     "2025-04-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.profile.ToProfile()
			if err != nil {
				t.Fatalf("ToProfile() error = %v", err)
			}
			entries, err := deadlines.Compute(records, 366, p, today)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			entry := testutil.FindEntry(entries, tt.id)
			if entry == nil {
				t.Fatalf("Missing obligation %s", tt.id)
			}
			if got := datetime.FormatDate(entry.DueDate); got != tt.due {
				t.Errorf("Expected %s due %s, got %s", tt.id, tt.due, got)
			}
		})
	}
}

// TestMalformedCalendarFieldsAreTolerated checks a record with an unusable
// approximate day falls back to the default anchor instead of failing the run.
func TestMalformedCalendarFieldsAreTolerated(t *testing.T) {
	records, err := catalog.NewLoader(zap.NewNop()).Decode(strings.NewReader(`[
		{"id": "gosi_monthly", "name": "GOSI contributions", "frequency": "monthly"},
		{"id": "survey", "name": "Monthly survey", "frequency": "monthly", "approx_day": 1e20}
	]`), catalog.FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	entries, err := deadlines.Compute(records, 31, profile.Default(), datetime.MustParseDate("2025-03-10"))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	survey := testutil.FindEntry(entries, "survey")
	if survey == nil {
		t.Fatalf("Expected the survey obligation, got %v", testutil.EntryIDs(entries))
	}
	if got := datetime.FormatDate(survey.DueDate); got != "2025-03-30" {
		t.Errorf("Expected the default monthly anchor 2025-03-30, got %s", got)
	}
	if testutil.FindEntry(entries, "gosi_monthly") == nil {
		t.Errorf("Expected gosi_monthly alongside the malformed record")
	}
}
