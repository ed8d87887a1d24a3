package datetime

import (
	"testing"
	"time"

	"github.com/RakeemAI/Rakeem/pkg/errors"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
		wantErr  bool
	}{
		{
			name:     "Valid date",
			value:    "2025-03-10",
			expected: "2025-03-10",
		},
		{
			name:     "Surrounding whitespace",
			value:    " 2024-02-29 ",
			expected: "2024-02-29",
		},
		{
			name:    "Not a leap year",
			value:   "2025-02-29",
			wantErr: true,
		},
		{
			name:    "Month only",
			value:   "2025-03",
			wantErr: true,
		},
		{
			name:    "Empty",
			value:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate() expected error but got none")
				}
				if !errors.IsCode(err, errors.CodeInvalidArgument) {
					t.Errorf("ParseDate() error = %v, expected invalid argument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate() error = %v", err)
			}
			if FormatDate(result) != tt.expected {
				t.Errorf("ParseDate() = %s, expected %s", FormatDate(result), tt.expected)
			}
		})
	}
}

func TestMustParseDatePanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected MustParseDate to panic with invalid date")
		}
	}()

	MustParseDate("invalid-date")
}

func TestCivilDropsClockAndZone(t *testing.T) {
	riyadh := time.FixedZone("AST", 3*60*60)
	in := time.Date(2025, time.March, 10, 23, 30, 0, 0, riyadh)

	got := Civil(in)
	if got.Location() != time.UTC {
		t.Errorf("Civil() location = %v, expected UTC", got.Location())
	}
	if FormatDate(got) != "2025-03-10" {
		t.Errorf("Civil() = %s, expected 2025-03-10", FormatDate(got))
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("Civil() kept clock %s", got.Format(time.TimeOnly))
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected int
	}{
		{name: "Same day", from: "2025-03-10", to: "2025-03-10", expected: 0},
		{name: "Forward across month", from: "2025-03-10", to: "2025-04-30", expected: 51},
		{name: "Backward", from: "2025-03-10", to: "2025-03-01", expected: -9},
		{name: "Across leap day", from: "2024-02-28", to: "2024-03-01", expected: 2},
		{name: "Across year", from: "2025-12-31", to: "2026-04-30", expected: 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysBetween(MustParseDate(tt.from), MustParseDate(tt.to))
			if got != tt.expected {
				t.Errorf("DaysBetween() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	got := AddDays(MustParseDate("2025-12-31"), 120)
	if FormatDate(got) != "2026-04-30" {
		t.Errorf("AddDays() = %s, expected 2026-04-30", FormatDate(got))
	}
}

func TestDateLayoutRoundTrip(t *testing.T) {
	testDate := "2025-06-15"
	if FormatDate(MustParseDate(testDate)) != testDate {
		t.Errorf("DateLayout constant doesn't work correctly for parsing/formatting")
	}
}
