package testutil

import (
	"reflect"
	"testing"

	"github.com/RakeemAI/Rakeem/internal/deadlines"
)

func TestFindEntry(t *testing.T) {
	entries := []deadlines.Entry{
		{ID: "vat_monthly", Name: "VAT return (monthly)", DaysRemaining: 51},
		{ID: "gosi_monthly", Name: "GOSI contributions", DaysRemaining: 5},
		{ID: "cr_renewal", Name: "Commercial registration renewal", DaysRemaining: 97},
	}

	tests := []struct {
		name         string
		id           string
		expectFound  bool
		expectedDays int
	}{
		{
			name:         "Find first entry",
			id:           "vat_monthly",
			expectFound:  true,
			expectedDays: 51,
		},
		{
			name:         "Find last entry",
			id:           "cr_renewal",
			expectFound:  true,
			expectedDays: 97,
		},
		{
			name:        "Entry not found",
			id:          "zakat_annual",
			expectFound: false,
		},
		{
			name:        "Empty id",
			id:          "",
			expectFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindEntry(entries, tt.id)

			if tt.expectFound {
				if result == nil {
					t.Fatalf("Expected to find entry %q, but got nil", tt.id)
				}
				if result.DaysRemaining != tt.expectedDays {
					t.Errorf("Expected %d days remaining, got %d", tt.expectedDays, result.DaysRemaining)
				}
			} else if result != nil {
				t.Errorf("Expected nil for entry %q, but got %+v", tt.id, *result)
			}
		})
	}
}

func TestFindEntryReturnsPointerIntoSlice(t *testing.T) {
	entries := []deadlines.Entry{{ID: "gosi_monthly"}}

	FindEntry(entries, "gosi_monthly").DaysRemaining = 3
	if entries[0].DaysRemaining != 3 {
		t.Errorf("Expected the returned pointer to alias the slice element")
	}
}

func TestFindEntryEmpty(t *testing.T) {
	if FindEntry(nil, "vat_monthly") != nil {
		t.Error("Expected nil for nil slice")
	}
	if FindEntry([]deadlines.Entry{}, "vat_monthly") != nil {
		t.Error("Expected nil for empty slice")
	}
}

func TestEntryIDs(t *testing.T) {
	entries := []deadlines.Entry{{ID: "gosi_monthly"}, {ID: "vat_monthly"}}

	if got := EntryIDs(entries); !reflect.DeepEqual(got, []string{"gosi_monthly", "vat_monthly"}) {
		t.Errorf("EntryIDs() = %v", got)
	}
	if got := EntryIDs(nil); got == nil || len(got) != 0 {
		t.Errorf("EntryIDs(nil) = %#v, want empty non-nil slice", got)
	}
}
