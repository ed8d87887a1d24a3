package integration

import (
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/RakeemAI/Rakeem/internal/catalog"
	"github.com/RakeemAI/Rakeem/internal/deadlines"
	"github.com/RakeemAI/Rakeem/internal/profile"
	"github.com/RakeemAI/Rakeem/pkg/datetime"
	"go.uber.org/zap"
)

// syntheticCatalog builds n generic records cycling through every frequency.
func syntheticCatalog(n int) []catalog.Record {
	frequencies := []catalog.Frequency{catalog.FrequencyAnnual, catalog.FrequencyMonthly, catalog.FrequencyQuarterly}
	records := make([]catalog.Record, n)
	for i := range records {
		month, day := i%12+1, i%28+1
		records[i] = catalog.Record{
			ID:          fmt.Sprintf("synthetic_%05d", i),
			Name:        fmt.Sprintf("Synthetic obligation %05d", i),
			Authority:   "Test",
			Category:    "Synthetic",
			Frequency:   frequencies[i%len(frequencies)],
			ApproxMonth: &month,
			ApproxDay:   &day,
		}
	}
	return records
}

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	records := syntheticCatalog(10000)
	engine := deadlines.NewEngine(zap.NewNop())
	today := datetime.MustParseDate("2025-03-10")

	start := time.Now()
	entries, err := engine.Compute(records, 366, profile.Default(), today)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	elapsed := time.Since(start)

	t.Logf("Computed %d of %d obligations in %v", len(entries), len(records), elapsed)

	if elapsed > 5*time.Second {
		t.Errorf("Processing time %v exceeds 5 second threshold", elapsed)
	}
	if len(entries) != len(records) {
		t.Errorf("Expected every synthetic obligation within a year, got %d of %d", len(entries), len(records))
	}
}

// TestMemoryUsage performs basic memory usage validation
func TestMemoryUsage(t *testing.T) {
	records := syntheticCatalog(10000)
	engine := deadlines.NewEngine(zap.NewNop())
	today := datetime.MustParseDate("2025-03-10")

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	for i := 0; i < 5; i++ {
		if _, err := engine.Compute(records, 366, profile.Default(), today); err != nil {
			t.Fatalf("Compute failed: %v", err)
		}
	}

	runtime.GC()
	runtime.ReadMemStats(&after)

	allocated := after.TotalAlloc - before.TotalAlloc
	t.Logf("Allocated %d bytes over 5 runs", allocated)

	if allocated > 500*1024*1024 {
		t.Errorf("Allocated %d bytes, expected less than 500MB", allocated)
	}
}

func BenchmarkCompute(b *testing.B) {
	records := syntheticCatalog(1000)
	engine := deadlines.NewEngine(zap.NewNop())
	today := datetime.MustParseDate("2025-03-10")
	p := profile.Default()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Compute(records, 366, p, today); err != nil {
			b.Fatal(err)
		}
	}
}
