package stats

import (
	"fmt"

	"taifex-settlement-lab/internal/domain"
)

// ByYear groups a ledger by the calendar year of the event date.
func ByYear(ledger domain.Ledger) map[int]Performance {
	buckets := make(map[int]domain.Ledger)
	for _, rec := range ledger {
		y := rec.EventDate.Year()
		buckets[y] = append(buckets[y], rec)
	}

	out := make(map[int]Performance, len(buckets))
	for y, slice := range buckets {
		out[y] = ComputePerformance(slice, len(slice))
	}
	return out
}

// ByMonth groups a ledger by year and month, keyed "2024-06".
func ByMonth(ledger domain.Ledger) map[string]Performance {
	buckets := make(map[string]domain.Ledger)
	for _, rec := range ledger {
		key := fmt.Sprintf("%04d-%02d", rec.EventDate.Year(), int(rec.EventDate.Month()))
		buckets[key] = append(buckets[key], rec)
	}

	out := make(map[string]Performance, len(buckets))
	for key, slice := range buckets {
		out[key] = ComputePerformance(slice, len(slice))
	}
	return out
}
