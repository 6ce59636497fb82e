// Package maxpain computes TXO max pain levels and tests whether the
// futures settle toward them on settlement days.
package maxpain

import (
	"math"
	"sort"

	"taifex-settlement-lab/internal/domain"
)

// Compute returns the max pain strike for a single-date option chain:
// the strike minimizing the total intrinsic payout across all open
// interest if the market settled exactly there. Ties resolve to the
// lowest strike. Returns false on an empty chain.
func Compute(chain []domain.OptionOI) (float64, bool) {
	if len(chain) == 0 {
		return 0, false
	}

	seen := make(map[float64]struct{})
	var strikes []float64
	for _, row := range chain {
		if _, ok := seen[row.Strike]; !ok {
			seen[row.Strike] = struct{}{}
			strikes = append(strikes, row.Strike)
		}
	}
	sort.Float64s(strikes)

	best := strikes[0]
	bestPain := math.Inf(1)
	for _, s := range strikes {
		if pain := totalPain(chain, s); pain < bestPain {
			bestPain = pain
			best = s
		}
	}
	return best, true
}

// totalPain is the payout owed to option holders at settlement price s.
func totalPain(chain []domain.OptionOI, s float64) float64 {
	pain := 0.0
	for _, row := range chain {
		switch row.Type {
		case domain.OptionCall:
			if s > row.Strike {
				pain += (s - row.Strike) * float64(row.OpenInterest)
			}
		case domain.OptionPut:
			if s < row.Strike {
				pain += (row.Strike - s) * float64(row.OpenInterest)
			}
		}
	}
	return pain
}
