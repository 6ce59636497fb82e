package stats

import (
	"math"
	"sort"

	"taifex-settlement-lab/internal/domain"
)

// Risk holds the risk-adjusted view of a ledger. Ratios are computed on
// fractional returns and annualized with the configured event frequency.
type Risk struct {
	AnnualizedReturn float64
	Volatility       float64

	Sharpe  float64
	Sortino float64
	Calmar  float64

	VaR95  float64
	CVaR95 float64

	MaxConsecutiveLosses int
}

// ComputeRisk derives risk metrics from a chronological ledger.
// periodsPerYear is the expected number of events per year, 52 for a
// weekly settlement cycle. No-trade records are ignored.
func ComputeRisk(ledger domain.Ledger, periodsPerYear int) Risk {
	var r Risk
	returns := make([]float64, 0, len(ledger))
	for _, rec := range ledger {
		if rec.Direction == domain.DirectionNoTrade {
			continue
		}
		returns = append(returns, rec.Return())
	}
	if len(returns) == 0 {
		return r
	}

	mean := meanOf(returns)
	ppy := float64(periodsPerYear)

	r.AnnualizedReturn = mean * ppy * 100
	r.Volatility = sampleStddev(returns, mean) * math.Sqrt(ppy) * 100
	if r.Volatility > 0 {
		r.Sharpe = r.AnnualizedReturn / r.Volatility
	}
	r.Sortino = sortino(returns, r.AnnualizedReturn, ppy)
	r.Calmar = calmar(returns, r.AnnualizedReturn)

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)
	r.VaR95 = percentile(sorted, 0.05)
	r.CVaR95 = cvar(sorted, r.VaR95)

	r.MaxConsecutiveLosses = maxConsecutiveLosses(returns)
	return r
}

func meanOf(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStddev uses the n-1 denominator and needs at least two samples.
func sampleStddev(xs []float64, mean float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// sortino penalizes only downside volatility, measured as the annualized
// sample deviation of the losing returns alone. A ledger with a positive
// annualized return and no measurable downside comes back as +Inf.
func sortino(returns []float64, annualizedReturn, ppy float64) float64 {
	negatives := make([]float64, 0, len(returns))
	for _, x := range returns {
		if x < 0 {
			negatives = append(negatives, x)
		}
	}
	downside := 0.0
	if len(negatives) > 0 {
		downside = sampleStddev(negatives, meanOf(negatives)) * math.Sqrt(ppy) * 100
	}
	if downside == 0 {
		if annualizedReturn > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return annualizedReturn / downside
}

// calmar divides the annualized return by the magnitude of the worst
// drawdown of the cumulative return curve. Without a drawdown the ratio
// is reported as 0.
func calmar(returns []float64, annualizedReturn float64) float64 {
	dd := maxDrawdown(returns)
	if dd >= 0 {
		return 0
	}
	return annualizedReturn / (-dd * 100)
}

// percentile interpolates linearly over a pre-sorted ascending slice.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// cvar averages the returns at or below the VaR threshold.
func cvar(sorted []float64, threshold float64) float64 {
	sum := 0.0
	count := 0
	for _, x := range sorted {
		if x > threshold {
			break
		}
		sum += x
		count++
	}
	if count == 0 {
		return threshold
	}
	return sum / float64(count)
}

// maxConsecutiveLosses is the longest run of strictly negative returns.
func maxConsecutiveLosses(returns []float64) int {
	maxStreak := 0
	streak := 0
	for _, x := range returns {
		if x < 0 {
			streak++
			if streak > maxStreak {
				maxStreak = streak
			}
		} else {
			streak = 0
		}
	}
	return maxStreak
}
