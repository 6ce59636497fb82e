package stats

import (
	"math"

	"taifex-settlement-lab/internal/domain"
)

// Performance aggregates trade-level outcomes for one ledger slice.
// Percentages are kept at full precision; rounding happens in reporting.
type Performance struct {
	Trades     int
	Wins       int
	Losses     int
	Breakevens int

	NetProfit   float64
	TotalProfit float64
	TotalLoss   float64
	MaxProfit   float64
	MaxLoss     float64

	AvgWin   float64
	AvgLoss  float64
	AvgTrade float64

	WinRate         float64
	ProfitLossRatio float64
	Kelly           float64
	MaxDrawdown     float64
	EventRate       float64
}

// ComputePerformance aggregates a ledger against the number of candidate
// events that were examined to produce it. Records with a no-trade
// direction count toward nothing. The ledger must be in chronological
// order for the drawdown to be meaningful.
func ComputePerformance(ledger domain.Ledger, candidates int) Performance {
	var p Performance
	pnls := make([]float64, 0, len(ledger))
	for _, rec := range ledger {
		if rec.Direction == domain.DirectionNoTrade {
			continue
		}
		pnls = append(pnls, rec.PnLPercent)
	}
	if len(pnls) == 0 {
		return p
	}

	p.Trades = len(pnls)
	for i, pnl := range pnls {
		p.NetProfit += pnl
		switch {
		case pnl > 0:
			p.Wins++
			p.TotalProfit += pnl
		case pnl < 0:
			p.Losses++
			p.TotalLoss += pnl
		default:
			p.Breakevens++
		}
		if i == 0 || pnl > p.MaxProfit {
			p.MaxProfit = pnl
		}
		if i == 0 || pnl < p.MaxLoss {
			p.MaxLoss = pnl
		}
	}

	if p.Wins > 0 {
		p.AvgWin = p.TotalProfit / float64(p.Wins)
	}
	if p.Losses > 0 {
		p.AvgLoss = p.TotalLoss / float64(p.Losses)
	}
	p.AvgTrade = p.NetProfit / float64(p.Trades)
	p.WinRate = float64(p.Wins) / float64(p.Trades) * 100

	if p.AvgLoss != 0 {
		p.ProfitLossRatio = p.AvgWin / -p.AvgLoss
	}
	p.Kelly = kelly(p.WinRate, p.ProfitLossRatio)
	p.MaxDrawdown = maxDrawdown(pnls)
	if candidates > 0 {
		p.EventRate = float64(p.Trades) / float64(candidates) * 100
	}
	return p
}

// kelly computes the Kelly criterion as a percentage of capital.
// The win probability is the win rate over every closed trade,
// breakevens included. The formula degenerates without a positive
// payoff ratio or any winning trade, in which case it returns 0.
func kelly(winRate, payoffRatio float64) float64 {
	if payoffRatio <= 0 || winRate <= 0 {
		return 0
	}
	p := winRate / 100
	q := 1 - p
	return (payoffRatio*p - q) / payoffRatio * 100
}

// maxDrawdown is the deepest drop of the cumulative pnl curve below its
// running peak, reported as a non-positive number. The peak is anchored
// at the first cumulative value, so a curve that only climbs from a low
// start reports no drawdown.
func maxDrawdown(pnls []float64) float64 {
	cumulative := 0.0
	peak := math.Inf(-1)
	worst := 0.0
	for _, pnl := range pnls {
		cumulative += pnl
		if cumulative > peak {
			peak = cumulative
		}
		if dd := cumulative - peak; dd < worst {
			worst = dd
		}
	}
	return worst
}
