package stats

import (
	"math"
	"testing"
	"time"

	"taifex-settlement-lab/internal/domain"
)

func trade(date time.Time, pnl float64) *domain.TradeRecord {
	dir := domain.DirectionLong
	if pnl < 0 {
		dir = domain.DirectionShort
	}
	return &domain.TradeRecord{
		EventDate:  date,
		EventKind:  domain.EventWeekly,
		Direction:  dir,
		PnLPercent: pnl,
	}
}

func noTrade(date time.Time) *domain.TradeRecord {
	return &domain.TradeRecord{
		EventDate: date,
		EventKind: domain.EventWeekly,
		Direction: domain.DirectionNoTrade,
	}
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestComputePerformance_TwoTrades(t *testing.T) {
	ledger := domain.Ledger{
		trade(domain.NewDate(2024, time.June, 5), 5.0),
		trade(domain.NewDate(2024, time.June, 12), -2.0),
	}
	p := ComputePerformance(ledger, 2)

	if p.Trades != 2 || p.Wins != 1 || p.Losses != 1 || p.Breakevens != 0 {
		t.Fatalf("counts = %+v", p)
	}
	approx(t, "net profit", p.NetProfit, 3.0)
	approx(t, "win rate", p.WinRate, 50.0)
	approx(t, "avg trade", p.AvgTrade, 1.5)
	approx(t, "avg win", p.AvgWin, 5.0)
	approx(t, "avg loss", p.AvgLoss, -2.0)
	approx(t, "profit loss ratio", p.ProfitLossRatio, 2.5)
	approx(t, "max profit", p.MaxProfit, 5.0)
	approx(t, "max loss", p.MaxLoss, -2.0)
	approx(t, "event rate", p.EventRate, 100.0)
	// b=2.5, p=q=0.5: (2.5*0.5 - 0.5)/2.5 * 100
	approx(t, "kelly", p.Kelly, 30.0)
	approx(t, "max drawdown", p.MaxDrawdown, -2.0)
}

func TestComputePerformance_AllNoTrade(t *testing.T) {
	ledger := domain.Ledger{
		noTrade(domain.NewDate(2024, time.June, 5)),
		noTrade(domain.NewDate(2024, time.June, 12)),
	}
	p := ComputePerformance(ledger, 2)
	if p != (Performance{}) {
		t.Errorf("expected zero value, got %+v", p)
	}
}

func TestComputePerformance_Empty(t *testing.T) {
	p := ComputePerformance(nil, 0)
	if p != (Performance{}) {
		t.Errorf("expected zero value, got %+v", p)
	}
}

func TestComputePerformance_Breakeven(t *testing.T) {
	ledger := domain.Ledger{
		trade(domain.NewDate(2024, time.June, 5), 4.0),
		trade(domain.NewDate(2024, time.June, 12), 0.0),
	}
	p := ComputePerformance(ledger, 4)

	if p.Wins != 1 || p.Losses != 0 || p.Breakevens != 1 {
		t.Fatalf("counts = %+v", p)
	}
	// Breakeven trades dilute the win rate without counting as losses.
	approx(t, "win rate", p.WinRate, 50.0)
	approx(t, "event rate", p.EventRate, 50.0)
}

func TestKelly_DegenerateWithoutLosses(t *testing.T) {
	ledger := domain.Ledger{
		trade(domain.NewDate(2024, time.June, 5), 1.0),
		trade(domain.NewDate(2024, time.June, 12), 2.0),
	}
	p := ComputePerformance(ledger, 2)
	approx(t, "kelly", p.Kelly, 0)
}

func TestKelly_DegenerateWithoutWins(t *testing.T) {
	ledger := domain.Ledger{
		trade(domain.NewDate(2024, time.June, 5), -1.0),
	}
	p := ComputePerformance(ledger, 1)
	approx(t, "kelly", p.Kelly, 0)
}

func TestMaxDrawdown_NeverPositive(t *testing.T) {
	series := [][]float64{
		{1, 2, 3},
		{-1, -2, -3},
		{3, -1, 2, -4, 1},
		{},
	}
	for _, pnls := range series {
		if dd := maxDrawdown(pnls); dd > 0 {
			t.Errorf("maxDrawdown(%v) = %v, want <= 0", pnls, dd)
		}
	}
}

func TestMaxDrawdown_PeakToTrough(t *testing.T) {
	// Cumulative: 3, 2, 4, 0, 1. Peak 4, trough 0.
	approx(t, "max drawdown", maxDrawdown([]float64{3, -1, 2, -4, 1}), -4.0)
}

func TestMaxDrawdown_OpeningLossIsNotADrawdown(t *testing.T) {
	// Cumulative: -5, -4. Never below its own running peak.
	approx(t, "max drawdown", maxDrawdown([]float64{-5, 1}), 0)
}

func TestKelly_BreakevensDiluteWinProbability(t *testing.T) {
	ledger := domain.Ledger{
		trade(domain.NewDate(2024, time.June, 5), 5.0),
		trade(domain.NewDate(2024, time.June, 12), -2.0),
		trade(domain.NewDate(2024, time.June, 19), 0.0),
	}
	p := ComputePerformance(ledger, 3)

	// b=2.5, p=1/3 over all three trades, q=2/3.
	approx(t, "win rate", p.WinRate, 100.0/3.0)
	approx(t, "kelly", p.Kelly, 20.0/3.0)
}

func TestSegment_PartitionsCoverLedger(t *testing.T) {
	ledger := domain.Ledger{
		trade(domain.NewDate(2024, time.June, 5), 5.0),
		trade(domain.NewDate(2024, time.June, 12), -2.0),
		trade(domain.NewDate(2024, time.June, 19), 1.0),
	}
	ledger[0].TrendIndicator = 10
	ledger[1].TrendIndicator = -3
	ledger[2].TrendIndicator = 10
	ledger[2].EventKind = domain.EventMonthly

	for _, dim := range []Dimension{DimensionTrend, DimensionPriorCandle, DimensionGap, DimensionEventKind} {
		buckets := Segment(ledger, dim)
		total := 0
		for _, p := range buckets {
			total += p.Trades
		}
		if total != len(ledger) {
			t.Errorf("dimension %s: bucket trades sum to %d, want %d", dim, total, len(ledger))
		}
	}

	byTrend := Segment(ledger, DimensionTrend)
	if byTrend["up"].Trades != 2 || byTrend["down"].Trades != 1 {
		t.Errorf("trend buckets = %+v", byTrend)
	}
	byKind := Segment(ledger, DimensionEventKind)
	if byKind["weekly"].Trades != 2 || byKind["monthly"].Trades != 1 {
		t.Errorf("kind buckets = %+v", byKind)
	}
}

func TestByYearAndMonth(t *testing.T) {
	ledger := domain.Ledger{
		trade(domain.NewDate(2023, time.December, 27), 2.0),
		trade(domain.NewDate(2024, time.January, 3), -1.0),
		trade(domain.NewDate(2024, time.January, 10), 4.0),
	}

	years := ByYear(ledger)
	if years[2023].Trades != 1 || years[2024].Trades != 2 {
		t.Errorf("years = %+v", years)
	}

	months := ByMonth(ledger)
	if months["2023-12"].Trades != 1 || months["2024-01"].Trades != 2 {
		t.Errorf("months = %+v", months)
	}
	approx(t, "2024-01 net", months["2024-01"].NetProfit, 3.0)
}
