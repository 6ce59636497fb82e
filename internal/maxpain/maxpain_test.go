package maxpain

import (
	"math"
	"testing"
	"time"

	"taifex-settlement-lab/internal/backtest"
	"taifex-settlement-lab/internal/domain"
)

func oi(date time.Time, strike float64, typ domain.OptionType, n int64) domain.OptionOI {
	return domain.OptionOI{Date: date, Strike: strike, Type: typ, OpenInterest: n}
}

func TestCompute_HandBuiltChain(t *testing.T) {
	d := domain.NewDate(2024, time.June, 5)
	chain := []domain.OptionOI{
		oi(d, 17000, domain.OptionCall, 100),
		oi(d, 17000, domain.OptionPut, 50),
		oi(d, 17100, domain.OptionCall, 80),
		oi(d, 17100, domain.OptionPut, 120),
		oi(d, 17200, domain.OptionCall, 40),
		oi(d, 17200, domain.OptionPut, 120),
	}
	// Pain at 17000: puts 120*100 + 120*200 = 36000.
	// Pain at 17100: calls 100*100 = 10000, puts 120*100 = 12000.
	// Pain at 17200: calls 100*200 + 80*100 = 28000.
	mp, ok := Compute(chain)
	if !ok {
		t.Fatal("expected a result")
	}
	if mp != 17100 {
		t.Errorf("max pain = %v, want 17100", mp)
	}
}

func TestCompute_TieResolvesToLowestStrike(t *testing.T) {
	d := domain.NewDate(2024, time.June, 5)
	// Symmetric chain: both strikes produce identical pain.
	chain := []domain.OptionOI{
		oi(d, 100, domain.OptionCall, 10),
		oi(d, 200, domain.OptionPut, 10),
	}
	mp, ok := Compute(chain)
	if !ok {
		t.Fatal("expected a result")
	}
	if mp != 100 {
		t.Errorf("max pain = %v, want the lower strike on a tie", mp)
	}
}

func TestCompute_EmptyChain(t *testing.T) {
	if _, ok := Compute(nil); ok {
		t.Error("empty chain must not produce a level")
	}
}

func TestBinomUpperTail(t *testing.T) {
	cases := []struct {
		successes, n int
		want         float64
	}{
		{0, 10, 1.0},
		{5, 10, 0.623046875},
		{8, 10, 0.0546875},
		{10, 10, 1.0 / 1024.0},
	}
	for _, c := range cases {
		got := binomUpperTail(c.successes, c.n)
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("binomUpperTail(%d, %d) = %v, want %v", c.successes, c.n, got, c.want)
		}
	}
}

func TestAnalyze_AttractionAndSkips(t *testing.T) {
	days := []time.Time{
		domain.NewDate(2024, time.June, 5),
		domain.NewDate(2024, time.June, 12),
		domain.NewDate(2024, time.June, 19),
	}

	var bars []*domain.TradingBar
	// Day 1: open 17200, close 17110, max pain 17100: attracted.
	// Day 2: open 17110, close 17250, max pain 17100: repelled.
	bars = append(bars,
		&domain.TradingBar{Date: days[0], Session: domain.SessionRegular, Open: 17200, High: 17250, Low: 17100, Close: 17110},
		&domain.TradingBar{Date: days[1], Session: domain.SessionRegular, Open: 17110, High: 17260, Low: 17100, Close: 17250},
		&domain.TradingBar{Date: days[2], Session: domain.SessionRegular, Open: 17100, High: 17200, Low: 17000, Close: 17150},
	)
	table := backtest.NewBarTable(bars)

	chain := func(d time.Time) []domain.OptionOI {
		return []domain.OptionOI{
			oi(d, 17000, domain.OptionCall, 100),
			oi(d, 17100, domain.OptionCall, 80),
			oi(d, 17100, domain.OptionPut, 120),
			oi(d, 17200, domain.OptionPut, 120),
		}
	}
	oiTable := map[time.Time][]domain.OptionOI{
		days[0]: chain(days[0]),
		days[1]: chain(days[1]),
		// Day 3 has no OI snapshot and must be skipped.
	}

	events := []domain.EventDate{
		{Date: days[0], Kind: domain.EventWeekly},
		{Date: days[1], Kind: domain.EventWeekly},
		{Date: days[2], Kind: domain.EventWeekly},
	}

	a := Analyze(events, table, oiTable)
	if len(a.Observations) != 2 {
		t.Fatalf("observations = %d, want 2", len(a.Observations))
	}
	if !a.Observations[0].Attracted {
		t.Error("day 1 closes nearer max pain than it opened")
	}
	if a.Observations[1].Attracted {
		t.Error("day 2 closes farther from max pain")
	}
	if a.Overall.Samples != 2 || a.Overall.Attracted != 1 {
		t.Errorf("overall = %+v", a.Overall)
	}
	if a.Overall.AttractionRate != 50 {
		t.Errorf("attraction rate = %v, want 50", a.Overall.AttractionRate)
	}

	// One attraction out of two: P(X >= 1) = 0.75.
	if math.Abs(a.Overall.PValue-0.75) > 1e-12 {
		t.Errorf("p-value = %v, want 0.75", a.Overall.PValue)
	}
	if a.Overall.Significant {
		t.Error("a coin-flip rate is not significant")
	}
}

func TestAnalyze_SmallYearSkipsTest(t *testing.T) {
	d := domain.NewDate(2024, time.June, 5)
	table := backtest.NewBarTable([]*domain.TradingBar{
		{Date: d, Session: domain.SessionRegular, Open: 17200, High: 17250, Low: 17100, Close: 17110},
	})
	oiTable := map[time.Time][]domain.OptionOI{
		d: {oi(d, 17100, domain.OptionCall, 10), oi(d, 17100, domain.OptionPut, 10)},
	}
	a := Analyze([]domain.EventDate{{Date: d, Kind: domain.EventWeekly}}, table, oiTable)

	year := a.ByYear[2024]
	if year.Samples != 1 {
		t.Fatalf("year samples = %d", year.Samples)
	}
	if year.PValue != 1 || year.Significant {
		t.Errorf("years under the sample floor must not test: %+v", year)
	}
}
