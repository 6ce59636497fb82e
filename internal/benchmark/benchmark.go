// Package benchmark measures whether the settlement-day pattern carries
// an edge beyond plain weekday seasonality. Every non-settlement weekday
// is replayed through the same simulator as a control series.
package benchmark

import (
	"context"
	"fmt"
	"time"

	"taifex-settlement-lab/internal/backtest"
	"taifex-settlement-lab/internal/calendar"
	"taifex-settlement-lab/internal/domain"
	"taifex-settlement-lab/internal/stats"
)

// Result is the evaluated outcome of one event series, settlement or
// control.
type Result struct {
	Label       string
	Weekday     time.Weekday
	Events      int
	Ledger      domain.Ledger
	Performance stats.Performance
	Risk        stats.Risk
}

// Comparison relates the settlement series to its weekday controls.
// EdgeConfirmed requires the settlement net profit to strictly beat
// every control and its win rate to exceed the control mean.
type Comparison struct {
	Settlement Result
	Controls   []Result

	BestNetProfit        bool
	WinRateAboveControls bool
	EdgeConfirmed        bool
}

// Evaluate wraps a ledger with its aggregate and risk views.
func Evaluate(label string, weekday time.Weekday, ledger domain.Ledger, candidates, periodsPerYear int) Result {
	return Result{
		Label:       label,
		Weekday:     weekday,
		Events:      candidates,
		Ledger:      ledger,
		Performance: stats.ComputePerformance(ledger, candidates),
		Risk:        stats.ComputeRisk(ledger, periodsPerYear),
	}
}

// Run replays each weekday other than the settlement weekday as a
// fixed-day control series and evaluates it. Controls come back in
// Monday-to-Friday order.
func Run(ctx context.Context, engine *backtest.Runner, cal *calendar.Calendar, cfg backtest.Config) ([]Result, error) {
	weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

	var controls []Result
	for _, wd := range weekdays {
		if wd == cfg.EventWeekday {
			continue
		}
		events := calendar.LocateWeekday(cal, wd, nil)
		ledger, err := engine.BuildBenchmarkLedger(ctx, events)
		if err != nil {
			return nil, fmt.Errorf("benchmark %s: %w", wd, err)
		}
		// Control event rates are taken against the whole trading
		// calendar, not just the control weekday's own dates.
		controls = append(controls, Evaluate(wd.String(), wd, ledger, cal.Len(), cfg.PeriodsPerYear))
	}
	return controls, nil
}

// Compare builds the verdict between a settlement result and its
// controls. With no controls the edge is vacuously unconfirmed.
func Compare(settlement Result, controls []Result) Comparison {
	cmp := Comparison{Settlement: settlement, Controls: controls}
	if len(controls) == 0 {
		return cmp
	}

	cmp.BestNetProfit = true
	winRateSum := 0.0
	for _, c := range controls {
		if settlement.Performance.NetProfit <= c.Performance.NetProfit {
			cmp.BestNetProfit = false
		}
		winRateSum += c.Performance.WinRate
	}
	cmp.WinRateAboveControls = settlement.Performance.WinRate > winRateSum/float64(len(controls))
	cmp.EdgeConfirmed = cmp.BestNetProfit && cmp.WinRateAboveControls
	return cmp
}
