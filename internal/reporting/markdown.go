package reporting

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"taifex-settlement-lab/internal/stats"
)

// RenderMarkdown renders a report as a Markdown string. Percentages are
// rounded to two decimals, ratios to three.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Settlement Day Backtest Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Period: %s to %s | Event weekday: %s\n\n",
		r.PeriodStart.Format("2006-01-02"), r.PeriodEnd.Format("2006-01-02"), r.EventWeekday))
	sb.WriteString(fmt.Sprintf("Variant: opening_price=%s, prev_close=%s\n\n",
		r.OpeningPriceCalc, r.PrevCloseCalc))

	sb.WriteString("## Performance\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Events Examined | %d |\n", r.Events))
	sb.WriteString(fmt.Sprintf("| Trades | %d |\n", r.Trades))
	sb.WriteString(fmt.Sprintf("| Event Rate | %.2f%% |\n", r.Overall.EventRate))
	sb.WriteString(fmt.Sprintf("| Net Profit | %.2f%% |\n", r.Overall.NetProfit))
	sb.WriteString(fmt.Sprintf("| Win Rate | %.2f%% (%d W / %d L / %d BE) |\n",
		r.Overall.WinRate, r.Overall.Wins, r.Overall.Losses, r.Overall.Breakevens))
	sb.WriteString(fmt.Sprintf("| Avg Trade | %.2f%% |\n", r.Overall.AvgTrade))
	sb.WriteString(fmt.Sprintf("| Avg Win / Avg Loss | %.2f%% / %.2f%% |\n", r.Overall.AvgWin, r.Overall.AvgLoss))
	sb.WriteString(fmt.Sprintf("| Profit/Loss Ratio | %.3f |\n", r.Overall.ProfitLossRatio))
	sb.WriteString(fmt.Sprintf("| Kelly | %.2f%% |\n", r.Overall.Kelly))
	sb.WriteString(fmt.Sprintf("| Max Profit / Max Loss | %.2f%% / %.2f%% |\n", r.Overall.MaxProfit, r.Overall.MaxLoss))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.2f%% |\n", r.Overall.MaxDrawdown))
	sb.WriteString("\n")

	sb.WriteString("## Risk\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Annualized Return | %.2f%% |\n", r.Risk.AnnualizedReturn))
	sb.WriteString(fmt.Sprintf("| Volatility | %.2f%% |\n", r.Risk.Volatility))
	sb.WriteString(fmt.Sprintf("| Sharpe | %s |\n", fmtRatio(r.Risk.Sharpe)))
	sb.WriteString(fmt.Sprintf("| Sortino | %s |\n", fmtRatio(r.Risk.Sortino)))
	sb.WriteString(fmt.Sprintf("| Calmar | %s |\n", fmtRatio(r.Risk.Calmar)))
	sb.WriteString(fmt.Sprintf("| VaR 95 | %.2f%% |\n", r.Risk.VaR95*100))
	sb.WriteString(fmt.Sprintf("| CVaR 95 | %.2f%% |\n", r.Risk.CVaR95*100))
	sb.WriteString(fmt.Sprintf("| Max Consecutive Losses | %d |\n", r.Risk.MaxConsecutiveLosses))
	sb.WriteString("\n")

	for _, seg := range r.Segments {
		sb.WriteString(fmt.Sprintf("## By %s\n\n", seg.Title))
		writePerformanceTable(&sb, "Bucket", func(yield func(string, stats.Performance)) {
			for _, row := range seg.Rows {
				yield(row.Bucket, row.Performance)
			}
		})
	}

	if len(r.Yearly) > 0 {
		sb.WriteString("## By Year\n\n")
		writePerformanceTable(&sb, "Year", func(yield func(string, stats.Performance)) {
			for _, row := range r.Yearly {
				yield(fmt.Sprintf("%d", row.Year), row.Performance)
			}
		})
	}

	if len(r.Monthly) > 0 {
		sb.WriteString("## By Month\n\n")
		writePerformanceTable(&sb, "Month", func(yield func(string, stats.Performance)) {
			for _, row := range r.Monthly {
				yield(row.Month, row.Performance)
			}
		})
	}

	if r.Benchmark != nil {
		writeBenchmarkSection(&sb, r)
	}
	if r.MaxPain != nil {
		writeMaxPainSection(&sb, r)
	}

	return sb.String()
}

func writePerformanceTable(sb *strings.Builder, key string, rows func(func(string, stats.Performance))) {
	sb.WriteString(fmt.Sprintf("| %s | Trades | Win Rate | Net Profit | Avg Trade | Max Drawdown |\n", key))
	sb.WriteString("|---|--------|----------|------------|-----------|--------------|\n")
	rows(func(label string, p stats.Performance) {
		sb.WriteString(fmt.Sprintf("| %s | %d | %.2f%% | %.2f%% | %.2f%% | %.2f%% |\n",
			label, p.Trades, p.WinRate, p.NetProfit, p.AvgTrade, p.MaxDrawdown))
	})
	sb.WriteString("\n")
}

func writeBenchmarkSection(sb *strings.Builder, r *Report) {
	cmp := r.Benchmark

	sb.WriteString("## Weekday Benchmark\n\n")
	sb.WriteString("| Series | Events | Trades | Win Rate | Net Profit | Avg Trade |\n")
	sb.WriteString("|--------|--------|--------|----------|------------|-----------|\n")
	writeBenchRow := func(label string, events int, p stats.Performance) {
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.2f%% | %.2f%% | %.2f%% |\n",
			label, events, p.Trades, p.WinRate, p.NetProfit, p.AvgTrade))
	}
	writeBenchRow(cmp.Settlement.Label+" (settlement)", cmp.Settlement.Events, cmp.Settlement.Performance)
	for _, c := range cmp.Controls {
		writeBenchRow(c.Label, c.Events, c.Performance)
	}
	sb.WriteString("\n")

	verdict := "NOT CONFIRMED"
	if cmp.EdgeConfirmed {
		verdict = "CONFIRMED"
	}
	sb.WriteString(fmt.Sprintf("Settlement edge: **%s** (best net profit: %t, win rate above control mean: %t)\n\n",
		verdict, cmp.BestNetProfit, cmp.WinRateAboveControls))
}

func writeMaxPainSection(sb *strings.Builder, r *Report) {
	a := r.MaxPain

	sb.WriteString("## Max Pain Attraction\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Samples | %d |\n", a.Overall.Samples))
	sb.WriteString(fmt.Sprintf("| Attracted | %d (%.1f%%) |\n", a.Overall.Attracted, a.Overall.AttractionRate))
	sb.WriteString(fmt.Sprintf("| p-value (one-sided binomial) | %.4f |\n", a.Overall.PValue))
	sb.WriteString(fmt.Sprintf("| Significant at 5%% | %t |\n", a.Overall.Significant))
	sb.WriteString(fmt.Sprintf("| Avg Distance Open/Close | %.1f / %.1f |\n",
		a.Overall.AvgOpenDistance, a.Overall.AvgCloseDistance))
	sb.WriteString("\n")

	if len(a.ByYear) > 0 {
		years := make([]int, 0, len(a.ByYear))
		for y := range a.ByYear {
			years = append(years, y)
		}
		sort.Ints(years)

		sb.WriteString("| Year | Samples | Attracted | Rate | p-value | Significant |\n")
		sb.WriteString("|------|---------|-----------|------|---------|-------------|\n")
		for _, y := range years {
			s := a.ByYear[y]
			sb.WriteString(fmt.Sprintf("| %d | %d | %d | %.1f%% | %.4f | %t |\n",
				y, s.Samples, s.Attracted, s.AttractionRate, s.PValue, s.Significant))
		}
		sb.WriteString("\n")
	}
}

// fmtRatio renders risk ratios, spelling out the no-downside case.
func fmtRatio(v float64) string {
	if math.IsInf(v, 1) {
		return "inf (no downside in sample)"
	}
	return fmt.Sprintf("%.3f", v)
}
