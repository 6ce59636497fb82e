// Package charts renders the backtest results as a standalone HTML
// page with interactive plots.
package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"taifex-settlement-lab/internal/benchmark"
	"taifex-settlement-lab/internal/domain"
)

const (
	chartWidth  = "1200px"
	chartHeight = "480px"
)

// Render writes an HTML page for the ledger. A nil comparison omits
// the benchmark chart.
func Render(w io.Writer, ledger domain.Ledger, cmp *benchmark.Comparison) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)

	added := 0
	if line := cumulativePnL(ledger); line != nil {
		page.AddCharts(line)
		added++
	}
	if cmp != nil {
		page.AddCharts(benchmarkBars(cmp))
		added++
	}

	if added == 0 {
		return fmt.Errorf("no charts to render")
	}
	return page.Render(w)
}

// cumulativePnL plots the running sum of trade returns over event
// dates. No-trade records are skipped, matching the stats aggregation.
func cumulativePnL(ledger domain.Ledger) *charts.Line {
	var (
		xAxis  []string
		points []opts.LineData
	)
	cumulative := 0.0
	for _, rec := range ledger {
		if rec.Direction == domain.DirectionNoTrade {
			continue
		}
		cumulative += rec.PnLPercent
		xAxis = append(xAxis, rec.EventDate.Format(domain.DateLayout))
		points = append(points, opts.LineData{Value: cumulative})
	}
	if len(points) == 0 {
		return nil
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  chartWidth,
			Height: chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Cumulative P&L",
			Subtitle: fmt.Sprintf("%d trades, net %.2f%%", len(points), cumulative),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%", Scale: opts.Bool(true)}),
	)

	line.SetXAxis(xAxis)
	line.AddSeries("cumulative pnl", points,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}),
	)
	return line
}

// benchmarkBars compares the settlement series against the weekday
// controls on net profit and win rate.
func benchmarkBars(cmp *benchmark.Comparison) *charts.Bar {
	labels := []string{cmp.Settlement.Label + " (settlement)"}
	netProfit := []opts.BarData{{Value: cmp.Settlement.Performance.NetProfit}}
	winRate := []opts.BarData{{Value: cmp.Settlement.Performance.WinRate}}
	for _, c := range cmp.Controls {
		labels = append(labels, c.Label)
		netProfit = append(netProfit, opts.BarData{Value: c.Performance.NetProfit})
		winRate = append(winRate, opts.BarData{Value: c.Performance.WinRate})
	}

	verdict := "edge not confirmed"
	if cmp.EdgeConfirmed {
		verdict = "edge confirmed"
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  chartWidth,
			Height: chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Weekday Benchmark",
			Subtitle: verdict,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	bar.SetXAxis(labels)
	bar.AddSeries("net profit %", netProfit)
	bar.AddSeries("win rate %", winRate)
	return bar
}
