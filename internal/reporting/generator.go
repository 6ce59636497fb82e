// Package reporting turns ledgers and their aggregates into typed
// reports and renders them as Markdown or CSV. All rounding happens
// here; upstream packages carry full precision.
package reporting

import (
	"sort"
	"time"

	"taifex-settlement-lab/internal/benchmark"
	"taifex-settlement-lab/internal/domain"
	"taifex-settlement-lab/internal/maxpain"
	"taifex-settlement-lab/internal/stats"
)

// Options carries everything a report needs beyond the ledger itself.
type Options struct {
	PeriodStart time.Time
	PeriodEnd   time.Time

	EventWeekday     time.Weekday
	OpeningPriceCalc domain.OpeningPriceCalc
	PrevCloseCalc    domain.PrevCloseCalc
	PeriodsPerYear   int

	// Candidate events examined to produce the ledger.
	Events int

	// Optional studies, nil to omit their sections.
	Benchmark *benchmark.Comparison
	MaxPain   *maxpain.Analysis
}

// Build assembles the full report for a ledger.
func Build(ledger domain.Ledger, opts Options) *Report {
	overall := stats.ComputePerformance(ledger, opts.Events)

	r := &Report{
		GeneratedAt:      time.Now().UTC(),
		PeriodStart:      opts.PeriodStart,
		PeriodEnd:        opts.PeriodEnd,
		EventWeekday:     opts.EventWeekday.String(),
		OpeningPriceCalc: string(opts.OpeningPriceCalc),
		PrevCloseCalc:    string(opts.PrevCloseCalc),
		Events:           opts.Events,
		Trades:           overall.Trades,
		Overall:          overall,
		Risk:             stats.ComputeRisk(ledger, opts.PeriodsPerYear),
		Benchmark:        opts.Benchmark,
		MaxPain:          opts.MaxPain,
	}

	segments := []struct {
		title string
		dim   stats.Dimension
	}{
		{"Trend Direction", stats.DimensionTrend},
		{"Prior Candle", stats.DimensionPriorCandle},
		{"Opening Gap", stats.DimensionGap},
		{"Event Kind", stats.DimensionEventKind},
	}
	for _, seg := range segments {
		buckets := stats.Segment(ledger, seg.dim)
		if len(buckets) == 0 {
			continue
		}
		r.Segments = append(r.Segments, SegmentSection{
			Title: seg.title,
			Rows:  sortedBuckets(buckets),
		})
	}

	for year, p := range stats.ByYear(ledger) {
		r.Yearly = append(r.Yearly, YearRow{Year: year, Performance: p})
	}
	sort.Slice(r.Yearly, func(i, j int) bool { return r.Yearly[i].Year < r.Yearly[j].Year })

	for month, p := range stats.ByMonth(ledger) {
		r.Monthly = append(r.Monthly, MonthRow{Month: month, Performance: p})
	}
	sort.Slice(r.Monthly, func(i, j int) bool { return r.Monthly[i].Month < r.Monthly[j].Month })

	return r
}

func sortedBuckets(buckets map[string]stats.Performance) []SegmentRow {
	rows := make([]SegmentRow, 0, len(buckets))
	for bucket, p := range buckets {
		rows = append(rows, SegmentRow{Bucket: bucket, Performance: p})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Bucket < rows[j].Bucket })
	return rows
}
