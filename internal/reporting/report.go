package reporting

import (
	"time"

	"taifex-settlement-lab/internal/benchmark"
	"taifex-settlement-lab/internal/maxpain"
	"taifex-settlement-lab/internal/stats"
)

// Report is the full backtest report structure.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time

	// Variant under test
	EventWeekday     string
	OpeningPriceCalc string
	PrevCloseCalc    string

	// Candidate events examined and trades taken
	Events int
	Trades int

	// Aggregates
	Overall stats.Performance
	Risk    stats.Risk

	// Breakdown tables
	Segments []SegmentSection
	Yearly   []YearRow
	Monthly  []MonthRow

	// Optional studies
	Benchmark *benchmark.Comparison
	MaxPain   *maxpain.Analysis
}

// SegmentSection is one dimension's breakdown table.
type SegmentSection struct {
	Title string
	Rows  []SegmentRow
}

// SegmentRow is one bucket within a segment table.
type SegmentRow struct {
	Bucket      string
	Performance stats.Performance
}

// YearRow is one calendar year's aggregate.
type YearRow struct {
	Year        int
	Performance stats.Performance
}

// MonthRow is one calendar month's aggregate, keyed "2024-06".
type MonthRow struct {
	Month       string
	Performance stats.Performance
}
