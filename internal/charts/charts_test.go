package charts

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"taifex-settlement-lab/internal/benchmark"
	"taifex-settlement-lab/internal/domain"
)

func testLedger() domain.Ledger {
	day := func(d int) time.Time {
		return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
	}
	return domain.Ledger{
		{EventDate: day(5), EventKind: domain.EventWeekly, Direction: domain.DirectionLong, PnLPercent: 1.5},
		{EventDate: day(12), EventKind: domain.EventWeekly, Direction: domain.DirectionNoTrade},
		{EventDate: day(19), EventKind: domain.EventMonthly, Direction: domain.DirectionShort, PnLPercent: -0.5},
	}
}

func TestRender_LedgerOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testLedger(), nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "echarts") {
		t.Error("output does not embed echarts")
	}
	if !strings.Contains(html, "Cumulative P\\u0026L") && !strings.Contains(html, "Cumulative P&L") {
		t.Error("cumulative pnl chart title missing")
	}
	if strings.Contains(html, "Weekday Benchmark") {
		t.Error("benchmark chart rendered without a comparison")
	}
}

func TestRender_WithBenchmark(t *testing.T) {
	settlement := benchmark.Evaluate("Wednesday", time.Wednesday, testLedger(), 3, 52)
	control := benchmark.Evaluate("Monday", time.Monday, domain.Ledger{
		{EventDate: time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC), Direction: domain.DirectionLong, PnLPercent: 0.2},
	}, 1, 52)
	cmp := benchmark.Compare(settlement, []benchmark.Result{control})

	var buf bytes.Buffer
	if err := Render(&buf, testLedger(), &cmp); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "Weekday Benchmark") {
		t.Error("benchmark chart missing")
	}
}

func TestRender_NothingToPlot(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, domain.Ledger{}, nil); err == nil {
		t.Fatal("expected error for empty ledger")
	}
}
