package reporting

import (
	"fmt"
	"strings"

	"taifex-settlement-lab/internal/domain"
)

// RenderCSV renders a ledger as a per-trade CSV string.
func RenderCSV(ledger domain.Ledger) string {
	var sb strings.Builder

	sb.WriteString("event_date,event_kind,opening_day,previous_day,")
	sb.WriteString("opening_price,prev_close,trend_indicator,direction,")
	sb.WriteString("entry_price,exit_price,pnl_percent,")
	sb.WriteString("prior_candle_bullish,gapped_up,body_to_range_ratio\n")

	for _, rec := range ledger {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%.2f,%.2f,%.2f,%s,%.2f,%.2f,%.6f,%t,%t,%.4f\n",
			rec.EventDate.Format(domain.DateLayout),
			rec.EventKind,
			rec.OpeningDay.Format(domain.DateLayout),
			rec.PreviousDay.Format(domain.DateLayout),
			rec.OpeningPrice,
			rec.PrevClose,
			rec.TrendIndicator,
			rec.Direction,
			rec.EntryPrice,
			rec.ExitPrice,
			rec.PnLPercent,
			rec.PriorCandleBullish,
			rec.GappedUp,
			rec.BodyToRangeRatio,
		))
	}

	return sb.String()
}
