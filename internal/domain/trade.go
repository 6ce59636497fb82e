package domain

import "time"

// Direction is the simulated trade direction on an event day.
type Direction string

// Direction constants. NoTrade is recorded when the trend indicator is
// exactly zero; such records carry zero P&L and are excluded from trade
// statistics.
const (
	DirectionLong    Direction = "long"
	DirectionShort   Direction = "short"
	DirectionNoTrade Direction = "no_trade"
)

// TradeRecord is one simulated same-day trade keyed to an event date.
// Entry and exit always use the event day's regular-session open and close;
// the configured price-calculation variants affect only the signal inputs
// (OpeningPrice, PrevClose).
type TradeRecord struct {
	EventDate   time.Time
	EventKind   EventKind
	OpeningDay  time.Time
	PreviousDay time.Time

	// Signal
	OpeningPrice   float64 // opening-day price under the active variant
	PrevClose      float64 // previous-close price under the active variant
	TrendIndicator float64 // PrevClose - OpeningPrice
	Direction      Direction

	// Execution
	EntryPrice float64 // event-day regular open
	ExitPrice  float64 // event-day regular close
	PnLPercent float64

	// Derived tags used by the segmentation engine
	PriorCandleBullish bool    // previous day regular close > open
	GappedUp           bool    // event-day open > previous day regular close
	BodyToRangeRatio   float64 // previous day |close-open| / (high-low), 0 when range is 0
}

// Return is the trade outcome as a fraction rather than a percentage.
func (t *TradeRecord) Return() float64 {
	return t.PnLPercent / 100
}

// Ledger is the ordered trade sequence for one backtest run, insertion
// order equal to chronological event-date order. It is owned by a single
// run and never mutated after construction.
type Ledger []*TradeRecord
