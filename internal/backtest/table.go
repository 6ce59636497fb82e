package backtest

import (
	"time"

	"taifex-settlement-lab/internal/domain"
)

type barKey struct {
	date    time.Time
	session domain.Session
}

// BarTable is the normalized market-data table for one run: an immutable
// in-memory index of TradingBar keyed by (date, session). It is produced
// from the ingestion collaborator's output and is read-only thereafter.
type BarTable struct {
	bars map[barKey]*domain.TradingBar
}

// NewBarTable indexes a slice of bars. Later duplicates of the same
// (date, session) key overwrite earlier ones.
func NewBarTable(bars []*domain.TradingBar) *BarTable {
	m := make(map[barKey]*domain.TradingBar, len(bars))
	for _, b := range bars {
		copy := *b
		m[barKey{b.Date, b.Session}] = &copy
	}
	return &BarTable{bars: m}
}

// Bar returns the bar for (date, session), if present.
func (t *BarTable) Bar(date time.Time, session domain.Session) (*domain.TradingBar, bool) {
	b, ok := t.bars[barKey{date, session}]
	return b, ok
}

// RegularDates returns the distinct dates carrying a regular-session bar,
// in no particular order. Feed these to calendar.New.
func (t *BarTable) RegularDates() []time.Time {
	var dates []time.Time
	for k := range t.bars {
		if k.session == domain.SessionRegular {
			dates = append(dates, k.date)
		}
	}
	return dates
}

// Len returns the number of indexed bars across all sessions.
func (t *BarTable) Len() int { return len(t.bars) }
