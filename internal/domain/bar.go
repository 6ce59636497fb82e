package domain

import (
	"fmt"
	"time"
)

// Session identifies the trading session a bar belongs to.
type Session string

// Session constants.
const (
	SessionRegular    Session = "regular"
	SessionAfterHours Session = "after-hours"
)

// TradingBar is one row of the normalized daily market-data table.
// Uniquely keyed by (Date, Session). Datasets without a session dimension
// carry SessionRegular only.
type TradingBar struct {
	Date    time.Time // calendar date, UTC midnight
	Session Session
	Open    float64
	High    float64
	Low     float64
	Close   float64
	Volume  int64 // may be zero when the source omits it
}

// Validate checks OHLC consistency: Low <= min(Open, Close) and
// max(Open, Close) <= High, with all prices positive.
func (b *TradingBar) Validate() error {
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("%w: non-positive price on %s", ErrInvalidBar, b.Date.Format(DateLayout))
	}
	lo, hi := b.Open, b.Close
	if lo > hi {
		lo, hi = hi, lo
	}
	if b.Low > lo || b.High < hi {
		return fmt.Errorf("%w: OHLC out of order on %s", ErrInvalidBar, b.Date.Format(DateLayout))
	}
	if b.Volume < 0 {
		return fmt.Errorf("%w: negative volume on %s", ErrInvalidBar, b.Date.Format(DateLayout))
	}
	return nil
}

// DateLayout is the canonical date format used across the system.
const DateLayout = "2006-01-02"

// NewDate returns a calendar date at UTC midnight. All dates in the system
// are normalized this way so they compare and hash consistently.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day truncates a timestamp to its UTC calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
}
