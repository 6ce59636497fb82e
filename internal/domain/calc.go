package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidOption is returned when an enumerated configuration value is
// not one of its legal variants. It is fatal at resolution time and is
// never silently substituted with a default.
var ErrInvalidOption = errors.New("invalid configuration option")

// ErrInvalidBar is returned for a TradingBar that violates OHLC invariants.
var ErrInvalidBar = errors.New("invalid trading bar")

// OpeningPriceCalc selects which session's open anchors the trend signal
// on the opening day.
type OpeningPriceCalc string

// OpeningPriceCalc variants.
const (
	OpeningStandard OpeningPriceCalc = "standard" // opening day regular-session open
	OpeningNight    OpeningPriceCalc = "night"    // opening day after-hours open
)

// ParseOpeningPriceCalc validates an opening-price variant name.
func ParseOpeningPriceCalc(s string) (OpeningPriceCalc, error) {
	switch OpeningPriceCalc(s) {
	case OpeningStandard, OpeningNight:
		return OpeningPriceCalc(s), nil
	}
	return "", fmt.Errorf("%w: opening_price_calc %q", ErrInvalidOption, s)
}

// PrevCloseCalc selects which price stands in for the previous close in
// the trend signal.
type PrevCloseCalc string

// PrevCloseCalc variants.
const (
	PrevCloseStandard       PrevCloseCalc = "standard"        // previous day regular close
	PrevCloseNight          PrevCloseCalc = "night"           // event day after-hours close
	PrevCloseSettlementOpen PrevCloseCalc = "settlement_open" // event day regular open
)

// ParsePrevCloseCalc validates a previous-close variant name.
func ParsePrevCloseCalc(s string) (PrevCloseCalc, error) {
	switch PrevCloseCalc(s) {
	case PrevCloseStandard, PrevCloseNight, PrevCloseSettlementOpen:
		return PrevCloseCalc(s), nil
	}
	return "", fmt.Errorf("%w: prev_close_calc %q", ErrInvalidOption, s)
}
