package backtest

import (
	"math"
	"time"

	"taifex-settlement-lab/internal/domain"
)

// Config parameterizes one backtest run. Variant fields must hold legal
// values (use the domain parse helpers or config.Load); Simulate assumes
// they were validated up front.
type Config struct {
	EventWeekday     time.Weekday
	OpeningPriceCalc domain.OpeningPriceCalc
	PrevCloseCalc    domain.PrevCloseCalc
	PeriodsPerYear   int
}

// Simulate computes the trade record for one event given its resolved
// reference days. It returns ok=false when any required bar is missing,
// in which case the event is left out of the ledger entirely.
func Simulate(event domain.EventDate, openingDay, previousDay time.Time, table *BarTable, cfg Config) (*domain.TradeRecord, bool) {
	openingPrice, ok := openingPrice(openingDay, table, cfg.OpeningPriceCalc)
	if !ok {
		return nil, false
	}
	prevClose, ok := prevClose(previousDay, event.Date, table, cfg.PrevCloseCalc)
	if !ok {
		return nil, false
	}

	// Execution and tag computation always use regular-session bars,
	// whatever the signal variants read.
	eventBar, ok := table.Bar(event.Date, domain.SessionRegular)
	if !ok {
		return nil, false
	}
	prevBar, ok := table.Bar(previousDay, domain.SessionRegular)
	if !ok {
		return nil, false
	}

	trend := prevClose - openingPrice

	direction := domain.DirectionNoTrade
	pnl := 0.0
	switch {
	case trend > 0:
		direction = domain.DirectionLong
		pnl = (eventBar.Close - eventBar.Open) / eventBar.Open * 100
	case trend < 0:
		direction = domain.DirectionShort
		pnl = (eventBar.Open - eventBar.Close) / eventBar.Open * 100
	}

	bodyRatio := 0.0
	if rng := prevBar.High - prevBar.Low; rng > 0 {
		bodyRatio = math.Abs(prevBar.Close-prevBar.Open) / rng
	}

	return &domain.TradeRecord{
		EventDate:   event.Date,
		EventKind:   event.Kind,
		OpeningDay:  openingDay,
		PreviousDay: previousDay,

		OpeningPrice:   openingPrice,
		PrevClose:      prevClose,
		TrendIndicator: trend,
		Direction:      direction,

		EntryPrice: eventBar.Open,
		ExitPrice:  eventBar.Close,
		PnLPercent: pnl,

		PriorCandleBullish: prevBar.Close > prevBar.Open,
		GappedUp:           eventBar.Open > prevBar.Close,
		BodyToRangeRatio:   bodyRatio,
	}, true
}

func openingPrice(openingDay time.Time, table *BarTable, calc domain.OpeningPriceCalc) (float64, bool) {
	session := domain.SessionRegular
	if calc == domain.OpeningNight {
		session = domain.SessionAfterHours
	}
	bar, ok := table.Bar(openingDay, session)
	if !ok {
		return 0, false
	}
	return bar.Open, true
}

func prevClose(previousDay, eventDate time.Time, table *BarTable, calc domain.PrevCloseCalc) (float64, bool) {
	switch calc {
	case domain.PrevCloseNight:
		bar, ok := table.Bar(eventDate, domain.SessionAfterHours)
		if !ok {
			return 0, false
		}
		return bar.Close, true
	case domain.PrevCloseSettlementOpen:
		bar, ok := table.Bar(eventDate, domain.SessionRegular)
		if !ok {
			return 0, false
		}
		return bar.Open, true
	default:
		bar, ok := table.Bar(previousDay, domain.SessionRegular)
		if !ok {
			return 0, false
		}
		return bar.Close, true
	}
}
