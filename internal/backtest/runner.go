package backtest

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"taifex-settlement-lab/internal/calendar"
	"taifex-settlement-lab/internal/domain"
)

// Runner builds the trade ledger for a run. Opening-day anchors depend on
// the sorted event series but individual simulations do not depend on each
// other, so events are simulated on a bounded worker pool and merged back
// into chronological order.
type Runner struct {
	cal      *calendar.Calendar
	table    *BarTable
	resolver *Resolver
	cfg      Config
	log      zerolog.Logger
}

// NewRunner creates a Runner over an immutable bar table and its calendar.
func NewRunner(cal *calendar.Calendar, table *BarTable, cfg Config, log zerolog.Logger) *Runner {
	return &Runner{
		cal:      cal,
		table:    table,
		resolver: NewResolver(cal),
		cfg:      cfg,
		log:      log,
	}
}

// openingDayFunc resolves the opening reference day for one event.
type openingDayFunc func(domain.EventDate) (time.Time, bool)

// BuildLedger simulates every event and returns the ledger in chronological
// event order. Events whose reference days or bars cannot be resolved are
// skipped, never recorded with placeholder values. events must be sorted
// ascending by date.
func (r *Runner) BuildLedger(ctx context.Context, events []domain.EventDate) (domain.Ledger, error) {
	return r.buildLedger(ctx, events, func(e domain.EventDate) (time.Time, bool) {
		return r.resolver.OpeningDay(e, events)
	})
}

// BuildBenchmarkLedger is BuildLedger with the fixed-lookback opening-day
// rule used when no event chain exists (arbitrary-weekday benchmarks).
func (r *Runner) BuildBenchmarkLedger(ctx context.Context, events []domain.EventDate) (domain.Ledger, error) {
	return r.buildLedger(ctx, events, func(e domain.EventDate) (time.Time, bool) {
		return r.resolver.FixedLookbackOpeningDay(e.Date)
	})
}

func (r *Runner) buildLedger(ctx context.Context, events []domain.EventDate, opening openingDayFunc) (domain.Ledger, error) {
	results := make([]*domain.TradeRecord, len(events))

	workers := runtime.NumCPU()
	if workers > len(events) {
		workers = len(events)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	indexes := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = r.simulateEvent(events[i], opening)
			}
		}()
	}

	var err error
feed:
	for i := range events {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	if err != nil {
		return nil, err
	}

	// Compact in input (chronological) order; drawdown and streak metrics
	// downstream are order-sensitive.
	ledger := make(domain.Ledger, 0, len(events))
	skipped := 0
	for _, rec := range results {
		if rec == nil {
			skipped++
			continue
		}
		ledger = append(ledger, rec)
	}

	r.log.Debug().
		Int("events", len(events)).
		Int("trades", len(ledger)).
		Int("skipped", skipped).
		Msg("ledger built")

	return ledger, nil
}

func (r *Runner) simulateEvent(event domain.EventDate, opening openingDayFunc) *domain.TradeRecord {
	openingDay, ok := opening(event)
	if !ok {
		r.log.Debug().Str("event_date", event.Date.Format(domain.DateLayout)).Msg("no opening day, event skipped")
		return nil
	}
	previousDay, ok := r.resolver.PreviousDay(event.Date, openingDay)
	if !ok {
		r.log.Debug().Str("event_date", event.Date.Format(domain.DateLayout)).Msg("no previous day, event skipped")
		return nil
	}
	rec, ok := Simulate(event, openingDay, previousDay, r.table, r.cfg)
	if !ok {
		r.log.Debug().Str("event_date", event.Date.Format(domain.DateLayout)).Msg("missing bar, event skipped")
		return nil
	}
	return rec
}
