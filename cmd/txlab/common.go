package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"taifex-settlement-lab/internal/backtest"
	"taifex-settlement-lab/internal/calendar"
	"taifex-settlement-lab/internal/config"
	"taifex-settlement-lab/internal/domain"
	"taifex-settlement-lab/internal/ingest"
	chstore "taifex-settlement-lab/internal/storage/clickhouse"
)

// run bundles everything the analysis commands share once the config
// and the bar data are loaded. When ch is non-nil the bars came from
// ClickHouse and open interest is read from the same connection.
type run struct {
	cfg    config.Config
	start  time.Time
	end    time.Time
	bars   []*domain.TradingBar
	table  *backtest.BarTable
	cal    *calendar.Calendar
	events []domain.EventDate
	btCfg  backtest.Config
	ch     *chstore.Conn
}

// setupRun loads the config file, sources the trading bars, and
// resolves the settlement events for the configured range. A non-empty
// clickhouseDSN switches the bar source from the CSV to the bar store;
// callers must Close the run when they are done.
func setupRun(ctx context.Context, logger zerolog.Logger, configPath, clickhouseDSN string) (*run, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	weekday, err := cfg.Weekday()
	if err != nil {
		return nil, err
	}
	start, err := cfg.Start()
	if err != nil {
		return nil, err
	}
	end, err := cfg.End()
	if err != nil {
		return nil, err
	}

	var (
		bars []*domain.TradingBar
		conn *chstore.Conn
	)
	if clickhouseDSN != "" {
		conn, err = chstore.NewConn(ctx, clickhouseDSN)
		if err != nil {
			return nil, err
		}
		bars, err = chstore.NewBarStore(conn).GetByRange(ctx, start, end)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("load bars from clickhouse: %w", err)
		}
		if len(bars) == 0 {
			conn.Close()
			return nil, fmt.Errorf("no trading bars in clickhouse between %s and %s",
				start.Format(domain.DateLayout), end.Format(domain.DateLayout))
		}
	} else {
		bars, err = loadBars(logger, cfg.Paths.BarsCSV, start, end)
		if err != nil {
			return nil, err
		}
		if len(bars) == 0 {
			return nil, fmt.Errorf("no trading bars in %s between %s and %s",
				cfg.Paths.BarsCSV, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
		}
	}

	table := backtest.NewBarTable(bars)
	cal := calendar.New(table.RegularDates())
	events := calendar.LocateEvents(cal, weekday)

	logger.Info().
		Int("bars", table.Len()).
		Int("trading_days", cal.Len()).
		Int("events", len(events)).
		Str("weekday", weekday.String()).
		Bool("clickhouse", conn != nil).
		Msg("run prepared")

	return &run{
		cfg:    cfg,
		start:  start,
		end:    end,
		bars:   bars,
		table:  table,
		cal:    cal,
		events: events,
		btCfg: backtest.Config{
			EventWeekday:     weekday,
			OpeningPriceCalc: domain.OpeningPriceCalc(cfg.OpeningPriceCalc),
			PrevCloseCalc:    domain.PrevCloseCalc(cfg.PrevCloseCalc),
			PeriodsPerYear:   cfg.PeriodsPerYear,
		},
		ch: conn,
	}, nil
}

// Close releases the ClickHouse connection when the run used one.
func (r *run) Close() error {
	if r.ch == nil {
		return nil
	}
	return r.ch.Close()
}

// optionOI returns the TXO open-interest rows grouped by snapshot date,
// from the same source the bars came from.
func (r *run) optionOI(ctx context.Context, logger zerolog.Logger) (map[time.Time][]domain.OptionOI, error) {
	if r.ch == nil {
		return loadOptionOI(logger, r.cfg.Paths.OptionOICSV)
	}

	store := chstore.NewOptionOIStore(r.ch)
	dates, err := store.Dates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open-interest dates: %w", err)
	}
	oi := make(map[time.Time][]domain.OptionOI, len(dates))
	for _, date := range dates {
		rows, err := store.GetByDate(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("load open interest for %s: %w", date.Format(domain.DateLayout), err)
		}
		oi[date] = rows
	}
	return oi, nil
}

func backtestRunner(logger zerolog.Logger, r *run) *backtest.Runner {
	return backtest.NewRunner(r.cal, r.table, r.btCfg, logger)
}

// loadBars parses the TAIFEX futures CSV and keeps bars inside the
// configured date range.
func loadBars(logger zerolog.Logger, path string, start, end time.Time) ([]*domain.TradingBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars csv: %w", err)
	}
	defer f.Close()

	res, err := ingest.ParseBars(f)
	if err != nil {
		return nil, fmt.Errorf("parse bars csv: %w", err)
	}
	if res.Skipped > 0 {
		logger.Warn().Int("skipped", res.Skipped).Str("path", path).Msg("dropped unusable bar rows")
	}

	bars := res.Bars[:0:0]
	for _, b := range res.Bars {
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		bars = append(bars, b)
	}
	return bars, nil
}

// loadOptionOI parses the TXO open-interest CSV grouped by snapshot
// date.
func loadOptionOI(logger zerolog.Logger, path string) (map[time.Time][]domain.OptionOI, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open option oi csv: %w", err)
	}
	defer f.Close()

	res, err := ingest.ParseOptionOI(f)
	if err != nil {
		return nil, fmt.Errorf("parse option oi csv: %w", err)
	}
	if res.Skipped > 0 {
		logger.Warn().Int("skipped", res.Skipped).Str("path", path).Msg("dropped unusable open-interest rows")
	}
	return ingest.GroupByDate(res.Rows), nil
}
