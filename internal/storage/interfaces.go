package storage

import (
	"context"
	"time"

	"taifex-settlement-lab/internal/domain"
)

// BarStore provides access to daily_bars storage.
type BarStore interface {
	// InsertBulk adds multiple bars. Fails entire batch on duplicate (date, session).
	InsertBulk(ctx context.Context, bars []*domain.TradingBar) error

	// GetByRange retrieves bars with date in [start, end] (inclusive),
	// ordered by date ASC with the regular session first within a date.
	GetByRange(ctx context.Context, start, end time.Time) ([]*domain.TradingBar, error)
}

// LedgerStore provides access to trade_records storage.
type LedgerStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if event_date exists.
	Insert(ctx context.Context, rec *domain.TradeRecord) error

	// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, ledger domain.Ledger) error

	// GetByEventDate retrieves the record for an event date. Returns ErrNotFound if not exists.
	GetByEventDate(ctx context.Context, date time.Time) (*domain.TradeRecord, error)

	// GetByRange retrieves records with event_date in [start, end] (inclusive), ordered by event_date ASC.
	GetByRange(ctx context.Context, start, end time.Time) (domain.Ledger, error)
}

// OptionOIStore provides access to option_open_interest storage.
type OptionOIStore interface {
	// InsertBulk adds multiple rows. Fails entire batch on duplicate (date, strike, type).
	InsertBulk(ctx context.Context, rows []domain.OptionOI) error

	// GetByDate retrieves the full chain for one snapshot date, ordered by strike ASC.
	GetByDate(ctx context.Context, date time.Time) ([]domain.OptionOI, error)

	// Dates lists the distinct snapshot dates present, ordered ASC.
	Dates(ctx context.Context) ([]time.Time, error)
}
