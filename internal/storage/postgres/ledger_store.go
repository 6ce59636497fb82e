package postgres

import (
	"context"
	"fmt"
	"time"

	"taifex-settlement-lab/internal/domain"
	"taifex-settlement-lab/internal/storage"
)

// LedgerStore implements storage.LedgerStore using PostgreSQL.
type LedgerStore struct {
	pool *Pool
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(pool *Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LedgerStore = (*LedgerStore)(nil)

const insertRecordQuery = `
	INSERT INTO trade_records (
		event_date, event_kind, opening_day, previous_day,
		opening_price, prev_close, trend_indicator,
		direction, entry_price, exit_price, pnl_percent,
		prior_candle_bullish, gapped_up, body_to_range_ratio
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7,
		$8, $9, $10, $11,
		$12, $13, $14
	)
`

const selectRecordColumns = `
	event_date, event_kind, opening_day, previous_day,
	opening_price, prev_close, trend_indicator,
	direction, entry_price, exit_price, pnl_percent,
	prior_candle_bullish, gapped_up, body_to_range_ratio
`

// Insert adds a new record. Returns ErrDuplicateKey if event_date exists.
func (s *LedgerStore) Insert(ctx context.Context, rec *domain.TradeRecord) error {
	if rec == nil || rec.EventDate.IsZero() {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertRecordQuery, recordArgs(rec)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade record: %w", err)
	}
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *LedgerStore) InsertBulk(ctx context.Context, ledger domain.Ledger) error {
	if len(ledger) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, rec := range ledger {
		if rec == nil || rec.EventDate.IsZero() {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, insertRecordQuery, recordArgs(rec)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByEventDate retrieves the record for an event date. Returns ErrNotFound if not exists.
func (s *LedgerStore) GetByEventDate(ctx context.Context, date time.Time) (*domain.TradeRecord, error) {
	query := `SELECT ` + selectRecordColumns + ` FROM trade_records WHERE event_date = $1`

	row := s.pool.QueryRow(ctx, query, date)
	rec, err := scanRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade record: %w", err)
	}
	return rec, nil
}

// GetByRange retrieves records with event_date in [start, end] inclusive, ordered by event_date ASC.
func (s *LedgerStore) GetByRange(ctx context.Context, start, end time.Time) (domain.Ledger, error) {
	query := `
		SELECT ` + selectRecordColumns + `
		FROM trade_records
		WHERE event_date >= $1 AND event_date <= $2
		ORDER BY event_date ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query trade records: %w", err)
	}
	defer rows.Close()

	var ledger domain.Ledger
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade record: %w", err)
		}
		ledger = append(ledger, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade records: %w", err)
	}
	return ledger, nil
}

func recordArgs(rec *domain.TradeRecord) []any {
	return []any{
		rec.EventDate, string(rec.EventKind), rec.OpeningDay, rec.PreviousDay,
		rec.OpeningPrice, rec.PrevClose, rec.TrendIndicator,
		string(rec.Direction), rec.EntryPrice, rec.ExitPrice, rec.PnLPercent,
		rec.PriorCandleBullish, rec.GappedUp, rec.BodyToRangeRatio,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.TradeRecord, error) {
	var rec domain.TradeRecord
	var kind, direction string
	if err := row.Scan(
		&rec.EventDate, &kind, &rec.OpeningDay, &rec.PreviousDay,
		&rec.OpeningPrice, &rec.PrevClose, &rec.TrendIndicator,
		&direction, &rec.EntryPrice, &rec.ExitPrice, &rec.PnLPercent,
		&rec.PriorCandleBullish, &rec.GappedUp, &rec.BodyToRangeRatio,
	); err != nil {
		return nil, err
	}
	rec.EventKind = domain.EventKind(kind)
	rec.Direction = domain.Direction(direction)
	// DATE columns come back at local midnight depending on driver
	// settings; normalize to the UTC-midnight convention.
	rec.EventDate = normalizeDate(rec.EventDate)
	rec.OpeningDay = normalizeDate(rec.OpeningDay)
	rec.PreviousDay = normalizeDate(rec.PreviousDay)
	return &rec, nil
}

func normalizeDate(t time.Time) time.Time {
	return domain.NewDate(t.Year(), t.Month(), t.Day())
}
