package clickhouse

import (
	"context"
	"fmt"
	"time"

	"taifex-settlement-lab/internal/domain"
	"taifex-settlement-lab/internal/storage"
)

// BarStore implements storage.BarStore using ClickHouse.
type BarStore struct {
	conn *Conn
}

// NewBarStore creates a new BarStore.
func NewBarStore(conn *Conn) *BarStore {
	return &BarStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BarStore = (*BarStore)(nil)

// InsertBulk adds multiple bars. Fails entire batch on duplicate (date, session).
func (s *BarStore) InsertBulk(ctx context.Context, bars []*domain.TradingBar) error {
	if len(bars) == 0 {
		return nil
	}

	type key struct {
		date    time.Time
		session domain.Session
	}
	seen := make(map[key]struct{}, len(bars))
	for _, b := range bars {
		if b == nil {
			return storage.ErrInvalidInput
		}
		k := key{b.Date, b.Session}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, b := range bars {
		exists, err := s.exists(ctx, b.Date, b.Session)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_bars (
			trade_date, session, open, high, low, close, volume
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range bars {
		err = batch.Append(
			b.Date, string(b.Session),
			b.Open, b.High, b.Low, b.Close, b.Volume,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByRange retrieves bars with date in [start, end] inclusive, ordered
// by date ASC with the regular session first within a date.
func (s *BarStore) GetByRange(ctx context.Context, start, end time.Time) ([]*domain.TradingBar, error) {
	query := `
		SELECT trade_date, session, open, high, low, close, volume
		FROM daily_bars
		WHERE trade_date >= ? AND trade_date <= ?
		ORDER BY trade_date ASC, session != 'regular', session ASC
	`

	rows, err := s.conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query bars by range: %w", err)
	}
	defer rows.Close()

	var bars []*domain.TradingBar
	for rows.Next() {
		var (
			b       domain.TradingBar
			session string
		)
		if err := rows.Scan(&b.Date, &session, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Session = domain.Session(session)
		b.Date = domain.NewDate(b.Date.Year(), b.Date.Month(), b.Date.Day())
		bars = append(bars, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bars: %w", err)
	}
	return bars, nil
}

func (s *BarStore) exists(ctx context.Context, date time.Time, session domain.Session) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `
		SELECT count() FROM daily_bars WHERE trade_date = ? AND session = ?
	`, date, string(session)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
