package clickhouse

import (
	"context"
	"fmt"
	"time"

	"taifex-settlement-lab/internal/domain"
	"taifex-settlement-lab/internal/storage"
)

// OptionOIStore implements storage.OptionOIStore using ClickHouse.
type OptionOIStore struct {
	conn *Conn
}

// NewOptionOIStore creates a new OptionOIStore.
func NewOptionOIStore(conn *Conn) *OptionOIStore {
	return &OptionOIStore{conn: conn}
}

// Compile-time interface check.
var _ storage.OptionOIStore = (*OptionOIStore)(nil)

// InsertBulk adds multiple rows. Fails entire batch on duplicate (date, strike, type).
func (s *OptionOIStore) InsertBulk(ctx context.Context, rows []domain.OptionOI) error {
	if len(rows) == 0 {
		return nil
	}

	type key struct {
		date   time.Time
		strike float64
		typ    domain.OptionType
	}
	seen := make(map[key]struct{}, len(rows))
	for _, row := range rows {
		if row.Date.IsZero() || row.OpenInterest < 0 {
			return storage.ErrInvalidInput
		}
		k := key{row.Date, row.Strike, row.Type}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	dates := make(map[time.Time]struct{})
	for _, row := range rows {
		dates[row.Date] = struct{}{}
	}
	for d := range dates {
		exists, err := s.dateExists(ctx, d)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO option_open_interest (
			snapshot_date, strike, option_type, open_interest
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, row := range rows {
		if err := batch.Append(row.Date, row.Strike, string(row.Type), row.OpenInterest); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByDate retrieves the full chain for one snapshot date, ordered by strike ASC.
func (s *OptionOIStore) GetByDate(ctx context.Context, date time.Time) ([]domain.OptionOI, error) {
	query := `
		SELECT snapshot_date, strike, option_type, open_interest
		FROM option_open_interest
		WHERE snapshot_date = ?
		ORDER BY strike ASC, option_type ASC
	`

	rows, err := s.conn.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("query chain by date: %w", err)
	}
	defer rows.Close()

	var chain []domain.OptionOI
	for rows.Next() {
		var (
			row domain.OptionOI
			typ string
		)
		if err := rows.Scan(&row.Date, &row.Strike, &typ, &row.OpenInterest); err != nil {
			return nil, fmt.Errorf("scan oi row: %w", err)
		}
		row.Type = domain.OptionType(typ)
		row.Date = domain.NewDate(row.Date.Year(), row.Date.Month(), row.Date.Day())
		chain = append(chain, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate oi rows: %w", err)
	}
	return chain, nil
}

// Dates lists the distinct snapshot dates present, ordered ASC.
func (s *OptionOIStore) Dates(ctx context.Context) ([]time.Time, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT DISTINCT snapshot_date FROM option_open_interest ORDER BY snapshot_date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshot dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan snapshot date: %w", err)
		}
		dates = append(dates, domain.NewDate(d.Year(), d.Month(), d.Day()))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot dates: %w", err)
	}
	return dates, nil
}

func (s *OptionOIStore) dateExists(ctx context.Context, date time.Time) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `
		SELECT count() FROM option_open_interest WHERE snapshot_date = ?
	`, date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
