package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taifex-settlement-lab/internal/domain"
	"taifex-settlement-lab/internal/storage"
)

type oiKey struct {
	date   time.Time
	strike float64
	typ    domain.OptionType
}

// OptionOIStore is an in-memory implementation of storage.OptionOIStore.
type OptionOIStore struct {
	mu   sync.RWMutex
	data map[oiKey]domain.OptionOI
}

// NewOptionOIStore creates a new in-memory open-interest store.
func NewOptionOIStore() *OptionOIStore {
	return &OptionOIStore{data: make(map[oiKey]domain.OptionOI)}
}

var _ storage.OptionOIStore = (*OptionOIStore)(nil)

// InsertBulk adds multiple rows. Fails entire batch on duplicate (date, strike, type).
func (s *OptionOIStore) InsertBulk(_ context.Context, rows []domain.OptionOI) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[oiKey]struct{}, len(rows))
	for _, row := range rows {
		if row.Date.IsZero() || row.OpenInterest < 0 {
			return storage.ErrInvalidInput
		}
		k := oiKey{row.Date, row.Strike, row.Type}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, row := range rows {
		s.data[oiKey{row.Date, row.Strike, row.Type}] = row
	}
	return nil
}

// GetByDate retrieves the full chain for one snapshot date, ordered by strike ASC.
func (s *OptionOIStore) GetByDate(_ context.Context, date time.Time) ([]domain.OptionOI, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.OptionOI
	for _, row := range s.data {
		if row.Date.Equal(date) {
			result = append(result, row)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Strike != result[j].Strike {
			return result[i].Strike < result[j].Strike
		}
		return result[i].Type < result[j].Type
	})
	return result, nil
}

// Dates lists the distinct snapshot dates present, ordered ASC.
func (s *OptionOIStore) Dates(_ context.Context) ([]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, row := range s.data {
		if _, ok := seen[row.Date]; !ok {
			seen[row.Date] = struct{}{}
			dates = append(dates, row.Date)
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}
