package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taifex-settlement-lab/internal/domain"
	"taifex-settlement-lab/internal/storage"
)

type barKey struct {
	date    time.Time
	session domain.Session
}

// BarStore is an in-memory implementation of storage.BarStore.
type BarStore struct {
	mu   sync.RWMutex
	data map[barKey]*domain.TradingBar
}

// NewBarStore creates a new in-memory bar store.
func NewBarStore() *BarStore {
	return &BarStore{data: make(map[barKey]*domain.TradingBar)}
}

var _ storage.BarStore = (*BarStore)(nil)

// InsertBulk adds multiple bars. Fails entire batch on duplicate (date, session).
func (s *BarStore) InsertBulk(_ context.Context, bars []*domain.TradingBar) error {
	if len(bars) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[barKey]struct{}, len(bars))
	for _, b := range bars {
		if b == nil {
			return storage.ErrInvalidInput
		}
		k := barKey{b.Date, b.Session}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, b := range bars {
		cp := *b
		s.data[barKey{b.Date, b.Session}] = &cp
	}
	return nil
}

// GetByRange retrieves bars with date in [start, end] inclusive, ordered
// by date ASC with the regular session first within a date.
func (s *BarStore) GetByRange(_ context.Context, start, end time.Time) ([]*domain.TradingBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradingBar
	for _, b := range s.data {
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		cp := *b
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Session == domain.SessionRegular && result[j].Session != domain.SessionRegular
	})
	return result, nil
}
