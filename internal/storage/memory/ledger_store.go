package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taifex-settlement-lab/internal/domain"
	"taifex-settlement-lab/internal/storage"
)

// LedgerStore is an in-memory implementation of storage.LedgerStore.
type LedgerStore struct {
	mu   sync.RWMutex
	data map[time.Time]*domain.TradeRecord // keyed by event_date
}

// NewLedgerStore creates a new in-memory ledger store.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{data: make(map[time.Time]*domain.TradeRecord)}
}

var _ storage.LedgerStore = (*LedgerStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if event_date exists.
func (s *LedgerStore) Insert(_ context.Context, rec *domain.TradeRecord) error {
	if rec == nil || rec.EventDate.IsZero() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[rec.EventDate]; exists {
		return storage.ErrDuplicateKey
	}
	cp := *rec
	s.data[rec.EventDate] = &cp
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *LedgerStore) InsertBulk(_ context.Context, ledger domain.Ledger) error {
	if len(ledger) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[time.Time]struct{}, len(ledger))
	for _, rec := range ledger {
		if rec == nil || rec.EventDate.IsZero() {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[rec.EventDate]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[rec.EventDate]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[rec.EventDate] = struct{}{}
	}

	for _, rec := range ledger {
		cp := *rec
		s.data[rec.EventDate] = &cp
	}
	return nil
}

// GetByEventDate retrieves the record for an event date. Returns ErrNotFound if not exists.
func (s *LedgerStore) GetByEventDate(_ context.Context, date time.Time) (*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.data[date]
	if !exists {
		return nil, storage.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

// GetByRange retrieves records with event_date in [start, end] inclusive, ordered by event_date ASC.
func (s *LedgerStore) GetByRange(_ context.Context, start, end time.Time) (domain.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result domain.Ledger
	for _, rec := range s.data {
		if rec.EventDate.Before(start) || rec.EventDate.After(end) {
			continue
		}
		cp := *rec
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].EventDate.Before(result[j].EventDate)
	})
	return result, nil
}
