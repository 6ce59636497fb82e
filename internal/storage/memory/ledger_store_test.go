package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"taifex-settlement-lab/internal/domain"
	"taifex-settlement-lab/internal/storage"
)

func rec(date time.Time, pnl float64) *domain.TradeRecord {
	return &domain.TradeRecord{
		EventDate:  date,
		EventKind:  domain.EventWeekly,
		Direction:  domain.DirectionLong,
		PnLPercent: pnl,
	}
}

func TestLedgerStore_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewLedgerStore()
	d := domain.NewDate(2024, time.June, 5)

	if err := s.Insert(ctx, rec(d, 1.5)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.GetByEventDate(ctx, d)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PnLPercent != 1.5 {
		t.Errorf("pnl = %v", got.PnLPercent)
	}

	// Returned record is a copy, mutations must not leak back.
	got.PnLPercent = 99
	again, _ := s.GetByEventDate(ctx, d)
	if again.PnLPercent != 1.5 {
		t.Error("store leaked internal pointer")
	}
}

func TestLedgerStore_DuplicateEventDate(t *testing.T) {
	ctx := context.Background()
	s := NewLedgerStore()
	d := domain.NewDate(2024, time.June, 5)

	if err := s.Insert(ctx, rec(d, 1.0)); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(ctx, rec(d, 2.0)); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("err = %v, want ErrDuplicateKey", err)
	}
}

func TestLedgerStore_InsertBulkAtomic(t *testing.T) {
	ctx := context.Background()
	s := NewLedgerStore()
	d1 := domain.NewDate(2024, time.June, 5)
	d2 := domain.NewDate(2024, time.June, 12)

	if err := s.Insert(ctx, rec(d2, 1.0)); err != nil {
		t.Fatal(err)
	}

	err := s.InsertBulk(ctx, domain.Ledger{rec(d1, 1.0), rec(d2, 2.0)})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("err = %v, want ErrDuplicateKey", err)
	}
	// The whole batch must roll back, d1 stays absent.
	if _, err := s.GetByEventDate(ctx, d1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("d1 must not be stored after failed batch, err = %v", err)
	}
}

func TestLedgerStore_GetByRangeOrdered(t *testing.T) {
	ctx := context.Background()
	s := NewLedgerStore()

	dates := []time.Time{
		domain.NewDate(2024, time.June, 19),
		domain.NewDate(2024, time.June, 5),
		domain.NewDate(2024, time.June, 12),
	}
	for _, d := range dates {
		if err := s.Insert(ctx, rec(d, 1.0)); err != nil {
			t.Fatal(err)
		}
	}

	ledger, err := s.GetByRange(ctx, domain.NewDate(2024, time.June, 1), domain.NewDate(2024, time.June, 13))
	if err != nil {
		t.Fatal(err)
	}
	if len(ledger) != 2 {
		t.Fatalf("ledger = %d records, want 2", len(ledger))
	}
	if !ledger[0].EventDate.Before(ledger[1].EventDate) {
		t.Error("range result not ordered ASC")
	}
}

func TestLedgerStore_InvalidInput(t *testing.T) {
	s := NewLedgerStore()
	if err := s.Insert(context.Background(), &domain.TradeRecord{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
