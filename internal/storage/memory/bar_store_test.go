package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"taifex-settlement-lab/internal/domain"
	"taifex-settlement-lab/internal/storage"
)

func bar(date time.Time, session domain.Session) *domain.TradingBar {
	return &domain.TradingBar{
		Date: date, Session: session,
		Open: 100, High: 110, Low: 95, Close: 105, Volume: 10,
	}
}

func TestBarStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewBarStore()
	d1 := domain.NewDate(2024, time.June, 5)
	d2 := domain.NewDate(2024, time.June, 6)

	err := s.InsertBulk(ctx, []*domain.TradingBar{
		bar(d2, domain.SessionRegular),
		bar(d1, domain.SessionAfterHours),
		bar(d1, domain.SessionRegular),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	bars, err := s.GetByRange(ctx, d1, d2)
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 3 {
		t.Fatalf("bars = %d, want 3", len(bars))
	}
	// Date ASC, regular before after-hours within a date.
	if !bars[0].Date.Equal(d1) || bars[0].Session != domain.SessionRegular {
		t.Errorf("first = %v %s", bars[0].Date, bars[0].Session)
	}
	if bars[1].Session != domain.SessionAfterHours {
		t.Errorf("second = %v %s", bars[1].Date, bars[1].Session)
	}
}

func TestBarStore_DuplicateDateSession(t *testing.T) {
	ctx := context.Background()
	s := NewBarStore()
	d := domain.NewDate(2024, time.June, 5)

	if err := s.InsertBulk(ctx, []*domain.TradingBar{bar(d, domain.SessionRegular)}); err != nil {
		t.Fatal(err)
	}
	err := s.InsertBulk(ctx, []*domain.TradingBar{bar(d, domain.SessionRegular)})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("err = %v, want ErrDuplicateKey", err)
	}
	// Same date under a different session is a distinct key.
	if err := s.InsertBulk(ctx, []*domain.TradingBar{bar(d, domain.SessionAfterHours)}); err != nil {
		t.Errorf("after-hours insert failed: %v", err)
	}
}

func TestBarStore_RangeExcludesOutside(t *testing.T) {
	ctx := context.Background()
	s := NewBarStore()

	if err := s.InsertBulk(ctx, []*domain.TradingBar{
		bar(domain.NewDate(2024, time.June, 5), domain.SessionRegular),
		bar(domain.NewDate(2024, time.June, 20), domain.SessionRegular),
	}); err != nil {
		t.Fatal(err)
	}

	bars, err := s.GetByRange(ctx, domain.NewDate(2024, time.June, 1), domain.NewDate(2024, time.June, 10))
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 1 {
		t.Errorf("bars = %d, want 1", len(bars))
	}
}

func TestOptionOIStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewOptionOIStore()
	d1 := domain.NewDate(2024, time.June, 5)
	d2 := domain.NewDate(2024, time.June, 12)

	rows := []domain.OptionOI{
		{Date: d1, Strike: 17100, Type: domain.OptionPut, OpenInterest: 200},
		{Date: d1, Strike: 17000, Type: domain.OptionCall, OpenInterest: 100},
		{Date: d2, Strike: 17000, Type: domain.OptionCall, OpenInterest: 300},
	}
	if err := s.InsertBulk(ctx, rows); err != nil {
		t.Fatalf("insert: %v", err)
	}

	chain, err := s.GetByDate(ctx, d1)
	if err != nil {
		t.Fatal(err)
	}
	if len(chain) != 2 {
		t.Fatalf("chain = %d rows, want 2", len(chain))
	}
	if chain[0].Strike != 17000 {
		t.Errorf("chain not ordered by strike: %+v", chain)
	}

	dates, err := s.Dates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 2 || !dates[0].Equal(d1) || !dates[1].Equal(d2) {
		t.Errorf("dates = %v", dates)
	}
}

func TestOptionOIStore_DuplicateKey(t *testing.T) {
	ctx := context.Background()
	s := NewOptionOIStore()
	row := domain.OptionOI{
		Date: domain.NewDate(2024, time.June, 5), Strike: 17000,
		Type: domain.OptionCall, OpenInterest: 100,
	}

	if err := s.InsertBulk(ctx, []domain.OptionOI{row}); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertBulk(ctx, []domain.OptionOI{row}); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("err = %v, want ErrDuplicateKey", err)
	}
}
