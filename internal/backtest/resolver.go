package backtest

import (
	"sort"
	"time"

	"taifex-settlement-lab/internal/calendar"
	"taifex-settlement-lab/internal/domain"
)

// Resolver maps an event date to its two reference days against a trading
// calendar. All lookups are predecessor/successor queries on the sorted
// calendar index, so resolution cost is bounded regardless of gap length.
type Resolver struct {
	cal *calendar.Calendar
}

// NewResolver creates a Resolver over the given calendar.
func NewResolver(cal *calendar.Calendar) *Resolver {
	return &Resolver{cal: cal}
}

// firstEventLookbackDays anchors the very first event of a series, which
// has no prior event to chain to.
const firstEventLookbackDays = 7

// OpeningDay resolves the opening reference day for an event: the first
// trading day after the latest event strictly before it, or a 7-day
// lookback for the first event in the series. The candidate snaps forward
// to the next trading date; resolution fails if that date falls after the
// event itself. events must be sorted ascending by date.
func (r *Resolver) OpeningDay(event domain.EventDate, events []domain.EventDate) (time.Time, bool) {
	candidate := event.Date.AddDate(0, 0, -firstEventLookbackDays)

	// Latest event strictly before this one.
	i := sort.Search(len(events), func(i int) bool {
		return !events[i].Date.Before(event.Date)
	})
	if i > 0 {
		candidate = events[i-1].Date.AddDate(0, 0, 1)
	}

	day, ok := r.cal.OnOrAfter(candidate)
	if !ok || day.After(event.Date) {
		return time.Time{}, false
	}
	return day, true
}

// FixedLookbackOpeningDay resolves an opening day for the benchmark
// variant, which has no event chain to anchor to: a fixed 7-day lookback
// snapped forward to the next trading date, failing when that snap lands
// after the target. A shorter retry cannot succeed where this fails (the
// 7-day search window contains every shorter one), so none is attempted.
func (r *Resolver) FixedLookbackOpeningDay(target time.Time) (time.Time, bool) {
	day, ok := r.cal.OnOrAfter(target.AddDate(0, 0, -firstEventLookbackDays))
	if !ok || day.After(target) {
		return time.Time{}, false
	}
	return day, true
}

// PreviousDay resolves the last trading day strictly before the event
// date, failing when the nearest such day precedes the opening day.
func (r *Resolver) PreviousDay(eventDate, openingDay time.Time) (time.Time, bool) {
	day, ok := r.cal.OnOrBefore(eventDate.AddDate(0, 0, -1))
	if !ok || day.Before(openingDay) {
		return time.Time{}, false
	}
	return day, true
}
