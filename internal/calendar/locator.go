package calendar

import (
	"time"

	"taifex-settlement-lab/internal/domain"
)

// LocateEvents enumerates settlement days: every trading date whose weekday
// matches the target. A date that is the 3rd occurrence of that weekday
// within its calendar month is classified monthly, all others weekly.
// Boundary months where the weekday never trades simply contribute no
// events. The result is strictly ordered by date with no duplicates.
func LocateEvents(cal *Calendar, weekday time.Weekday) []domain.EventDate {
	var events []domain.EventDate
	for _, d := range cal.Days() {
		if d.Weekday() != weekday {
			continue
		}
		kind := domain.EventWeekly
		if nthWeekdayOfMonth(d) == 3 {
			kind = domain.EventMonthly
		}
		events = append(events, domain.EventDate{Date: d, Kind: kind})
	}
	return events
}

// LocateWeekday enumerates benchmark dates: every trading date on the given
// weekday, minus any date in exclude (the settlement series, to avoid
// overlap). All results carry the fixed-day kind with no sub-type.
func LocateWeekday(cal *Calendar, weekday time.Weekday, exclude []domain.EventDate) []domain.EventDate {
	skip := make(map[time.Time]struct{}, len(exclude))
	for _, e := range exclude {
		skip[e.Date] = struct{}{}
	}

	var events []domain.EventDate
	for _, d := range cal.Days() {
		if d.Weekday() != weekday {
			continue
		}
		if _, ok := skip[d]; ok {
			continue
		}
		events = append(events, domain.EventDate{Date: d, Kind: domain.EventFixedDay})
	}
	return events
}

// nthWeekdayOfMonth returns which occurrence of its own weekday the date is
// within its calendar month (1-based). Counts calendar days, not trading
// days, so a holiday on an earlier occurrence does not shift the ordinal.
func nthWeekdayOfMonth(d time.Time) int {
	return (d.Day()-1)/7 + 1
}
