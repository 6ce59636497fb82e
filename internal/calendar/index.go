package calendar

import (
	"sort"
	"time"
)

// Calendar is a sorted index over the trading dates of a dataset. Dates not
// present are non-trading days. Predecessor/successor queries are O(log n),
// which keeps reference-day resolution bounded instead of scanning day by
// day through calendar gaps.
type Calendar struct {
	days []time.Time
	set  map[time.Time]struct{}
}

// New builds a Calendar from a set of trading dates. Input order does not
// matter; duplicates are dropped.
func New(dates []time.Time) *Calendar {
	set := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if _, ok := set[d]; ok {
			continue
		}
		set[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return &Calendar{days: days, set: set}
}

// Len returns the number of trading dates.
func (c *Calendar) Len() int { return len(c.days) }

// Days returns the trading dates in ascending order. The returned slice is
// shared; callers must not modify it.
func (c *Calendar) Days() []time.Time { return c.days }

// Contains reports whether d is a trading date.
func (c *Calendar) Contains(d time.Time) bool {
	_, ok := c.set[d]
	return ok
}

// First returns the earliest trading date.
func (c *Calendar) First() (time.Time, bool) {
	if len(c.days) == 0 {
		return time.Time{}, false
	}
	return c.days[0], true
}

// Last returns the latest trading date.
func (c *Calendar) Last() (time.Time, bool) {
	if len(c.days) == 0 {
		return time.Time{}, false
	}
	return c.days[len(c.days)-1], true
}

// OnOrAfter returns the earliest trading date >= d.
func (c *Calendar) OnOrAfter(d time.Time) (time.Time, bool) {
	i := sort.Search(len(c.days), func(i int) bool { return !c.days[i].Before(d) })
	if i == len(c.days) {
		return time.Time{}, false
	}
	return c.days[i], true
}

// OnOrBefore returns the latest trading date <= d.
func (c *Calendar) OnOrBefore(d time.Time) (time.Time, bool) {
	i := sort.Search(len(c.days), func(i int) bool { return c.days[i].After(d) })
	if i == 0 {
		return time.Time{}, false
	}
	return c.days[i-1], true
}
