package domain

import "time"

// EventKind classifies a detected event date.
type EventKind string

// EventKind constants. Monthly events coincide with the weekly cadence but
// are tagged specially; FixedDay marks benchmark dates with no sub-type.
const (
	EventWeekly   EventKind = "weekly"
	EventMonthly  EventKind = "monthly"
	EventFixedDay EventKind = "fixed-day"
)

// EventDate is a detected settlement (or benchmark) day. Events are derived
// once per run from the trading calendar and are strictly ordered by Date
// with no duplicates.
type EventDate struct {
	Date time.Time
	Kind EventKind
}
