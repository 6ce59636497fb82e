package domain

import "time"

// OptionType distinguishes calls from puts in open-interest data.
type OptionType string

// OptionType constants.
const (
	OptionCall OptionType = "call"
	OptionPut  OptionType = "put"
)

// OptionOI is one open-interest row of the options table, keyed by
// (Date, Strike, Type). Consumed by the max-pain analysis only.
type OptionOI struct {
	Date         time.Time
	Strike       float64
	Type         OptionType
	OpenInterest int64
}
