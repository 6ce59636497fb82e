// Package ingest parses TAIFEX exchange CSV exports into domain types.
// The daily futures file carries Chinese column headers and a session
// column splitting regular from after-hours trading.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"taifex-settlement-lab/internal/domain"
)

// ErrMissingColumn reports a header the parser cannot work without.
var ErrMissingColumn = errors.New("ingest: missing column")

// Daily futures file headers as TAIFEX exports them.
const (
	colTradeDate = "交易日期"
	colSession   = "交易時段"
	colOpen      = "開盤價"
	colHigh      = "最高價"
	colLow       = "最低價"
	colClose     = "收盤價"
	colVolume    = "成交量"
)

// Session markers in the exchange files.
const (
	sessionRegularZh    = "一般"
	sessionAfterHoursZh = "盤後"
)

var dateLayouts = []string{"2006/01/02", "2006-01-02"}

// BarResult counts what a bar parse accepted and dropped.
type BarResult struct {
	Bars    []*domain.TradingBar
	Skipped int
}

// ParseBars reads a daily futures CSV. Rows with an unknown session,
// unparsable numbers, or bars failing validation are counted and
// dropped rather than failing the whole file. Missing price cells
// (empty or "-") drop the row too, matching how the exchange marks
// untraded sessions.
func ParseBars(r io.Reader) (*BarResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := headerIndex(header, colTradeDate, colSession, colOpen, colHigh, colLow, colClose, colVolume)
	if err != nil {
		return nil, err
	}

	res := &BarResult{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		bar, ok := parseBarRow(row, idx)
		if !ok {
			res.Skipped++
			continue
		}
		res.Bars = append(res.Bars, bar)
	}
	return res, nil
}

func parseBarRow(row []string, idx map[string]int) (*domain.TradingBar, bool) {
	date, err := parseDate(cell(row, idx[colTradeDate]))
	if err != nil {
		return nil, false
	}

	var session domain.Session
	switch cell(row, idx[colSession]) {
	case sessionRegularZh:
		session = domain.SessionRegular
	case sessionAfterHoursZh:
		session = domain.SessionAfterHours
	default:
		return nil, false
	}

	open, err1 := parsePrice(cell(row, idx[colOpen]))
	high, err2 := parsePrice(cell(row, idx[colHigh]))
	low, err3 := parsePrice(cell(row, idx[colLow]))
	closep, err4 := parsePrice(cell(row, idx[colClose]))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return nil, false
	}

	volume := int64(0)
	if raw := cell(row, idx[colVolume]); raw != "" && raw != "-" {
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil, false
		}
		volume = int64(v)
	}

	bar := &domain.TradingBar{
		Date:    date,
		Session: session,
		Open:    open,
		High:    high,
		Low:     low,
		Close:   closep,
		Volume:  volume,
	}
	if err := bar.Validate(); err != nil {
		return nil, false
	}
	return bar, true
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func parsePrice(raw string) (float64, error) {
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" || raw == "-" {
		return 0, errors.New("empty price cell")
	}
	return strconv.ParseFloat(raw, 64)
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func headerIndex(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(required))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return idx, nil
}
