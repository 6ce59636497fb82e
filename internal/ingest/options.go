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

// Open-interest file headers.
const (
	colDate   = "Date"
	colStrike = "Strike_Price"
	colCallOI = "Call_OI"
	colPutOI  = "Put_OI"
)

// OIResult counts what an open-interest parse accepted and dropped.
type OIResult struct {
	Rows    []domain.OptionOI
	Skipped int
}

// ParseOptionOI reads a TXO open-interest CSV. Each input line fans out
// to up to two rows, one per side, with zero open interest suppressed.
// Rows with a bad date or strike are counted and dropped.
func ParseOptionOI(r io.Reader) (*OIResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := headerIndex(header, colDate, colStrike, colCallOI, colPutOI)
	if err != nil {
		return nil, err
	}

	res := &OIResult{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		rows, ok := parseOIRow(row, idx)
		if !ok {
			res.Skipped++
			continue
		}
		res.Rows = append(res.Rows, rows...)
	}
	return res, nil
}

// GroupByDate indexes parsed rows by their snapshot date.
func GroupByDate(rows []domain.OptionOI) map[time.Time][]domain.OptionOI {
	out := make(map[time.Time][]domain.OptionOI)
	for _, row := range rows {
		out[row.Date] = append(out[row.Date], row)
	}
	return out
}

func parseOIRow(row []string, idx map[string]int) ([]domain.OptionOI, bool) {
	date, err := parseDate(cell(row, idx[colDate]))
	if err != nil {
		return nil, false
	}
	strike, err := parsePrice(cell(row, idx[colStrike]))
	if err != nil {
		return nil, false
	}

	callOI, callOK := parseOI(cell(row, idx[colCallOI]))
	putOI, putOK := parseOI(cell(row, idx[colPutOI]))
	if !callOK || !putOK {
		return nil, false
	}

	var out []domain.OptionOI
	if callOI > 0 {
		out = append(out, domain.OptionOI{Date: date, Strike: strike, Type: domain.OptionCall, OpenInterest: callOI})
	}
	if putOI > 0 {
		out = append(out, domain.OptionOI{Date: date, Strike: strike, Type: domain.OptionPut, OpenInterest: putOI})
	}
	return out, true
}

// parseOI treats empty and "-" cells as zero, the way the exchange
// marks sides with no open contracts.
func parseOI(raw string) (int64, bool) {
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" || raw == "-" {
		return 0, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
