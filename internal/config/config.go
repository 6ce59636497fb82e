// Package config loads the backtest configuration from a YAML file and
// validates it before anything downstream runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"taifex-settlement-lab/internal/domain"
)

// ErrInvalidConfig tags any validation failure at load time.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full run configuration. Zero-valued paths fall back to
// the conventional data/output layout.
type Config struct {
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`

	EventWeekday     string `yaml:"event_weekday"`
	OpeningPriceCalc string `yaml:"opening_price_calc"`
	PrevCloseCalc    string `yaml:"prev_close_calc"`
	PeriodsPerYear   int    `yaml:"periods_per_year"`

	Paths Paths `yaml:"paths"`

	Postgres   string `yaml:"postgres_dsn"`
	ClickHouse string `yaml:"clickhouse_dsn"`
}

// Paths collects the file locations a run reads and writes.
type Paths struct {
	BarsCSV     string `yaml:"bars_csv"`
	OptionOICSV string `yaml:"option_oi_csv"`
	ReportDir   string `yaml:"report_dir"`
}

// Default mirrors the conventional standalone setup: Wednesday weekly
// settlement over the 2017-2024 sample with standard price variants.
func Default() Config {
	return Config{
		StartDate:        "2017-05-16",
		EndDate:          "2024-12-31",
		EventWeekday:     "Wednesday",
		OpeningPriceCalc: string(domain.OpeningStandard),
		PrevCloseCalc:    string(domain.PrevCloseStandard),
		PeriodsPerYear:   52,
		Paths: Paths{
			BarsCSV:     "data/filtered_tx_all_years.csv",
			OptionOICSV: "data/txo_open_interest.csv",
			ReportDir:   "output",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// A missing file name returns plain defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects unknown enum values and inverted date ranges rather
// than silently defaulting.
func (c Config) Validate() error {
	if _, err := c.Weekday(); err != nil {
		return err
	}
	if _, err := domain.ParseOpeningPriceCalc(c.OpeningPriceCalc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := domain.ParsePrevCloseCalc(c.PrevCloseCalc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.PeriodsPerYear <= 0 {
		return fmt.Errorf("%w: periods_per_year must be positive, got %d", ErrInvalidConfig, c.PeriodsPerYear)
	}

	start, err := c.Start()
	if err != nil {
		return err
	}
	end, err := c.End()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end_date %s precedes start_date %s", ErrInvalidConfig, c.EndDate, c.StartDate)
	}
	return nil
}

// Weekday parses the configured event weekday by English name.
func (c Config) Weekday() (time.Weekday, error) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(wd.String(), c.EventWeekday) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown event_weekday %q", ErrInvalidConfig, c.EventWeekday)
}

// Start parses the inclusive sample start.
func (c Config) Start() (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateLayout, c.StartDate, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad start_date %q", ErrInvalidConfig, c.StartDate)
	}
	return t, nil
}

// End parses the inclusive sample end.
func (c Config) End() (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateLayout, c.EndDate, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad end_date %q", ErrInvalidConfig, c.EndDate)
	}
	return t, nil
}
