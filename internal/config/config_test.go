package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	wd, err := cfg.Weekday()
	if err != nil || wd != time.Wednesday {
		t.Errorf("weekday = %v, %v", wd, err)
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
event_weekday: Thursday
prev_close_calc: night
paths:
  bars_csv: /tmp/bars.csv
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	wd, _ := cfg.Weekday()
	if wd != time.Thursday {
		t.Errorf("weekday = %v", wd)
	}
	if cfg.PrevCloseCalc != "night" {
		t.Errorf("prev_close_calc = %s", cfg.PrevCloseCalc)
	}
	if cfg.Paths.BarsCSV != "/tmp/bars.csv" {
		t.Errorf("bars_csv = %s", cfg.Paths.BarsCSV)
	}
	// Untouched fields keep their defaults.
	if cfg.StartDate != "2017-05-16" || cfg.PeriodsPerYear != 52 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_RejectsUnknownVariant(t *testing.T) {
	path := writeConfig(t, "opening_price_calc: lunar\n")
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoad_RejectsUnknownWeekday(t *testing.T) {
	path := writeConfig(t, "event_weekday: Someday\n")
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoad_RejectsInvertedRange(t *testing.T) {
	path := writeConfig(t, "start_date: \"2024-12-31\"\nend_date: \"2017-05-16\"\n")
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file must fail loudly")
	}
}
