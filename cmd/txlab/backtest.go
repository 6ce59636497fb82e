package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"taifex-settlement-lab/internal/benchmark"
	"taifex-settlement-lab/internal/charts"
	"taifex-settlement-lab/internal/domain"
	"taifex-settlement-lab/internal/maxpain"
	"taifex-settlement-lab/internal/reporting"
	"taifex-settlement-lab/internal/storage/migrations"
	pgstore "taifex-settlement-lab/internal/storage/postgres"
)

func backtestCmd(logger zerolog.Logger, configPath *string) *cobra.Command {
	var (
		openingCalc   string
		prevCloseCalc string
		outDir        string
		withBenchmark bool
		withMaxPain   bool
		withCharts    bool
		persist       bool
		postgresDSN   string
		clickhouseDSN string
	)
	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Run the settlement-day backtest and write the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			r, err := setupRun(ctx, logger, *configPath, clickhouseDSN)
			if err != nil {
				return err
			}
			defer r.Close()
			if openingCalc != "" {
				calc, err := domain.ParseOpeningPriceCalc(openingCalc)
				if err != nil {
					return err
				}
				r.btCfg.OpeningPriceCalc = calc
			}
			if prevCloseCalc != "" {
				calc, err := domain.ParsePrevCloseCalc(prevCloseCalc)
				if err != nil {
					return err
				}
				r.btCfg.PrevCloseCalc = calc
			}
			if outDir == "" {
				outDir = r.cfg.Paths.ReportDir
			}

			engine := backtestRunner(logger, r)
			ledger, err := engine.BuildLedger(ctx, r.events)
			if err != nil {
				return err
			}
			logger.Info().Int("events", len(r.events)).Int("records", len(ledger)).Msg("ledger built")

			opts := reporting.Options{
				PeriodStart:      r.start,
				PeriodEnd:        r.end,
				EventWeekday:     r.btCfg.EventWeekday,
				OpeningPriceCalc: r.btCfg.OpeningPriceCalc,
				PrevCloseCalc:    r.btCfg.PrevCloseCalc,
				PeriodsPerYear:   r.btCfg.PeriodsPerYear,
				Events:           len(r.events),
			}

			if withBenchmark {
				settlement := benchmark.Evaluate(
					r.btCfg.EventWeekday.String(), r.btCfg.EventWeekday,
					ledger, len(r.events), r.btCfg.PeriodsPerYear,
				)
				controls, err := benchmark.Run(ctx, engine, r.cal, r.btCfg)
				if err != nil {
					return err
				}
				cmp := benchmark.Compare(settlement, controls)
				opts.Benchmark = &cmp
			}

			if withMaxPain {
				oi, err := r.optionOI(ctx, logger)
				if err != nil {
					return err
				}
				analysis := maxpain.Analyze(r.events, r.table, oi)
				opts.MaxPain = &analysis
			}

			report := reporting.Build(ledger, opts)

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create report dir: %w", err)
			}
			if err := writeFile(filepath.Join(outDir, "report.md"), reporting.RenderMarkdown(report)); err != nil {
				return err
			}
			if err := writeFile(filepath.Join(outDir, "trades.csv"), reporting.RenderCSV(ledger)); err != nil {
				return err
			}
			if withCharts && len(ledger) > 0 {
				f, err := os.Create(filepath.Join(outDir, "charts.html"))
				if err != nil {
					return fmt.Errorf("create charts file: %w", err)
				}
				renderErr := charts.Render(f, ledger, opts.Benchmark)
				if closeErr := f.Close(); renderErr == nil {
					renderErr = closeErr
				}
				if renderErr != nil {
					return fmt.Errorf("render charts: %w", renderErr)
				}
			}
			logger.Info().Str("dir", outDir).Msg("report written")

			if persist {
				if postgresDSN == "" {
					postgresDSN = r.cfg.Postgres
				}
				if postgresDSN == "" {
					return fmt.Errorf("--persist needs a postgres DSN (flag or config)")
				}
				pool, err := pgstore.NewPool(ctx, postgresDSN)
				if err != nil {
					return fmt.Errorf("connect to postgres: %w", err)
				}
				defer pool.Close()

				if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
					return err
				}
				if err := pgstore.NewLedgerStore(pool).InsertBulk(ctx, ledger); err != nil {
					return fmt.Errorf("persist ledger: %w", err)
				}
				logger.Info().Int("records", len(ledger)).Msg("ledger persisted")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&openingCalc, "opening-calc", "", "opening price variant: standard|night")
	cmd.Flags().StringVar(&prevCloseCalc, "prev-close-calc", "", "previous close variant: standard|night|settlement_open")
	cmd.Flags().StringVar(&outDir, "out", "", "report output directory (default from config)")
	cmd.Flags().BoolVar(&withBenchmark, "benchmark", false, "include the weekday control comparison")
	cmd.Flags().BoolVar(&withMaxPain, "max-pain", false, "include the max pain attraction study")
	cmd.Flags().BoolVar(&withCharts, "charts", true, "write the HTML chart page")
	cmd.Flags().BoolVar(&persist, "persist", false, "persist the ledger to PostgreSQL")
	cmd.Flags().StringVar(&postgresDSN, "postgres-dsn", "", "PostgreSQL connection string")
	cmd.Flags().StringVar(&clickhouseDSN, "clickhouse-dsn", "", "read bars and open interest from ClickHouse instead of the CSVs")
	return cmd
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
