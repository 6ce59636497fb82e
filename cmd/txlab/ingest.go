package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	chstore "taifex-settlement-lab/internal/storage/clickhouse"
	"taifex-settlement-lab/internal/storage/migrations"
)

func ingestCmd(logger zerolog.Logger, configPath *string) *cobra.Command {
	var (
		clickhouseDSN string
		dryRun        bool
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load the bar and open-interest CSVs into ClickHouse",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// The ingest command is the writer, so it always reads
			// the CSVs.
			r, err := setupRun(ctx, logger, *configPath, "")
			if err != nil {
				return err
			}
			oi, err := loadOptionOI(logger, r.cfg.Paths.OptionOICSV)
			if err != nil {
				return err
			}
			var oiRows int
			for _, rows := range oi {
				oiRows += len(rows)
			}

			if dryRun {
				logger.Info().
					Int("bars", r.table.Len()).
					Int("oi_rows", oiRows).
					Msg("dry run, nothing loaded")
				return nil
			}

			if clickhouseDSN == "" {
				clickhouseDSN = r.cfg.ClickHouse
			}
			if clickhouseDSN == "" {
				return fmt.Errorf("ingest needs a clickhouse DSN (flag or config)")
			}

			conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := chstore.NewBarStore(conn).InsertBulk(ctx, r.bars); err != nil {
				return fmt.Errorf("load bars: %w", err)
			}
			logger.Info().Int("bars", len(r.bars)).Msg("bars loaded")

			oiStore := chstore.NewOptionOIStore(conn)
			for date, rows := range oi {
				if err := oiStore.InsertBulk(ctx, rows); err != nil {
					return fmt.Errorf("load open interest for %s: %w", date.Format("2006-01-02"), err)
				}
			}
			logger.Info().Int("oi_rows", oiRows).Int("dates", len(oi)).Msg("open interest loaded")
			return nil
		},
	}
	cmd.Flags().StringVar(&clickhouseDSN, "clickhouse-dsn", "", "ClickHouse connection string")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and count only")
	return cmd
}
