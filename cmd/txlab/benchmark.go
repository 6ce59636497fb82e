package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"taifex-settlement-lab/internal/benchmark"
)

func benchmarkCmd(logger zerolog.Logger, configPath *string) *cobra.Command {
	var clickhouseDSN string

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Compare settlement-day performance against other weekdays",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			r, err := setupRun(ctx, logger, *configPath, clickhouseDSN)
			if err != nil {
				return err
			}
			defer r.Close()
			engine := backtestRunner(logger, r)

			ledger, err := engine.BuildLedger(ctx, r.events)
			if err != nil {
				return err
			}
			settlement := benchmark.Evaluate(
				r.btCfg.EventWeekday.String(), r.btCfg.EventWeekday,
				ledger, len(r.events), r.btCfg.PeriodsPerYear,
			)
			controls, err := benchmark.Run(ctx, engine, r.cal, r.btCfg)
			if err != nil {
				return err
			}
			cmp := benchmark.Compare(settlement, controls)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-22s %8s %8s %10s %10s\n", "Series", "Events", "Trades", "Net %", "Win %")
			printResult(out, cmp.Settlement, true)
			for _, c := range cmp.Controls {
				printResult(out, c, false)
			}
			verdict := "NOT CONFIRMED"
			if cmp.EdgeConfirmed {
				verdict = "CONFIRMED"
			}
			fmt.Fprintf(out, "\nSettlement edge: %s\n", verdict)
			return nil
		},
	}
	cmd.Flags().StringVar(&clickhouseDSN, "clickhouse-dsn", "", "read bars from ClickHouse instead of the CSV")
	return cmd
}

func printResult(out io.Writer, res benchmark.Result, settlement bool) {
	label := res.Label
	if settlement {
		label += " (settlement)"
	}
	fmt.Fprintf(out, "%-22s %8d %8d %10.2f %10.2f\n",
		label, res.Events, res.Performance.Trades,
		res.Performance.NetProfit, res.Performance.WinRate)
}
