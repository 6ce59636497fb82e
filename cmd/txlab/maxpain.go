package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"taifex-settlement-lab/internal/maxpain"
)

func maxPainCmd(logger zerolog.Logger, configPath *string) *cobra.Command {
	var (
		showObservations bool
		clickhouseDSN    string
	)

	cmd := &cobra.Command{
		Use:   "maxpain",
		Short: "Test whether settlement closes gravitate toward the max pain strike",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			r, err := setupRun(ctx, logger, *configPath, clickhouseDSN)
			if err != nil {
				return err
			}
			defer r.Close()
			oi, err := r.optionOI(ctx, logger)
			if err != nil {
				return err
			}

			analysis := maxpain.Analyze(r.events, r.table, oi)
			out := cmd.OutOrStdout()

			if showObservations {
				fmt.Fprintf(out, "%-12s %10s %10s %10s %10s\n", "Event", "MaxPain", "Open", "Close", "Attracted")
				for _, obs := range analysis.Observations {
					fmt.Fprintf(out, "%-12s %10.0f %10.2f %10.2f %10t\n",
						obs.EventDate.Format("2006-01-02"), obs.MaxPain, obs.Open, obs.Close, obs.Attracted)
				}
				fmt.Fprintln(out)
			}

			printSummary(out, "Overall", analysis.Overall)
			years := make([]int, 0, len(analysis.ByYear))
			for y := range analysis.ByYear {
				years = append(years, y)
			}
			sort.Ints(years)
			for _, y := range years {
				printSummary(out, fmt.Sprintf("%d", y), analysis.ByYear[y])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showObservations, "observations", false, "print one line per settlement event")
	cmd.Flags().StringVar(&clickhouseDSN, "clickhouse-dsn", "", "read bars and open interest from ClickHouse instead of the CSVs")
	return cmd
}

func printSummary(out io.Writer, label string, s maxpain.Summary) {
	sig := ""
	if s.Significant {
		sig = " *"
	}
	fmt.Fprintf(out, "%-10s samples=%-4d attracted=%-4d rate=%6.2f%% p=%.4f%s\n",
		label, s.Samples, s.Attracted, s.AttractionRate, s.PValue, sig)
}
