package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Execute wires up the command tree and runs it.
func Execute(ctx context.Context, logger zerolog.Logger) error {
	var configPath string

	root := &cobra.Command{
		Use:           "txlab",
		Short:         "Taiwan index futures settlement-day backtest lab",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (defaults apply when empty)")

	root.AddCommand(backtestCmd(logger, &configPath))
	root.AddCommand(benchmarkCmd(logger, &configPath))
	root.AddCommand(maxPainCmd(logger, &configPath))
	root.AddCommand(ingestCmd(logger, &configPath))

	return root.ExecuteContext(ctx)
}
