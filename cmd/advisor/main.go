// Command advisor builds risk tables from GTFS feeds and serves insurance
// recommendations per trip.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/config"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/internal/logging"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "advisor",
		Short:         "Risk-aware insurance recommendations for transit trips",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config.yml (default: $ADVISOR_CONFIG or ./config.yml)")

	cmd.AddCommand(
		newRiskCmd(opts),
		newLinesCmd(opts),
		newRecommendCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// load reads configuration and builds the logger for a subcommand.
// Logs go to stderr so stdout carries only command output.
func (o *rootOptions) load(cmd *cobra.Command) (config.AppConfig, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.AppConfig{}, nil, err
	}
	return cfg, logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
