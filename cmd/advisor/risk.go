package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/risk"
)

type riskOptions struct {
	gtfs     string
	out      string
	seed     uint64
	noJitter bool
}

func newRiskCmd(root *rootOptions) *cobra.Command {
	opts := &riskOptions{}
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Generate the per-trip risk table from a GTFS feed",
		Long: `Scores every trip of the feed by path length and stop count and writes
the result as a JSON array of {trip_id, delay_prob, accident_prob}.

Scores carry bounded random jitter. Pass --seed for reproducible output or
--no-jitter to disable the noise entirely.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			location := firstNonEmpty(opts.gtfs, cfg.GTFS.StaticURL)
			out := firstNonEmpty(opts.out, cfg.Data.RiskTable)
			seed := cfg.Risk.Seed
			if cmd.Flags().Changed("seed") {
				seed = opts.seed
			}
			params := cfg.Risk.Params
			if opts.noJitter {
				params = params.WithoutJitter()
			}

			idx, err := newFetcher().loadGTFS(cmd.Context(), location, cfg.GTFS.AgencyID)
			if err != nil {
				return fmt.Errorf("load gtfs: %w", err)
			}
			features := risk.ExtractFeatures(idx)
			scores := risk.NewEstimator(params, risk.NewRand(seed)).Estimate(features)
			if err := risk.WriteTable(out, scores); err != nil {
				return err
			}

			log.Info("risk table written", "path", out, "agency", idx.GetAgencyID(), "trips", len(scores), "seed", seed)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d risk scores to %s\n", len(scores), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.gtfs, "gtfs", "", "GTFS zip, directory or URL (default: gtfs.staticURL)")
	cmd.Flags().StringVar(&opts.out, "out", "", "output path (default: data.riskTable)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "jitter seed; 0 seeds from the clock (default: risk.seed)")
	cmd.Flags().BoolVar(&opts.noJitter, "no-jitter", false, "disable random jitter")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
