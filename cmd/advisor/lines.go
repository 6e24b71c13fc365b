package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/gtfs"
)

type linesOptions struct {
	gtfs   string
	out    string
	routes []string
}

func newLinesCmd(root *rootOptions) *cobra.Command {
	opts := &linesOptions{}
	cmd := &cobra.Command{
		Use:   "lines",
		Short: "Extract line geometry from a GTFS feed as GeoJSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			location := firstNonEmpty(opts.gtfs, cfg.GTFS.StaticURL)
			out := firstNonEmpty(opts.out, cfg.Data.Lines)

			idx, err := newFetcher().loadGTFS(cmd.Context(), location, cfg.GTFS.AgencyID)
			if err != nil {
				return fmt.Errorf("load gtfs: %w", err)
			}
			fc := idx.BuildLines(trimAll(opts.routes))
			if err := gtfs.WriteLines(fc, out); err != nil {
				return err
			}

			log.Info("lines written", "path", out, "features", len(fc.Features))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d line features to %s\n", len(fc.Features), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.gtfs, "gtfs", "", "GTFS zip, directory or URL (default: gtfs.staticURL)")
	cmd.Flags().StringVar(&opts.out, "out", "", "output path (default: data.lines)")
	cmd.Flags().StringSliceVar(&opts.routes, "routes", nil, "comma-separated route_ids to keep")
	return cmd
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
