package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := loadRuntime(ctx, cfg, log)
			if err != nil {
				return err
			}
			srv := server.New(cfg.Server, server.Deps{
				Recommender: rt.service,
				Risks:       rt.risks,
				Catalog:     rt.catalog,
				Delays:      rt.delays,
				LinesPath:   cfg.Data.Lines,
				Log:         log,
			})
			return srv.Run(ctx)
		},
	}
}
