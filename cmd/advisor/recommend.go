package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newRecommendCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <trip_id>",
		Short: "Print the insurance recommendation for one trip as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			rt, err := loadRuntime(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			rec, err := rt.service.Recommend(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	}
}
