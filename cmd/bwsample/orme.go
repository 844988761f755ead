// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/bwsample/internal/maxdiff"
	"github.com/pdiddy/bwsample/internal/output"
	"github.com/pdiddy/bwsample/pkg/types"
)

var ormeCmd = &cobra.Command{
	Use:   "orme FILE...",
	Short: "Compute MaxDiff counting scores",
	Long: `Orme reads observation batches and scores each item as (times best
minus times worst) divided by the number of observations.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var batch []types.Observation
		for _, path := range args {
			obs, err := types.ReadBatch(path)
			if err != nil {
				return err
			}
			batch = append(batch, obs...)
		}

		r, err := maxdiff.Score(batch)
		if err != nil {
			return err
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return writeJSON(cmd.OutOrStdout(), r)
		}
		return output.RenderRanking(cmd.OutOrStdout(), r)
	},
}

func init() {
	ormeCmd.Flags().Bool("json", false, "output scores as JSON")
	rootCmd.AddCommand(ormeCmd)
}
