// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bwsample/internal/counting"
	"github.com/pdiddy/bwsample/internal/output"
	"github.com/pdiddy/bwsample/pkg/types"
)

var countCmd = &cobra.Command{
	Use:   "count FILE...",
	Short: "Count pairwise preferences in observation files",
	Long: `Count reads best-worst observation batches (YAML or JSON lists of
{states, ids}) and prints the aggregated pair counts as JSON records.

With --logical the observations are also compared with each other and
logically inferred pairs are added. --detail includes the per-category
breakdown of the direct and logical tallies. --table prints the aggregated
counts as a table instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCount,
}

// countOutput is the JSON document printed by count.
type countOutput struct {
	Pairs   types.PairCounts `json:"pairs"`
	Direct  types.Detail     `json:"direct,omitempty"`
	Logical types.Detail     `json:"logical,omitempty"`
}

func runCount(cmd *cobra.Command, args []string) error {
	logical, _ := cmd.Flags().GetBool("logical")
	skipSelf, _ := cmd.Flags().GetBool("skip-self")
	detail, _ := cmd.Flags().GetBool("detail")
	table, _ := cmd.Flags().GetBool("table")

	var batch []types.Observation
	for _, path := range args {
		obs, err := types.ReadBatch(path)
		if err != nil {
			return err
		}
		batch = append(batch, obs...)
	}
	printer.Info("counting %d observation(s) from %d file(s)", len(batch), len(args))

	res, err := counting.Count(batch, counting.CountOptions{
		Logical:  logical,
		SkipSelf: skipSelf,
		Logger:   logger(cmd),
	})
	if err != nil {
		return err
	}
	if len(res.Warnings) > 0 {
		printer.Warning("%d observation pair(s) skipped during inference", len(res.Warnings))
	}

	if table {
		return output.RenderPairs(printer.Out(), res.Aggregate)
	}

	out := countOutput{Pairs: res.Aggregate}
	if detail {
		out.Direct = res.Direct.Detail
		if res.Logical != nil {
			out.Logical = res.Logical.Detail
		}
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	countCmd.Flags().Bool("logical", false, "add logically inferred pairs")
	countCmd.Flags().Bool("skip-self", false, "do not compare an observation with itself during inference")
	countCmd.Flags().Bool("detail", false, "include the per-category breakdown")
	countCmd.Flags().Bool("table", false, "print the aggregated counts as a table")

	rootCmd.AddCommand(countCmd)
}
