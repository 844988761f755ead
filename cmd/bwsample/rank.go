// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bwsample/internal/calibrate"
	"github.com/pdiddy/bwsample/internal/output"
	"github.com/pdiddy/bwsample/internal/ranking"
	"github.com/pdiddy/bwsample/pkg/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank FILE",
	Short: "Rank items from a pair count file",
	Long: `Rank reads pair counts (a YAML or JSON list of {winner, loser, count}
records, as printed by count) and ranks the items.

Methods: ratio, pvalue, hoaglin, btl, eigen, trans.
Calibrations: minmax, quantile, sig3iqr, platt, isotonic.

Defaults come from the rank.method, rank.avg and rank.calibration config
keys (env BWSAMPLE_RANK_METHOD and so on) when the flags are not given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRank,
}

func runRank(cmd *cobra.Command, args []string) error {
	counts, err := types.ReadPairCounts(args[0])
	if err != nil {
		return err
	}
	printer.Info("ranking %d pair count(s) from %s", len(counts), args[0])
	return rankAndPrint(cmd, counts)
}

// rankOptions builds ranking options from flags, falling back to config
// for the method, avg and calibration names.
func rankOptions(cmd *cobra.Command) ranking.Options {
	str := func(flag, key string) string {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetString(flag)
			return v
		}
		return viper.GetString(key)
	}
	maxIter, _ := cmd.Flags().GetInt("max-iter")
	tol, _ := cmd.Flags().GetFloat64("tol")
	rounds, _ := cmd.Flags().GetInt("rounds")
	noPrefit, _ := cmd.Flags().GetBool("no-prefit")

	return ranking.Options{
		Method:      ranking.Method(str("method", "rank.method")),
		Avg:         ranking.Avg(str("avg", "rank.avg")),
		Calibration: calibrate.Method(str("calibration", "rank.calibration")),
		MaxIter:     maxIter,
		Tol:         tol,
		NoPrefit:    noPrefit,
		Rounds:      rounds,
	}
}

// rankOutput is the JSON document printed by rank --json.
type rankOutput struct {
	Ranking types.Ranking `json:"ranking"`
	Info    ranking.Info  `json:"info"`
}

func rankAndPrint(cmd *cobra.Command, counts types.PairCounts) error {
	res, err := ranking.Rank(counts, rankOptions(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), rankOutput{Ranking: res.Ranking(), Info: res.Info})
	}
	return printRanking(cmd.OutOrStdout(), res)
}

func printRanking(w io.Writer, res ranking.Result) error {
	if len(res.IDs) == 0 {
		fmt.Fprintln(w, "No items to rank.")
		return nil
	}
	printer.Header(describe(res.Info))
	if err := output.RenderRanking(w, res.Ranking()); err != nil {
		return err
	}
	for _, n := range res.Info.Notes {
		printer.Warning("%s", n)
	}
	return nil
}

func describe(info ranking.Info) string {
	s := fmt.Sprintf("%s, %s calibration", info.Method, info.Calibration)
	if info.Avg != "" {
		s += fmt.Sprintf(", avg %s", info.Avg)
	}
	if info.Iterations > 0 {
		s += fmt.Sprintf(", %d iterations", info.Iterations)
	}
	return s
}

// addRankFlags registers the ranking flags on cmd.
func addRankFlags(cmd *cobra.Command) {
	cmd.Flags().String("method", "pvalue", "ranking method: ratio, pvalue, hoaglin, btl, eigen, trans")
	cmd.Flags().String("avg", "exist", "row averaging for ratio, pvalue and hoaglin: all or exist")
	cmd.Flags().String("calibration", "minmax", "score calibration: minmax, quantile, sig3iqr, platt, isotonic")
	cmd.Flags().Int("max-iter", 0, "btl iteration cap (0 = default 1000)")
	cmd.Flags().Float64("tol", 0, "btl convergence tolerance (0 = default 1e-8)")
	cmd.Flags().Int("rounds", 0, "trans simulation steps (0 = default 3)")
	cmd.Flags().Bool("no-prefit", false, "start btl from uniform strengths")
	cmd.Flags().Bool("json", false, "output the ranking as JSON")
}

func init() {
	addRankFlags(rankCmd)
	rootCmd.AddCommand(rankCmd)
}
