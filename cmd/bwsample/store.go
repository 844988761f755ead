// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bwsample/internal/output"
	"github.com/pdiddy/bwsample/internal/store"
	"github.com/pdiddy/bwsample/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the observation store (ingest, rank, export, pairs)",
	Long: `Store keeps observations and their pair tallies in a local SQLite
database under the data directory. Batches dropped into data/surveys/
are counted incrementally on ingest.`,
}

// --- ingest subcommand ---

var storeIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest observation batches from the surveys directory",
	Long: `Ingest reads YAML and JSON batches from <data-dir>/surveys/, counts
new observations against the stored ones, and writes index/pairs.yaml.
Unchanged files are skipped on subsequent runs; changed files are
recounted.`,
	RunE: runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Ingest(context.Background(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed ingest", summary.Failed)
	}
	printer.Success("%d file(s) processed", summary.Total())
	return nil
}

// --- rank subcommand ---

var storeRankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank items from the stored pair counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		counts, err := s.Aggregate(context.Background())
		if err != nil {
			return err
		}
		return rankAndPrint(cmd, counts)
	},
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored pair counts to YAML or JSON",
	Long: `Export writes the merged pair counts with their direct and logical
parts to <data-dir>/index/pairs.yaml or pairs.json.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	switch format {
	case "yaml", "":
		if err := s.ExportYAML(context.Background()); err != nil {
			return err
		}
		printer.Success("Exported to index/pairs.yaml")
	case "json":
		if err := s.ExportJSON(context.Background()); err != nil {
			return err
		}
		printer.Success("Exported to index/pairs.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

// --- pairs subcommand ---

var storePairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Query stored pair counts",
	Long: `Pairs lists stored pair counts, highest first. Filter by source
(direct or logical), category (bw, bn, nw, nn, ...), item, or minimum count.`,
	RunE: runStorePairs,
}

func runStorePairs(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	category, _ := cmd.Flags().GetString("category")
	item, _ := cmd.Flags().GetString("item")
	minCount, _ := cmd.Flags().GetInt("min-count")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	rows, err := s.Pairs(context.Background(), store.QueryOptions{
		Source:     source,
		Category:   types.Category(category),
		Item:       types.ItemID(item),
		MinCount:   minCount,
		MaxResults: limit,
	})
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(cmd.OutOrStdout(), rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No pairs found.")
		return nil
	}
	t := output.NewTable(cmd.OutOrStdout(), []string{"source", "category", "winner", "loser", "count"})
	for _, r := range rows {
		t.AddRow(r.Source, string(r.Category), string(r.Winner), string(r.Loser), strconv.Itoa(r.Count))
	}
	return t.Render()
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if !cmd.Flags().Changed("data-dir") && viper.IsSet("store.data_dir") {
		dataDir = viper.GetString("store.data_dir")
	}
	logical, _ := cmd.Flags().GetBool("logical")
	if !cmd.Flags().Changed("logical") && viper.IsSet("store.count.logical") {
		logical = viper.GetBool("store.count.logical")
	}

	skipSelf, _ := cmd.Flags().GetBool("skip-self")

	cfg := types.StoreConfig{
		DataDir: dataDir,
		Count:   types.CountConfig{Logical: logical, SkipSelf: skipSelf},
	}
	return store.NewStore(cfg, logger(cmd))
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("data-dir", "data", "base directory for the store (contains surveys/, index/)")
	storeCmd.PersistentFlags().Bool("logical", true, "infer logical pairs between stored observations")
	storeCmd.PersistentFlags().Bool("skip-self", false, "do not compare an observation with itself during inference")

	addRankFlags(storeRankCmd)

	storeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	storePairsCmd.Flags().String("source", "", "filter by source: direct or logical")
	storePairsCmd.Flags().String("category", "", "filter by detail category (empty = merged counts)")
	storePairsCmd.Flags().String("item", "", "keep pairs involving this item")
	storePairsCmd.Flags().Int("min-count", 0, "drop pairs counted fewer times")
	storePairsCmd.Flags().Int("limit", 0, "maximum rows (0 = default 50)")
	storePairsCmd.Flags().Bool("json", false, "output rows as JSON")

	// Wire subcommands.
	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeRankCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storePairsCmd)

	rootCmd.AddCommand(storeCmd)
}
