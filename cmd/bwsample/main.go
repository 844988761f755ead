// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bwsample CLI. It wraps pair
// counting, ranking, MaxDiff scoring and the SQLite observation store.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bwsample/internal/output"
)

// version is set at build time via ldflags.
var version = "dev"

// printer is configured from the --color and --quiet flags before each command runs.
var printer = output.NewPrinter(output.PrinterOptions{})

// rootCmd is the base command for the bwsample CLI.
var rootCmd = &cobra.Command{
	Use:   "bwsample",
	Short: "Best-worst scaling pair counting and ranking",
	Long: `bwsample turns best-worst scaling observations into pairwise preference
counts and ranks items from those counts.

count extracts direct and logically inferred pairs from observation files,
rank estimates scores from pair counts, orme computes MaxDiff counting
scores, and store keeps an incremental SQLite database of observations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		colorFlag, _ := cmd.Flags().GetString("color")
		mode, err := output.ParseColorMode(colorFlag)
		if err != nil {
			return err
		}
		quiet, _ := cmd.Flags().GetBool("quiet")
		printer = output.NewPrinter(output.PrinterOptions{ColorMode: mode, Quiet: quiet, Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()})
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bwsample.yaml or ~/.config/bwsample/bwsample.yaml)")
	rootCmd.PersistentFlags().String("color", "auto", "color output: auto, always, or never")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress status messages")
	rootCmd.PersistentFlags().Bool("verbose", false, "log warnings from counting and ingest to stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bwsample")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bwsample"))
		}
	}

	viper.SetDefault("rank.method", "pvalue")
	viper.SetDefault("rank.avg", "exist")
	viper.SetDefault("rank.calibration", "minmax")

	viper.SetEnvPrefix("BWSAMPLE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// logger returns a stderr logger when --verbose is set, nil otherwise.
func logger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printer.Error("%v", err)
		os.Exit(1)
	}
}
