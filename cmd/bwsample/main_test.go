package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bwsample/internal/ranking"
	"github.com/pdiddy/bwsample/pkg/types"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), errOut.String())
	return out.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCountThenRank(t *testing.T) {
	obs := writeFile(t, "batch.yaml", "- states: [1, 0, 2]\n  ids: [A, B, C]\n")

	raw := execute(t, "count", "--color", "never", "--detail", obs)
	var counted countOutput
	require.NoError(t, json.Unmarshal([]byte(raw), &counted))
	assert.Equal(t, 1, counted.Pairs.Get("A", "B"))
	assert.Equal(t, 1, counted.Pairs.Get("A", "C"))
	assert.Equal(t, 1, counted.Pairs.Get("B", "C"))
	assert.Equal(t, 3, counted.Pairs.Total())

	// count's output is fed to rank unchanged.
	pairs := writeFile(t, "pairs.json", raw)

	var ranked rankOutput
	require.NoError(t, json.Unmarshal([]byte(execute(t, "rank", "--method", "ratio", "--json", pairs)), &ranked))
	require.Len(t, ranked.Ranking, 3)
	assert.Equal(t, types.ItemID("A"), ranked.Ranking[0].ID)
	assert.Equal(t, types.ItemID("C"), ranked.Ranking[2].ID)
	assert.Equal(t, ranking.Ratio, ranked.Info.Method)
}

func TestCountTable(t *testing.T) {
	obs := writeFile(t, "batch.json", `[{"states": [1, 0, 2], "ids": ["A", "B", "C"]}]`)

	out := execute(t, "count", "--color", "never", "--table", obs)
	assert.Contains(t, out, "WINNER")
	assert.Contains(t, out, "LOSER")
	assert.Less(t, strings.Index(out, "A "), strings.Index(out, "B "))
}

func TestRankOptionsConfigFallback(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("rank.method", "btl")
	viper.Set("rank.calibration", "quantile")

	cmd := &cobra.Command{}
	addRankFlags(cmd)

	opts := rankOptions(cmd)
	assert.Equal(t, ranking.BTL, opts.Method)
	assert.Equal(t, "quantile", string(opts.Calibration))

	require.NoError(t, cmd.Flags().Set("method", "eigen"))
	assert.Equal(t, ranking.Eigen, rankOptions(cmd).Method)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "pvalue, minmax calibration, avg exist",
		describe(ranking.Info{Method: ranking.PValue, Avg: ranking.AvgExist, Calibration: "minmax"}))
	assert.Equal(t, "btl, platt calibration, 12 iterations",
		describe(ranking.Info{Method: ranking.BTL, Calibration: "platt", Iterations: 12}))
}
