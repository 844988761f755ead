// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pdiddy/bwsample/pkg/types"
)

// Table buffers rows and renders them with tablewriter.
type Table struct {
	table  *tablewriter.Table
	header []string
	rows   [][]string
}

// NewTable creates a borderless, left-aligned table writing to w.
func NewTable(w io.Writer, headers []string) *Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)

	return &Table{table: table, header: headers}
}

// AddRow adds a row to the table
func (t *Table) AddRow(row ...string) {
	t.rows = append(t.rows, row)
}

// Render outputs the table
func (t *Table) Render() error {
	t.table.Header(t.header)
	if err := t.table.Bulk(t.rows); err != nil {
		return err
	}
	return t.table.Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// RenderRanking writes r as a table of rank, ID, metric and score.
func RenderRanking(w io.Writer, r types.Ranking) error {
	t := NewTable(w, []string{"rank", "id", "metric", "score"})
	for _, item := range r {
		t.AddRow(strconv.Itoa(item.Position), string(item.ID), formatFloat(item.Metric), formatFloat(item.Score))
	}
	return t.Render()
}

// RenderPairs writes pair counts sorted by winner and loser.
func RenderPairs(w io.Writer, p types.PairCounts) error {
	t := NewTable(w, []string{"winner", "loser", "count"})
	for _, rec := range p.Records() {
		t.AddRow(string(rec.Winner), string(rec.Loser), strconv.Itoa(rec.Count))
	}
	return t.Render()
}
