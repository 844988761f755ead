// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/bwsample/pkg/types"
)

const defaultMaxResults = 50

// QueryOptions filters stored pair counts.
type QueryOptions struct {
	// Source restricts rows to direct or logical counts. Empty means both.
	Source string

	// Category selects a detail bucket (bw, nn, ...). Empty selects the
	// merged counts of each source. Direct and logical share the names bw,
	// bn and nw, so a category without a Source resolves to direct counts
	// when it names a direct bucket and to logical counts otherwise.
	Category types.Category

	// Item keeps pairs in which the item is winner or loser.
	Item types.ItemID

	// MinCount drops pairs counted fewer times.
	MinCount int

	// MaxResults limits result count. Zero uses the default.
	MaxResults int
}

// PairRow is one stored pair count.
type PairRow struct {
	Source   string         `json:"source" yaml:"source"`
	Category types.Category `json:"category,omitempty" yaml:"category,omitempty"`
	Winner   types.ItemID   `json:"winner" yaml:"winner"`
	Loser    types.ItemID   `json:"loser" yaml:"loser"`
	Count    int            `json:"count" yaml:"count"`
}

// Pairs returns stored counts matching opts, highest count first and then
// by winner and loser.
func (s *Store) Pairs(ctx context.Context, opts QueryOptions) ([]PairRow, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	source := opts.Source
	if source == "" && opts.Category != aggregateCategory {
		source = categorySource(opts.Category)
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT source, category, winner, loser, count FROM pair_counts WHERE category = ?`)
	args = append(args, string(opts.Category))

	if source != "" {
		qb.WriteString(` AND source = ?`)
		args = append(args, source)
	}
	if opts.Item != "" {
		qb.WriteString(` AND (winner = ? OR loser = ?)`)
		args = append(args, string(opts.Item), string(opts.Item))
	}
	if opts.MinCount > 0 {
		qb.WriteString(` AND count >= ?`)
		args = append(args, opts.MinCount)
	}
	qb.WriteString(` ORDER BY count DESC, winner, loser, source LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying pair counts: %w", err)
	}
	defer rows.Close()

	var results []PairRow
	for rows.Next() {
		var r PairRow
		var category, winner, loser string
		if err := rows.Scan(&r.Source, &category, &winner, &loser, &r.Count); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Category = types.Category(category)
		r.Winner = types.ItemID(winner)
		r.Loser = types.ItemID(loser)
		results = append(results, r)
	}
	return results, rows.Err()
}

// categorySource returns the source a detail category belongs to when no
// source was given.
func categorySource(c types.Category) string {
	for _, d := range types.DirectCategories() {
		if c == d {
			return SourceDirect
		}
	}
	return SourceLogical
}
