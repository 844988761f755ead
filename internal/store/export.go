// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bwsample/pkg/types"
)

// ExportEntry is one aggregated pair with its per-source counts.
type ExportEntry struct {
	Winner  types.ItemID `json:"winner" yaml:"winner"`
	Loser   types.ItemID `json:"loser" yaml:"loser"`
	Count   int          `json:"count" yaml:"count"`
	Direct  int          `json:"direct" yaml:"direct"`
	Logical int          `json:"logical" yaml:"logical"`
}

// ExportYAML writes the aggregated pair counts to index/pairs.yaml.
func (s *Store) ExportYAML(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}

	path := filepath.Join(s.dataDir, indexDir, "pairs.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the aggregated pair counts to index/pairs.json.
func (s *Store) ExportJSON(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}

	path := filepath.Join(s.dataDir, indexDir, "pairs.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT winner, loser,
			SUM(count),
			SUM(CASE WHEN source = ? THEN count ELSE 0 END),
			SUM(CASE WHEN source = ? THEN count ELSE 0 END)
		FROM pair_counts
		WHERE category = ?
		GROUP BY winner, loser
		ORDER BY winner, loser`,
		SourceDirect, SourceLogical, aggregateCategory,
	)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	defer rows.Close()

	entries := []ExportEntry{}
	for rows.Next() {
		var e ExportEntry
		var winner, loser string
		if err := rows.Scan(&winner, &loser, &e.Count, &e.Direct, &e.Logical); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Winner, e.Loser = types.ItemID(winner), types.ItemID(loser)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
