// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/bwsample/internal/counting"
	"github.com/pdiddy/bwsample/pkg/types"
)

// IngestSummary holds counts from an ingest run.
type IngestSummary struct {
	Ingested int
	Updated  int
	Skipped  int
	Failed   int
}

// Total returns the number of survey files processed.
func (s IngestSummary) Total() int {
	return s.Ingested + s.Updated + s.Skipped + s.Failed
}

// Ingest reads observation batches from dataDir/surveys/ and counts them
// into the stored tallies. Files whose modification time is unchanged are
// skipped. A new file is counted against the stored observations, so the
// tallies always equal a one-shot count over every ingested observation.
// A changed file replaces its old observations and the tallies are
// recounted. On success it writes pairs.yaml.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	dir := filepath.Join(s.dataDir, surveysDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading survey directory %s: %w", dir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !types.IsDataFile(entry.Name()) {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := entry.Name()
		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT mod_time FROM ingest_status WHERE file = ?`, name,
		).Scan(&storedModTime)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return summary, fmt.Errorf("reading ingest status: %w", err)
		}
		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		batch, err := types.ReadBatch(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			err = s.replaceBatch(ctx, name, batch, modTime)
		} else {
			err = s.appendBatch(ctx, name, batch, modTime)
		}
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d observations)\n", name, len(batch))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "ingested %s (%d observations)\n", name, len(batch))
			summary.Ingested++
		}
	}

	fmt.Fprintf(w, "\ningested: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Ingested, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Ingested > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx); err != nil {
			fmt.Fprintf(w, "warning: pairs.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

// appendBatch counts batch on top of the stored tallies. Against the prior
// observations P the new batch B contributes B×B, B×P and P×B, which with
// the stored P×P adds up to the full cross comparison.
func (s *Store) appendBatch(ctx context.Context, name string, batch []types.Observation, modTime string) error {
	direct, err := s.LoadTally(ctx, SourceDirect)
	if err != nil {
		return err
	}
	logical, err := s.LoadTally(ctx, SourceLogical)
	if err != nil {
		return err
	}
	var prior []types.Observation
	if s.count.Logical {
		if prior, err = s.Observations(ctx); err != nil {
			return err
		}
	}

	res, err := counting.Count(batch, counting.CountOptions{
		Direct:       direct,
		Logical:      s.count.Logical,
		LogicalTally: logical,
		SkipSelf:     s.count.SkipSelf,
		Logger:       s.logger,
	})
	if err != nil {
		return err
	}
	if s.count.Logical && len(prior) > 0 {
		var warnings []error
		var errs []error
		res.Logical, errs = counting.InferBatch(batch, prior, res.Logical)
		warnings = append(warnings, errs...)
		res.Logical, errs = counting.InferBatch(prior, batch, res.Logical)
		warnings = append(warnings, errs...)
		for _, w := range warnings {
			s.logger.Warn("skipping item during logical inference", "file", name, "error", w)
		}
	}

	return s.commitBatch(ctx, name, batch, modTime, false, res.Direct, res.Logical)
}

// replaceBatch swaps the stored observations of name for batch and
// recounts all observations from scratch.
func (s *Store) replaceBatch(ctx context.Context, name string, batch []types.Observation, modTime string) error {
	all, err := s.sourcedObservations(ctx)
	if err != nil {
		return err
	}
	var kept []types.Observation
	for _, so := range all {
		if so.source != name {
			kept = append(kept, so.obs)
		}
	}
	kept = append(kept, batch...)

	res, err := counting.Count(kept, counting.CountOptions{
		Logical:  s.count.Logical,
		SkipSelf: s.count.SkipSelf,
		Logger:   s.logger,
	})
	if err != nil {
		return err
	}
	return s.commitBatch(ctx, name, batch, modTime, true, res.Direct, res.Logical)
}

func (s *Store) commitBatch(ctx context.Context, name string, batch []types.Observation, modTime string, replace bool, direct, logical *types.Tally) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if replace {
		if _, err := tx.ExecContext(ctx, `DELETE FROM observations WHERE source = ?`, name); err != nil {
			return fmt.Errorf("deleting old observations: %w", err)
		}
	}
	if err := insertObservations(ctx, tx, name, batch); err != nil {
		return err
	}
	if err := writeTally(ctx, tx, SourceDirect, direct); err != nil {
		return err
	}
	// A recount without inference clears logical rows of earlier runs.
	if s.count.Logical || replace {
		if err := writeTally(ctx, tx, SourceLogical, logical); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (file, mod_time, observations) VALUES (?, ?, ?)
		 ON CONFLICT(file) DO UPDATE SET mod_time=excluded.mod_time, observations=excluded.observations`,
		name, modTime, len(batch),
	)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}

	return tx.Commit()
}
