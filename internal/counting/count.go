// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package counting

import (
	"io"
	"log/slog"

	"github.com/pdiddy/bwsample/pkg/types"
)

// CountOptions carries the accumulators and switches for Count. The zero
// value counts direct pairs only, into fresh accumulators.
type CountOptions struct {
	// Direct is the previously recorded direct tally to update.
	Direct *types.Tally

	// Logical enables logical inference.
	Logical bool

	// LogicalTally is the previously recorded logical tally to update.
	LogicalTally *types.Tally

	// Database holds previously processed observations to infer against.
	// When nil the batch is compared with itself.
	Database []types.Observation

	// SkipSelf skips comparing an observation with itself when Database is
	// nil.
	SkipSelf bool

	// Logger receives warnings for skipped records. Nil discards them.
	Logger *slog.Logger
}

// CountResult holds the updated accumulators of a Count call.
type CountResult struct {
	// Aggregate is Direct.Counts plus Logical.Counts.
	Aggregate types.PairCounts

	Direct *types.Tally

	// Logical is the updated logical tally, or the LogicalTally option
	// unchanged when inference is disabled.
	Logical *types.Tally

	// Warnings lists the recoverable problems met during inference.
	Warnings []error
}

// Count extracts direct pairs from every observation of batch and, when
// enabled, logically inferred pairs between the batch and the database.
// Passing the returned tallies back into the next call resumes counting.
//
// A malformed observation aborts the call with an *types.InvalidInputError;
// the direct tally then holds the observations before it and no inference
// has run.
func Count(batch []types.Observation, opts CountOptions) (CountResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	direct, err := ExtractBatch(batch, opts.Direct)
	if err != nil {
		return CountResult{Direct: direct, Logical: opts.LogicalTally}, err
	}

	if !opts.Logical {
		return CountResult{
			Aggregate: direct.Counts.Clone(),
			Direct:    direct,
			Logical:   opts.LogicalTally,
		}, nil
	}

	database := opts.Database
	skipSelf := false
	if database == nil {
		database = batch
		skipSelf = opts.SkipSelf
	}

	logical, problems := inferCross(batch, database, opts.LogicalTally, skipSelf)
	for _, p := range problems {
		logger.Warn("skipping item during logical inference", "error", p)
	}

	logger.Debug("counted batch",
		"observations", len(batch),
		"database", len(database),
		"direct_pairs", len(direct.Counts),
		"logical_pairs", len(logical.Counts),
	)

	return CountResult{
		Aggregate: types.Merge(logical.Counts, direct.Counts),
		Direct:    direct,
		Logical:   logical,
		Warnings:  problems,
	}, nil
}
