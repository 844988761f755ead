// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package counting turns evaluated BWS sets into directed pair counts.
// Direct extraction reads the BEST/WORST marks of one set; logical
// inference combines two sets that share an item.
//
// Every function takes the accumulator to update and returns it. A nil
// accumulator starts a fresh one.
package counting

import (
	"errors"
	"fmt"

	"github.com/pdiddy/bwsample/pkg/types"
)

// Extract records the pairs of one evaluated BWS set into acc:
//
//   - BEST > WORST under the "bw" category,
//   - BEST > m under "bn" and m > WORST under "nw" for every other item m.
//
// A set without a BEST or without a WORST item yields no pairs. When more
// than one item carries the same mark only the first one counts; the later
// ones are treated like any other item. On a shape error acc is returned
// untouched together with an *types.InvalidInputError.
func Extract(ids []types.ItemID, states []types.ItemState, acc *types.Tally) (*types.Tally, error) {
	if acc == nil {
		acc = types.NewDirectTally()
	} else {
		acc.Ensure(types.DirectCategories()...)
	}

	if err := types.ValidateShape(ids, states); err != nil {
		return acc, err
	}

	best, worst := types.Observation{States: states, IDs: ids}.Index()
	if best < 0 || worst < 0 {
		return acc, nil
	}

	b, w := ids[best], ids[worst]
	acc.Record(types.DirectBestWorst, types.Pair{Winner: b, Loser: w})

	for i, m := range ids {
		if i == best || i == worst {
			continue
		}
		acc.Record(types.DirectBestOther, types.Pair{Winner: b, Loser: m})
		acc.Record(types.DirectOtherWorst, types.Pair{Winner: m, Loser: w})
	}

	return acc, nil
}

// ExtractBatch folds Extract over a batch. It stops at the first malformed
// observation; the observations before it stay counted in acc.
func ExtractBatch(batch []types.Observation, acc *types.Tally) (*types.Tally, error) {
	if acc == nil {
		acc = types.NewDirectTally()
	}
	for i, obs := range batch {
		var err error
		acc, err = Extract(obs.IDs, obs.States, acc)
		if err != nil {
			var ie *types.InvalidInputError
			if errors.As(err, &ie) {
				return acc, ie.AtIndex(i)
			}
			return acc, fmt.Errorf("observation %d: %w", i, err)
		}
	}
	return acc, nil
}
