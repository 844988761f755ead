// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package maxdiff implements simple MaxDiff counting scores (Orme 2009):
// each item gains one point when chosen best and loses one when chosen
// worst, averaged over the number of observations.
package maxdiff

import (
	"errors"
	"sort"

	"github.com/pdiddy/bwsample/pkg/types"
)

// Score counts best and worst choices over batch. Every item seen in the
// batch is ranked, highest score first and ties by ID. Metric and Score of
// each item both hold the averaged count.
func Score(batch []types.Observation) (types.Ranking, error) {
	counts := make(map[types.ItemID]int)
	for i, obs := range batch {
		if err := obs.Validate(); err != nil {
			var ie *types.InvalidInputError
			if errors.As(err, &ie) {
				return nil, ie.AtIndex(i)
			}
			return nil, err
		}
		for _, id := range obs.IDs {
			if _, ok := counts[id]; !ok {
				counts[id] = 0
			}
		}
		best, worst := obs.Index()
		if best >= 0 {
			counts[obs.IDs[best]]++
		}
		if worst >= 0 {
			counts[obs.IDs[worst]]--
		}
	}

	ids := make([]types.ItemID, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

	out := make(types.Ranking, len(ids))
	for i, id := range ids {
		s := float64(counts[id]) / float64(len(batch))
		out[i] = types.RankedItem{Index: i, ID: id, Metric: s, Score: s}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	for k := range out {
		out[k].Position = k + 1
	}
	return out, nil
}
