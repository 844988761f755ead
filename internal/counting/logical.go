// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package counting

import (
	"fmt"
	"sort"

	"github.com/pdiddy/bwsample/pkg/types"
)

// partition splits one BWS set into its items by state, in sequence order.
// The shared item is part of its own partition.
type partition struct {
	best       []types.ItemID
	worst      []types.ItemID
	notOrBest  []types.ItemID
	notOrWorst []types.ItemID
}

func partitionOf(ids []types.ItemID, states []types.ItemState) partition {
	var p partition
	n := min(len(ids), len(states))
	for i := 0; i < n; i++ {
		id := ids[i]
		switch states[i] {
		case types.Best:
			p.best = append(p.best, id)
			p.notOrBest = append(p.notOrBest, id)
		case types.Worst:
			p.worst = append(p.worst, id)
			p.notOrWorst = append(p.notOrWorst, id)
		case types.NotSelected:
			p.notOrBest = append(p.notOrBest, id)
			p.notOrWorst = append(p.notOrWorst, id)
		}
	}
	return p
}

// firstPositions maps each ID to the position of its first occurrence.
// Later duplicates within the same set are ignored.
func firstPositions(ids []types.ItemID) map[types.ItemID]int {
	pos := make(map[types.ItemID]int, len(ids))
	for i, id := range ids {
		if _, ok := pos[id]; !ok {
			pos[id] = i
		}
	}
	return pos
}

// Infer derives the pairs implied by two BWS sets A and B that share at
// least one item (Hamster 2021). For each shared item u with state s1 in A
// and s2 in B:
//
//	nn: Best(A) > Worst(B) and Best(B) > Worst(A)
//	nb: Best(A) > (Not|Worst)(B)
//	nw: (Not|Best)(B) > Worst(A)
//	bn: Best(B) > (Not|Worst)(A)
//	bw: (Not|Best)(B) > (Not|Worst)(A)
//	wn: (Not|Best)(A) > Worst(B)
//	wb: (Not|Best)(A) > (Not|Worst)(B)
//
// bb and ww carry no information. Each generated pair is counted once in
// the aggregate and once in its category.
//
// A shared ID whose state cannot be looked up is skipped and reported in
// the returned slice as a *types.LookupError; the rest of the pass goes on.
func Infer(idsA, idsB []types.ItemID, statesA, statesB []types.ItemState, acc *types.Tally) (*types.Tally, []error) {
	if acc == nil {
		acc = types.NewLogicalTally()
	} else {
		acc.Ensure(types.LogicalCategories()...)
	}

	posA := firstPositions(idsA)
	posB := firstPositions(idsB)

	common := make([]types.ItemID, 0)
	for id := range posA {
		if _, ok := posB[id]; ok {
			common = append(common, id)
		}
	}
	if len(common) == 0 {
		return acc, nil
	}
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })

	a := partitionOf(idsA, statesA)
	b := partitionOf(idsB, statesB)

	var problems []error
	for _, u := range common {
		p1, p2 := posA[u], posB[u]
		if p1 >= len(statesA) || p2 >= len(statesB) {
			problems = append(problems, &types.LookupError{
				ID:     u,
				Reason: fmt.Sprintf("no state at positions %d/%d (states: %d/%d)", p1, p2, len(statesA), len(statesB)),
			})
			continue
		}
		applyRule(acc, statesA[p1], statesB[p2], a, b)
	}

	return acc, problems
}

func applyRule(acc *types.Tally, s1, s2 types.ItemState, a, b partition) {
	switch s1 {
	case types.NotSelected:
		switch s2 {
		case types.NotSelected:
			cross(acc, types.LogicalNN, a.best, b.worst)
			cross(acc, types.LogicalNN, b.best, a.worst)
		case types.Best:
			cross(acc, types.LogicalNB, a.best, b.notOrWorst)
		case types.Worst:
			cross(acc, types.LogicalNW, b.notOrBest, a.worst)
		}
	case types.Best:
		switch s2 {
		case types.NotSelected:
			cross(acc, types.LogicalBN, b.best, a.notOrWorst)
		case types.Worst:
			cross(acc, types.LogicalBW, b.notOrBest, a.notOrWorst)
		}
	case types.Worst:
		switch s2 {
		case types.NotSelected:
			cross(acc, types.LogicalWN, a.notOrBest, b.worst)
		case types.Best:
			cross(acc, types.LogicalWB, a.notOrBest, b.notOrWorst)
		}
	}
}

func cross(acc *types.Tally, c types.Category, winners, losers []types.ItemID) {
	for _, i := range winners {
		for _, j := range losers {
			acc.Record(c, types.Pair{Winner: i, Loser: j})
		}
	}
}

// InferBatch runs Infer for every observation of batch against every
// observation of database.
func InferBatch(batch, database []types.Observation, acc *types.Tally) (*types.Tally, []error) {
	return inferCross(batch, database, acc, false)
}

// inferCross is InferBatch with an option to skip pairs (i, i) when batch
// and database are the same slice.
func inferCross(batch, database []types.Observation, acc *types.Tally, skipSelf bool) (*types.Tally, []error) {
	if acc == nil {
		acc = types.NewLogicalTally()
	}
	var problems []error
	for i, x := range batch {
		for j, y := range database {
			if skipSelf && i == j {
				continue
			}
			var errs []error
			acc, errs = Infer(x.IDs, y.IDs, x.States, y.States, acc)
			problems = append(problems, errs...)
		}
	}
	return acc, problems
}
