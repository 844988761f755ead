// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RankedItem is one row of a ranking, best first.
type RankedItem struct {
	// Position is the one-based rank.
	Position int `json:"position" yaml:"position"`

	// Index is the item's index in the sorted ID list of the ranked items.
	Index int `json:"index" yaml:"index"`

	ID ItemID `json:"id" yaml:"id"`

	// Metric is the raw estimator output.
	Metric float64 `json:"metric" yaml:"metric"`

	// Score is the calibrated metric.
	Score float64 `json:"score" yaml:"score"`
}

// Ranking is an ordered list of items, most preferred first. A Ranking is
// computed fresh per call and never updated in place.
type Ranking []RankedItem
