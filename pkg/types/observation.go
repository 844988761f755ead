// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model shared by the counting, ranking and
// store packages: observations, directed pair counts and configuration.
package types

import "fmt"

// ItemID identifies a candidate (sentence, entity, ...) being compared.
// IDs are ordered by plain string comparison.
type ItemID string

// ItemState is the mark a respondent gave to one item of a BWS set.
type ItemState int

const (
	NotSelected ItemState = 0
	Best        ItemState = 1
	Worst       ItemState = 2
)

// String returns the short state name used in logs.
func (s ItemState) String() string {
	switch s {
	case NotSelected:
		return "not"
	case Best:
		return "best"
	case Worst:
		return "worst"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Valid reports whether s is one of the three known states.
func (s ItemState) Valid() bool {
	return s == NotSelected || s == Best || s == Worst
}

// Observation is one evaluated BWS set: the item states in the same order
// as the item IDs. Observations are produced upstream and never mutated.
type Observation struct {
	// States holds one state per item; 0 = not selected, 1 = best, 2 = worst.
	States []ItemState `json:"states" yaml:"states"`

	// IDs holds the item identifiers, aligned with States.
	IDs []ItemID `json:"ids" yaml:"ids"`
}

// NewObservation builds an Observation from raw integer states and string
// IDs, the batch format used by survey exports.
func NewObservation(states []int, ids []string) Observation {
	obs := Observation{
		States: make([]ItemState, len(states)),
		IDs:    make([]ItemID, len(ids)),
	}
	for i, s := range states {
		obs.States[i] = ItemState(s)
	}
	for i, id := range ids {
		obs.IDs[i] = ItemID(id)
	}
	return obs
}

// Validate checks the shape of the observation.
func (o Observation) Validate() error {
	return ValidateShape(o.IDs, o.States)
}

// ValidateShape checks that ids and states are aligned and that every state
// is known.
func ValidateShape(ids []ItemID, states []ItemState) error {
	if len(ids) != len(states) {
		return &InvalidInputError{
			Reason: fmt.Sprintf("IDs and states lists must have the same length (%d != %d)", len(ids), len(states)),
		}
	}
	for i, s := range states {
		if !s.Valid() {
			return &InvalidInputError{
				Reason: fmt.Sprintf("unknown item state %d at position %d", int(s), i),
			}
		}
	}
	return nil
}

// Index returns the position of the first BEST and first WORST item, or -1
// when the observation has none.
func (o Observation) Index() (best, worst int) {
	best, worst = -1, -1
	for i, s := range o.States {
		switch {
		case s == Best && best < 0:
			best = i
		case s == Worst && worst < 0:
			worst = i
		}
	}
	return best, worst
}
