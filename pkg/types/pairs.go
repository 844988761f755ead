// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"sort"

	"go.yaml.in/yaml/v3"
)

// Pair is a directed dominance relation: Winner was preferred over Loser.
type Pair struct {
	Winner ItemID
	Loser  ItemID
}

// Less orders pairs by winner, then loser.
func (p Pair) Less(o Pair) bool {
	if p.Winner != o.Winner {
		return p.Winner < o.Winner
	}
	return p.Loser < o.Loser
}

func (p Pair) String() string {
	return fmt.Sprintf("%s>%s", p.Winner, p.Loser)
}

// PairCounts counts how often each directed pair was observed or inferred.
// It is a dictionary-of-keys sparse matrix keyed by item IDs.
type PairCounts map[Pair]int

// Inc adds one observation of p.
func (c PairCounts) Inc(p Pair) {
	c[p]++
}

// Add adds n observations of p.
func (c PairCounts) Add(p Pair, n int) {
	c[p] += n
}

// Get returns the count of p, zero when absent.
func (c PairCounts) Get(winner, loser ItemID) int {
	return c[Pair{Winner: winner, Loser: loser}]
}

// Total returns the sum of all counts.
func (c PairCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Clone returns an independent copy.
func (c PairCounts) Clone() PairCounts {
	out := make(PairCounts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// MergeFrom adds every count of o into c.
func (c PairCounts) MergeFrom(o PairCounts) {
	for k, v := range o {
		c[k] += v
	}
}

// Keys returns the pairs sorted by winner, then loser.
func (c PairCounts) Keys() []Pair {
	keys := make([]Pair, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// IDs returns the sorted union of all winners and losers.
func (c PairCounts) IDs() []ItemID {
	seen := make(map[ItemID]struct{}, len(c))
	for k := range c {
		seen[k.Winner] = struct{}{}
		seen[k.Loser] = struct{}{}
	}
	ids := make([]ItemID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Merge returns the additive union of a and b. Neither input is modified.
func Merge(a, b PairCounts) PairCounts {
	out := make(PairCounts, len(a)+len(b))
	out.MergeFrom(a)
	out.MergeFrom(b)
	return out
}

// PairRecord is the persisted form of one PairCounts entry.
type PairRecord struct {
	Winner ItemID `json:"winner" yaml:"winner"`
	Loser  ItemID `json:"loser" yaml:"loser"`
	Count  int    `json:"count" yaml:"count"`
}

// Records returns the entries as records sorted by winner, then loser.
func (c PairCounts) Records() []PairRecord {
	keys := c.Keys()
	out := make([]PairRecord, len(keys))
	for i, k := range keys {
		out[i] = PairRecord{Winner: k.Winner, Loser: k.Loser, Count: c[k]}
	}
	return out
}

// FromRecords rebuilds PairCounts from records. Repeated pairs are summed.
func FromRecords(records []PairRecord) PairCounts {
	out := make(PairCounts, len(records))
	for _, r := range records {
		out.Add(Pair{Winner: r.Winner, Loser: r.Loser}, r.Count)
	}
	return out
}

// MarshalJSON encodes the counts as a sorted list of records.
func (c PairCounts) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Records())
}

// UnmarshalJSON decodes a list of records.
func (c *PairCounts) UnmarshalJSON(data []byte) error {
	var records []PairRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("decoding pair counts: %w", err)
	}
	*c = FromRecords(records)
	return nil
}

// MarshalYAML encodes the counts as a sorted list of records.
func (c PairCounts) MarshalYAML() (interface{}, error) {
	return c.Records(), nil
}

// UnmarshalYAML decodes a list of records.
func (c *PairCounts) UnmarshalYAML(value *yaml.Node) error {
	var records []PairRecord
	if err := value.Decode(&records); err != nil {
		return fmt.Errorf("decoding pair counts: %w", err)
	}
	*c = FromRecords(records)
	return nil
}
