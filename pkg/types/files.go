// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// IsJSON reports whether path names a JSON file. Every other file is read
// as YAML.
func IsJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// IsDataFile reports whether path has a YAML or JSON extension.
func IsDataFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// DecodeBatch parses a list of observations, as JSON when isJSON is set and
// as YAML otherwise. Each observation is validated by position.
func DecodeBatch(data []byte, isJSON bool) ([]Observation, error) {
	var batch []Observation
	var err error
	if isJSON {
		err = json.Unmarshal(data, &batch)
	} else {
		err = yaml.Unmarshal(data, &batch)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing observations: %w", err)
	}
	for i, obs := range batch {
		if err := obs.Validate(); err != nil {
			var ie *InvalidInputError
			if errors.As(err, &ie) {
				return nil, ie.AtIndex(i)
			}
			return nil, err
		}
	}
	return batch, nil
}

// ReadBatch reads observations from a YAML or JSON file.
func ReadBatch(path string) ([]Observation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	batch, err := DecodeBatch(data, IsJSON(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return batch, nil
}

// pairsDocument is the object form printed by the count command.
type pairsDocument struct {
	Pairs PairCounts `json:"pairs" yaml:"pairs"`
}

// ReadPairCounts reads pair counts from a YAML or JSON file holding either
// a bare record list or an object with a "pairs" record list.
func ReadPairCounts(path string) (PairCounts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	counts, err := DecodePairCounts(data, IsJSON(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return counts, nil
}

// DecodePairCounts parses pair counts as JSON when isJSON is set and as
// YAML otherwise. Both the bare record list and the {pairs: [...]} object
// are accepted.
func DecodePairCounts(data []byte, isJSON bool) (PairCounts, error) {
	var (
		doc pairsDocument
		err error
	)
	if isJSON {
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
			err = json.Unmarshal(trimmed, &doc)
		} else {
			err = json.Unmarshal(data, &doc.Pairs)
		}
	} else {
		var node yaml.Node
		if err = yaml.Unmarshal(data, &node); err == nil && len(node.Content) > 0 {
			if node.Content[0].Kind == yaml.MappingNode {
				err = node.Content[0].Decode(&doc)
			} else {
				err = node.Content[0].Decode(&doc.Pairs)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("parsing pair counts: %w", err)
	}
	if doc.Pairs == nil {
		doc.Pairs = PairCounts{}
	}
	return doc.Pairs, nil
}
