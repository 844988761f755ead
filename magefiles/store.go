//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Ingest builds the CLI and ingests data/surveys into the observation store.
func Ingest() error {
	mg.Deps(Init, Build)
	return sh.RunV("./bin/bwsample", "store", "ingest", "--data-dir", "data")
}

// Rank builds the CLI and ranks the items of the observation store.
func Rank() error {
	mg.Deps(Build)
	return sh.RunV("./bin/bwsample", "store", "rank", "--data-dir", "data")
}
