// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists observations and pair tallies in SQLite so that
// survey batches can be counted incrementally across runs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/bwsample/pkg/types"
)

const (
	surveysDir = "surveys"
	indexDir   = "index"
	dbFile     = "bwsample.db"
)

// Tally sources in the pair_counts table.
const (
	SourceDirect  = "direct"
	SourceLogical = "logical"
)

// aggregateCategory marks the rows holding a tally's merged counts.
const aggregateCategory = ""

// Store manages the observation database.
type Store struct {
	db      *sql.DB
	dataDir string
	count   types.CountConfig
	logger  *slog.Logger
}

// NewStore opens or creates the database at dataDir/index/bwsample.db and
// creates the schema if it does not exist. A nil logger discards output.
func NewStore(cfg types.StoreConfig, logger *slog.Logger) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{
		db:      db,
		dataDir: cfg.DataDir,
		count:   cfg.Count,
		logger:  logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS observations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			states TEXT NOT NULL,
			ids TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_source ON observations(source)`,
		`CREATE TABLE IF NOT EXISTS pair_counts (
			source TEXT NOT NULL,
			category TEXT NOT NULL,
			winner TEXT NOT NULL,
			loser TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (source, category, winner, loser)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pair_counts_winner ON pair_counts(winner)`,
		`CREATE INDEX IF NOT EXISTS idx_pair_counts_loser ON pair_counts(loser)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			file TEXT PRIMARY KEY,
			mod_time TEXT NOT NULL,
			observations INTEGER NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// AddObservations appends batch to the stored database under source.
func (s *Store) AddObservations(ctx context.Context, source string, batch []types.Observation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertObservations(ctx, tx, source, batch); err != nil {
		return err
	}
	return tx.Commit()
}

func insertObservations(ctx context.Context, ex execer, source string, batch []types.Observation) error {
	stmt, err := ex.PrepareContext(ctx, `INSERT INTO observations (source, states, ids) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, obs := range batch {
		statesJSON, err := json.Marshal(obs.States)
		if err != nil {
			return fmt.Errorf("encoding states of observation %d: %w", i, err)
		}
		idsJSON, err := json.Marshal(obs.IDs)
		if err != nil {
			return fmt.Errorf("encoding ids of observation %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, source, string(statesJSON), string(idsJSON)); err != nil {
			return fmt.Errorf("inserting observation %d: %w", i, err)
		}
	}
	return nil
}

// Observations returns every stored observation in insertion order.
func (s *Store) Observations(ctx context.Context) ([]types.Observation, error) {
	all, err := s.sourcedObservations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.Observation, len(all))
	for i, so := range all {
		out[i] = so.obs
	}
	return out, nil
}

type sourcedObservation struct {
	source string
	obs    types.Observation
}

func (s *Store) sourcedObservations(ctx context.Context) ([]sourcedObservation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, states, ids FROM observations ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	var out []sourcedObservation
	for rows.Next() {
		var so sourcedObservation
		var statesJSON, idsJSON string
		if err := rows.Scan(&so.source, &statesJSON, &idsJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(statesJSON), &so.obs.States); err != nil {
			return nil, fmt.Errorf("decoding states: %w", err)
		}
		if err := json.Unmarshal([]byte(idsJSON), &so.obs.IDs); err != nil {
			return nil, fmt.Errorf("decoding ids: %w", err)
		}
		out = append(out, so)
	}
	return out, rows.Err()
}

// SaveTally replaces the stored tally of source with t.
func (s *Store) SaveTally(ctx context.Context, source string, t *types.Tally) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := writeTally(ctx, tx, source, t); err != nil {
		return err
	}
	return tx.Commit()
}

func writeTally(ctx context.Context, ex execer, source string, t *types.Tally) error {
	if _, err := ex.ExecContext(ctx, `DELETE FROM pair_counts WHERE source = ?`, source); err != nil {
		return fmt.Errorf("deleting old %s counts: %w", source, err)
	}
	if t == nil {
		return nil
	}

	stmt, err := ex.PrepareContext(ctx,
		`INSERT INTO pair_counts (source, category, winner, loser, count) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	write := func(category string, counts types.PairCounts) error {
		for _, p := range counts.Keys() {
			if _, err := stmt.ExecContext(ctx, source, category, string(p.Winner), string(p.Loser), counts[p]); err != nil {
				return fmt.Errorf("inserting %s %s pair %s: %w", source, category, p, err)
			}
		}
		return nil
	}
	if err := write(aggregateCategory, t.Counts); err != nil {
		return err
	}
	for c, counts := range t.Detail {
		if err := write(string(c), counts); err != nil {
			return err
		}
	}
	return nil
}

// LoadTally returns the stored tally of source. A source never saved
// yields an empty tally with the categories of that source.
func (s *Store) LoadTally(ctx context.Context, source string) (*types.Tally, error) {
	var t *types.Tally
	switch source {
	case SourceDirect:
		t = types.NewDirectTally()
	case SourceLogical:
		t = types.NewLogicalTally()
	default:
		t = types.NewTally()
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT category, winner, loser, count FROM pair_counts WHERE source = ?`, source)
	if err != nil {
		return nil, fmt.Errorf("querying %s counts: %w", source, err)
	}
	defer rows.Close()

	for rows.Next() {
		var category, winner, loser string
		var n int
		if err := rows.Scan(&category, &winner, &loser, &n); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		p := types.Pair{Winner: types.ItemID(winner), Loser: types.ItemID(loser)}
		if category == aggregateCategory {
			t.Counts.Add(p, n)
			continue
		}
		c := types.Category(category)
		t.Ensure(c)
		t.Detail[c].Add(p, n)
	}
	return t, rows.Err()
}

// Aggregate returns the merged direct and logical counts.
func (s *Store) Aggregate(ctx context.Context) (types.PairCounts, error) {
	direct, err := s.LoadTally(ctx, SourceDirect)
	if err != nil {
		return nil, err
	}
	logical, err := s.LoadTally(ctx, SourceLogical)
	if err != nil {
		return nil, err
	}
	return types.Merge(direct.Counts, logical.Counts), nil
}
