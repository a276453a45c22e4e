package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/partition"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

var (
	// ErrMissingPartition means the store lacks a (guess, outcome) entry.
	// The table must be rebuilt with the precompute command.
	ErrMissingPartition = errors.New("partition store: missing entry, run precompute")
	// ErrStalePartitions means the stored table was built for another dictionary.
	ErrStalePartitions = errors.New("partition store: built for a different dictionary, run precompute")
)

// PartitionStore persists a partition table in SQLite.
//
// Each (guess, outcome) pair is one row keyed by guess ++ outcome in the
// ASCII alphabet (e.g. "crane_~!__"); the value is the cell's words in
// dictionary order, newline-joined.
type PartitionStore struct {
	db *sql.DB
}

// NewPartitionStore wraps an opened database.
func NewPartitionStore(db *sql.DB) *PartitionStore { return &PartitionStore{db: db} }

// Key returns the store key of (guess, o).
func Key(guess string, o feedback.Outcome) string { return guess + o.String() }

// Save replaces the stored table with t in a single transaction.
func (p *PartitionStore) Save(ctx context.Context, t *partition.Table) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM partitions`); err != nil {
		return fmt.Errorf("clear partitions: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO partitions (key, words) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	err = t.EachCell(func(guess string, o feedback.Outcome, cell []string) error {
		_, err := stmt.ExecContext(ctx, Key(guess, o), strings.Join(cell, "\n"))
		return err
	})
	if err != nil {
		return fmt.Errorf("insert partitions: %w", err)
	}

	dict := t.Dict()
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO partition_meta (id, fingerprint, words, built_at) VALUES (1, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET fingerprint=excluded.fingerprint, words=excluded.words, built_at=excluded.built_at`,
		dict.Fingerprint(), dict.Len(), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("write partition meta: %w", err)
	}
	return tx.Commit()
}

// Load restores the table for dict. It never computes missing entries:
// a missing key is ErrMissingPartition, a table for another dictionary is
// ErrStalePartitions, and cells that do not partition the dictionary are
// partition.ErrInconsistent.
func (p *PartitionStore) Load(ctx context.Context, dict *words.Dictionary) (*partition.Table, error) {
	var fingerprint string
	var count int
	err := p.db.QueryRowContext(ctx, `SELECT fingerprint, words FROM partition_meta WHERE id=1`).Scan(&fingerprint, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMissingPartition
	}
	if err != nil {
		return nil, fmt.Errorf("read partition meta: %w", err)
	}
	if fingerprint != dict.Fingerprint() || count != dict.Len() {
		return nil, ErrStalePartitions
	}

	started := time.Now()
	var (
		current string
		cells   map[string]string
	)
	t, err := partition.FromCells(dict, func(guess string, o feedback.Outcome) ([]string, error) {
		if guess != current {
			loaded, err := p.guessCells(ctx, guess)
			if err != nil {
				return nil, err
			}
			cells, current = loaded, guess
		}
		v, ok := cells[Key(guess, o)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingPartition, Key(guess, o))
		}
		if v == "" {
			return nil, nil
		}
		return strings.Split(v, "\n"), nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int("words", dict.Len()).Dur("took", time.Since(started)).Msg("partition table loaded")
	return t, nil
}

// guessCells reads every stored cell of one guess.
func (p *PartitionStore) guessCells(ctx context.Context, guess string) (map[string]string, error) {
	// Outcome symbols are all below 0x7f, so this range holds exactly guess's keys.
	rows, err := p.db.QueryContext(ctx, `SELECT key, words FROM partitions WHERE key >= ? AND key < ?`,
		guess, guess+"\x7f")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string, feedback.NumOutcomes)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}
