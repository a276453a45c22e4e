// apps/go-solver/internal/partition/table.go
//
// The partition table maps (guess, outcome) to the dictionary words
// consistent with that outcome.
//
// Representation:
//   - One row per guess. A row stores, for every dictionary word, the outcome
//     that word produces when guessed against, so the non-redundant cells of a
//     guess are disjoint and together cover the dictionary.
//   - Redundant outcomes share the cell of their canonical outcome.
//
// The table is built once (Build) or restored from a store (FromCells) and is
// read-only afterwards; it is safe to share between sessions and goroutines.

package partition

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// ErrInconsistent is returned by FromCells when the cells of a guess do not
// split the dictionary into disjoint, covering parts.
var ErrInconsistent = errors.New("partition: cells are not a partition of the dictionary")

// Table is the precomputed partition of a dictionary.
type Table struct {
	dict      *words.Dictionary
	rows      [][]feedback.Outcome
	redundant [][feedback.NumOutcomes]bool
}

// Options tunes Build.
type Options struct {
	// Workers bounds the number of rows computed concurrently.
	// Zero or less means runtime.NumCPU().
	Workers int
	// Progress, if set, is called after each finished row with the number of
	// rows done so far. It is called from worker goroutines.
	Progress func(done, total int)
}

// Build computes every row of the table over a worker pool, one task per
// guess. Rows are independent, each task writes only its own row.
func Build(ctx context.Context, dict *words.Dictionary, opts Options) (*Table, error) {
	n := dict.Len()
	t := newTable(dict)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var done atomic.Int64
	for gi := 0; gi < n; gi++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t.rows[gi] = buildRow(dict, gi)
			t.redundant[gi] = redundancyMask(dict.Word(gi))
			if opts.Progress != nil {
				opts.Progress(int(done.Add(1)), n)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return t, nil
}

// CellFunc returns the persisted cell for (guess, o).
type CellFunc func(guess string, o feedback.Outcome) ([]string, error)

// FromCells rebuilds a table from persisted cells. cell is called for every
// guess and all outcomes, in dictionary and outcome order, so a store can
// report missing entries; the words of redundant outcomes are not used.
// Each word must appear in exactly one non-redundant cell per guess.
func FromCells(dict *words.Dictionary, cell CellFunc) (*Table, error) {
	n := dict.Len()
	t := newTable(dict)

	for gi := 0; gi < n; gi++ {
		guess := dict.Word(gi)
		row := make([]feedback.Outcome, n)
		placed := bitset.New(uint(n))
		mask := redundancyMask(guess)

		for code := 0; code < feedback.NumOutcomes; code++ {
			o := feedback.Outcome(code)
			list, err := cell(guess, o)
			if err != nil {
				return nil, err
			}
			if mask[code] {
				continue
			}
			for _, w := range list {
				wi, ok := dict.Index(w)
				if !ok {
					return nil, fmt.Errorf("%w: %s%s holds unknown word %q", ErrInconsistent, guess, o, w)
				}
				if placed.Test(uint(wi)) {
					return nil, fmt.Errorf("%w: %q appears twice for guess %s", ErrInconsistent, w, guess)
				}
				placed.Set(uint(wi))
				row[wi] = o
			}
		}
		if placed.Count() != uint(n) {
			return nil, fmt.Errorf("%w: guess %s covers %d of %d words", ErrInconsistent, guess, placed.Count(), n)
		}
		t.rows[gi] = row
		t.redundant[gi] = mask
	}
	return t, nil
}

func newTable(dict *words.Dictionary) *Table {
	n := dict.Len()
	return &Table{
		dict:      dict,
		rows:      make([][]feedback.Outcome, n),
		redundant: make([][feedback.NumOutcomes]bool, n),
	}
}

func buildRow(dict *words.Dictionary, gi int) []feedback.Outcome {
	guess := dict.Word(gi)
	row := make([]feedback.Outcome, dict.Len())
	for wi, w := range dict.Words() {
		row[wi] = feedback.Evaluate(guess, w)
	}
	return row
}

func redundancyMask(guess string) [feedback.NumOutcomes]bool {
	var m [feedback.NumOutcomes]bool
	for code := range m {
		m[code] = feedback.Redundant(guess, feedback.Outcome(code))
	}
	return m
}

// Dict returns the dictionary the table was built for.
func (t *Table) Dict() *words.Dictionary { return t.dict }

// Len returns the number of guesses (the dictionary size).
func (t *Table) Len() int { return len(t.rows) }

// Outcome returns the outcome of guessing guess when word is the answer.
func (t *Table) Outcome(guess, word int) feedback.Outcome { return t.rows[guess][word] }

// Redundant reports whether o is excluded from entropy sums for guess.
func (t *Table) Redundant(guess int, o feedback.Outcome) bool { return t.redundant[guess][o] }

// Cell returns the words consistent with guess producing o.
func (t *Table) Cell(guess int, o feedback.Outcome) *bitset.BitSet {
	c := feedback.Canonical(t.dict.Word(guess), o)
	row := t.rows[guess]
	s := bitset.New(uint(len(row)))
	for wi, got := range row {
		if got == c {
			s.Set(uint(wi))
		}
	}
	return s
}

// CellSizes returns |Cell(guess, o) ∩ candidates| for every reachable o,
// walking the candidates instead of the whole dictionary. Redundant outcomes
// report 0.
func (t *Table) CellSizes(guess int, candidates *bitset.BitSet) [feedback.NumOutcomes]int {
	var sizes [feedback.NumOutcomes]int
	row := t.rows[guess]
	for i, ok := candidates.NextSet(0); ok; i, ok = candidates.NextSet(i + 1) {
		sizes[row[i]]++
	}
	return sizes
}

// Narrow returns the candidates consistent with guess producing o, using the
// consistency filter on the candidate words only. It equals
// Cell(guess, o) ∩ candidates.
func (t *Table) Narrow(guess int, o feedback.Outcome, candidates *bitset.BitSet) *bitset.BitSet {
	g := t.dict.Word(guess)
	out := bitset.New(uint(t.dict.Len()))
	for i, ok := candidates.NextSet(0); ok; i, ok = candidates.NextSet(i + 1) {
		if feedback.Consistent(t.dict.Word(int(i)), g, o) {
			out.Set(i)
		}
	}
	return out
}

// EachCell calls fn for every guess and all outcomes, in dictionary and
// outcome order, with the cell's words in dictionary order. Stores use it to
// persist the table.
func (t *Table) EachCell(fn func(guess string, o feedback.Outcome, cell []string) error) error {
	for gi, row := range t.rows {
		guess := t.dict.Word(gi)
		var buckets [feedback.NumOutcomes][]string
		for wi, o := range row {
			buckets[o] = append(buckets[o], t.dict.Word(wi))
		}
		for code := 0; code < feedback.NumOutcomes; code++ {
			o := feedback.Outcome(code)
			if err := fn(guess, o, buckets[feedback.Canonical(guess, o)]); err != nil {
				return err
			}
		}
	}
	return nil
}
