// Package entropy scores guesses by expected information gain over the
// current candidate set and picks the next guess.
package entropy

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/partition"
)

// DefaultMaxRounds is the number of guesses a game allows.
const DefaultMaxRounds = 6

// ErrNoCandidates means no dictionary word fits the feedback seen so far.
var ErrNoCandidates = errors.New("entropy: no candidates left")

// Rule names the reason a guess was chosen.
type Rule string

const (
	RuleSole      Rule = "sole"       // one candidate left
	RuleLastRound Rule = "last_round" // final round, commit to a likely word
	RuleEntropy   Rule = "entropy"    // highest expected information gain
)

// Choice is the selected guess for a round.
type Choice struct {
	Index int     // dictionary index of the guess
	Word  string  // the guess
	Rule  Rule    // which rule picked it
	Score float64 // entropy in bits; only set for RuleEntropy
}

// Selector picks guesses from a shared, read-only partition table.
type Selector struct {
	table     *partition.Table
	common    *bitset.BitSet
	maxRounds int
}

// New returns a Selector. common holds the commonly used words as
// dictionary indices; maxRounds <= 0 selects DefaultMaxRounds.
func New(table *partition.Table, common *bitset.BitSet, maxRounds int) *Selector {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	if common == nil {
		common = bitset.New(uint(table.Len()))
	}
	return &Selector{table: table, common: common, maxRounds: maxRounds}
}

// Table returns the partition table the selector reads.
func (s *Selector) Table() *partition.Table { return s.table }

// MaxRounds returns the number of rounds in a game.
func (s *Selector) MaxRounds() int { return s.maxRounds }

// Score returns the expected information gain of guess, in bits:
//
//	Σ p(o)·log2(1/p(o))  over non-redundant outcomes o,
//	p(o) = |Cell(guess, o) ∩ candidates| / |candidates|.
//
// Non-zero terms are summed in ascending cell-size order, so two guesses
// that split the candidates into equally sized parts get bit-identical
// scores and tie-breaking stays deterministic.
func (s *Selector) Score(guess int, candidates *bitset.BitSet) float64 {
	n := candidates.Count()
	if n == 0 {
		return 0
	}
	sizes := s.table.CellSizes(guess, candidates)

	counts := make([]int, 0, 32)
	for code, c := range sizes {
		if c == 0 || s.table.Redundant(guess, feedback.Outcome(code)) {
			continue
		}
		counts = append(counts, c)
	}
	sort.Ints(counts)

	total := float64(n)
	h := 0.0
	for _, c := range counts {
		p := float64(c) / total
		h += p * math.Log2(1/p)
	}
	return h
}

// Best scores every dictionary word in dictionary order and returns the
// first one with the highest score. ctx is checked between guesses.
func (s *Selector) Best(ctx context.Context, candidates *bitset.BitSet) (int, float64, error) {
	if candidates.Count() == 0 {
		return 0, 0, ErrNoCandidates
	}
	best, bestScore := -1, 0.0
	for g := 0; g < s.table.Len(); g++ {
		if g%64 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, 0, err
			}
		}
		if sc := s.Score(g, candidates); best < 0 || sc > bestScore {
			best, bestScore = g, sc
		}
	}
	return best, bestScore, nil
}

// Choose picks the guess for round (0-based):
//   - one candidate left: guess it;
//   - last round: the first candidate that is a common word, or else the
//     first candidate, in dictionary order;
//   - otherwise the entropy arg-max from Best.
func (s *Selector) Choose(ctx context.Context, round int, candidates *bitset.BitSet) (Choice, error) {
	dict := s.table.Dict()
	switch n := candidates.Count(); {
	case n == 0:
		return Choice{}, ErrNoCandidates

	case n == 1:
		i, _ := candidates.NextSet(0)
		return Choice{Index: int(i), Word: dict.Word(int(i)), Rule: RuleSole}, nil

	case round+1 >= s.maxRounds:
		i, ok := candidates.Intersection(s.common).NextSet(0)
		if !ok {
			i, _ = candidates.NextSet(0)
		}
		return Choice{Index: int(i), Word: dict.Word(int(i)), Rule: RuleLastRound}, nil
	}

	g, score, err := s.Best(ctx, candidates)
	if err != nil {
		return Choice{}, err
	}
	return Choice{Index: g, Word: dict.Word(g), Rule: RuleEntropy, Score: score}, nil
}
