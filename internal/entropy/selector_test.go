package entropy

import (
	"context"
	"math"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/partition"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func newSelector(t *testing.T, list, common []string) *Selector {
	t.Helper()
	dict, err := words.NewDictionary(list)
	require.NoError(t, err)
	tbl, err := partition.Build(context.Background(), dict, partition.Options{Workers: 2})
	require.NoError(t, err)
	set, _ := dict.Subset(common)
	return New(tbl, set, 0)
}

func indexOf(t *testing.T, s *Selector, w string) int {
	t.Helper()
	i, ok := s.Table().Dict().Index(w)
	require.True(t, ok, w)
	return i
}

// Hand-computed partitions over {party, skill, today, wound}:
//
//	party: {party} {skill, wound} {today}  -> 1.5 bits
//	skill: {skill} {party, today, wound}   -> 0.8113 bits
//	today: four singletons                 -> 2 bits
//	wound: {wound} {party, skill} {today}  -> 1.5 bits
func TestBestPicksArgMax(t *testing.T) {
	s := newSelector(t, []string{"wound", "today", "skill", "party"}, nil)
	all := s.Table().Dict().All()

	assert.InDelta(t, 1.5, s.Score(indexOf(t, s, "party"), all), 1e-12)
	assert.InDelta(t, 0.75*math.Log2(4.0/3.0)+0.5, s.Score(indexOf(t, s, "skill"), all), 1e-12)
	assert.InDelta(t, 2.0, s.Score(indexOf(t, s, "today"), all), 1e-12)
	assert.InDelta(t, 1.5, s.Score(indexOf(t, s, "wound"), all), 1e-12)

	g, score, err := s.Best(context.Background(), all)
	require.NoError(t, err)
	assert.Equal(t, "today", s.Table().Dict().Word(g))
	assert.InDelta(t, 2.0, score, 1e-12)
}

// {abbey, cable, fable, table}: cable, fable and table all score 1.5 bits,
// abbey 0.8113. The tie goes to the first in dictionary order.
func TestBestBreaksTiesInDictionaryOrder(t *testing.T) {
	s := newSelector(t, []string{"table", "fable", "cable", "abbey"}, nil)
	all := s.Table().Dict().All()

	cable := s.Score(indexOf(t, s, "cable"), all)
	assert.Equal(t, cable, s.Score(indexOf(t, s, "fable"), all))
	assert.Equal(t, cable, s.Score(indexOf(t, s, "table"), all))
	assert.Greater(t, cable, s.Score(indexOf(t, s, "abbey"), all))

	g, _, err := s.Best(context.Background(), all)
	require.NoError(t, err)
	assert.Equal(t, "cable", s.Table().Dict().Word(g))

	// Every guess separates these four completely, so all tie at 2 bits.
	s = newSelector(t, []string{"trace", "slate", "crate", "crane"}, nil)
	g, score, err := s.Best(context.Background(), s.Table().Dict().All())
	require.NoError(t, err)
	assert.Equal(t, "crane", s.Table().Dict().Word(g))
	assert.InDelta(t, 2.0, score, 1e-12)
}

func TestScoreBounds(t *testing.T) {
	list := []string{"abide", "alloy", "crane", "geese", "hello", "llama", "loyal", "party", "skill", "today", "wound"}
	s := newSelector(t, list, nil)
	dict := s.Table().Dict()

	subsets := [][]string{
		list,
		{"party", "wound"},
		{"hello", "llama", "loyal"},
		{"crane"},
	}
	for _, sub := range subsets {
		cands, _ := dict.Subset(sub)
		for g := 0; g < dict.Len(); g++ {
			sc := s.Score(g, cands)
			assert.GreaterOrEqual(t, sc, 0.0)
			assert.LessOrEqual(t, sc, math.Log2(float64(len(sub)))+1e-12)

			nonEmpty := 0
			for _, c := range s.Table().CellSizes(g, cands) {
				if c > 0 {
					nonEmpty++
				}
			}
			if nonEmpty == 1 {
				assert.Zero(t, sc, "%s over %v", dict.Word(g), sub)
			} else {
				assert.Greater(t, sc, 0.0, "%s over %v", dict.Word(g), sub)
			}
		}
	}

	// skill cannot tell party from wound
	cands, _ := dict.Subset([]string{"party", "wound"})
	assert.Zero(t, s.Score(indexOf(t, s, "skill"), cands))
	assert.Zero(t, s.Score(0, bitset.New(uint(dict.Len()))))
}

func TestChooseRules(t *testing.T) {
	list := []string{"party", "skill", "today", "wound"}
	s := newSelector(t, list, []string{"wound", "today"})
	dict := s.Table().Dict()
	ctx := context.Background()

	t.Run("entropy", func(t *testing.T) {
		c, err := s.Choose(ctx, 0, dict.All())
		require.NoError(t, err)
		assert.Equal(t, "today", c.Word)
		assert.Equal(t, RuleEntropy, c.Rule)
		assert.InDelta(t, 2.0, c.Score, 1e-12)
	})

	t.Run("sole candidate", func(t *testing.T) {
		cands, _ := dict.Subset([]string{"skill"})
		c, err := s.Choose(ctx, 1, cands)
		require.NoError(t, err)
		assert.Equal(t, "skill", c.Word)
		assert.Equal(t, RuleSole, c.Rule)
	})

	t.Run("last round prefers common words", func(t *testing.T) {
		cands, _ := dict.Subset([]string{"party", "today", "wound"})
		c, err := s.Choose(ctx, DefaultMaxRounds-1, cands)
		require.NoError(t, err)
		assert.Equal(t, "today", c.Word)
		assert.Equal(t, RuleLastRound, c.Rule)
	})

	t.Run("last round without common words", func(t *testing.T) {
		cands, _ := dict.Subset([]string{"skill", "party"})
		c, err := s.Choose(ctx, DefaultMaxRounds-1, cands)
		require.NoError(t, err)
		assert.Equal(t, "party", c.Word)
		assert.Equal(t, RuleLastRound, c.Rule)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, err := s.Choose(ctx, 0, bitset.New(uint(dict.Len())))
		assert.ErrorIs(t, err, ErrNoCandidates)
	})
}

func TestBestHonoursContext(t *testing.T) {
	s := newSelector(t, []string{"party", "skill", "today", "wound"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.Best(ctx, s.Table().Dict().All())
	assert.ErrorIs(t, err, context.Canceled)
}
