package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/entropy"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/partition"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

var fixture = []string{"abide", "alloy", "crane", "geese", "hello", "llama", "loyal", "party", "skill", "today", "wound"}

func openTemp(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "solver.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func buildTable(t *testing.T, list []string) *partition.Table {
	t.Helper()
	dict, err := words.NewDictionary(list)
	require.NoError(t, err)
	tbl, err := partition.Build(context.Background(), dict, partition.Options{Workers: 2})
	require.NoError(t, err)
	return tbl
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestPartitionRoundTrip(t *testing.T) {
	ctx := context.Background()
	ps := NewPartitionStore(openTemp(t))
	built := buildTable(t, fixture)
	require.NoError(t, ps.Save(ctx, built))

	loaded, err := ps.Load(ctx, built.Dict())
	require.NoError(t, err)
	require.Equal(t, built.Len(), loaded.Len())

	for g := 0; g < built.Len(); g++ {
		for o := feedback.Outcome(0); o < feedback.NumOutcomes; o++ {
			assert.True(t, built.Cell(g, o).Equal(loaded.Cell(g, o)), "%s %s", built.Dict().Word(g), o)
		}
	}

	// Saving again replaces rather than duplicates.
	require.NoError(t, ps.Save(ctx, built))
	var n int
	require.NoError(t, ps.db.QueryRow(`SELECT COUNT(*) FROM partitions`).Scan(&n))
	assert.Equal(t, len(fixture)*feedback.NumOutcomes, n)
}

func TestLoadWithoutPrecompute(t *testing.T) {
	ps := NewPartitionStore(openTemp(t))
	dict, err := words.NewDictionary(fixture)
	require.NoError(t, err)

	_, err = ps.Load(context.Background(), dict)
	assert.ErrorIs(t, err, ErrMissingPartition)
}

func TestLoadWithMissingKey(t *testing.T) {
	ctx := context.Background()
	ps := NewPartitionStore(openTemp(t))
	built := buildTable(t, fixture)
	require.NoError(t, ps.Save(ctx, built))

	o, err := feedback.Parse("__~__")
	require.NoError(t, err)
	_, err = ps.db.Exec(`DELETE FROM partitions WHERE key=?`, Key("hello", o))
	require.NoError(t, err)

	_, err = ps.Load(ctx, built.Dict())
	assert.ErrorIs(t, err, ErrMissingPartition)
	assert.Contains(t, err.Error(), "hello__~__")
}

func TestLoadForOtherDictionary(t *testing.T) {
	ctx := context.Background()
	ps := NewPartitionStore(openTemp(t))
	require.NoError(t, ps.Save(ctx, buildTable(t, fixture)))

	other, err := words.NewDictionary([]string{"party", "skill", "today", "wound"})
	require.NoError(t, err)
	_, err = ps.Load(ctx, other)
	assert.ErrorIs(t, err, ErrStalePartitions)
}

func TestLoadRejectsTamperedCells(t *testing.T) {
	ctx := context.Background()
	ps := NewPartitionStore(openTemp(t))
	built := buildTable(t, fixture)
	require.NoError(t, ps.Save(ctx, built))

	// "abide" also sits in party's _~___ cell.
	o, err := feedback.Parse("_____")
	require.NoError(t, err)
	_, err = ps.db.Exec(`UPDATE partitions SET words=? WHERE key=?`, "abide\ngeese\nhello\nskill\nwound", Key("party", o))
	require.NoError(t, err)

	_, err = ps.Load(ctx, built.Dict())
	assert.ErrorIs(t, err, partition.ErrInconsistent)
}

func TestGameLog(t *testing.T) {
	ctx := context.Background()
	gl := NewGameLog(openTemp(t))

	dict, err := words.NewDictionary([]string{"party", "skill", "today", "wound"})
	require.NoError(t, err)
	tbl, err := partition.Build(ctx, dict, partition.Options{})
	require.NoError(t, err)
	sel := entropy.New(tbl, nil, 0)

	s, err := game.New(sel, "wound")
	require.NoError(t, err)
	res, err := game.Run(ctx, s, nil)
	require.NoError(t, err)
	require.Equal(t, game.Won, res.State)

	require.NoError(t, gl.Record(ctx, res))
	require.NoError(t, gl.Record(ctx, res))

	rows, err := gl.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, s.ID(), rows[0].ID)
	assert.Equal(t, "wound", rows[0].Answer)
	assert.Equal(t, string(game.Won), rows[0].Status)
	assert.Equal(t, res.Rounds, rows[0].Rounds)
	require.Len(t, rows[0].Turns, len(res.Turns))
	assert.Equal(t, "today", rows[0].Turns[0].Guess)
	assert.Equal(t, "!!!!!", rows[0].Turns[len(res.Turns)-1].Feedback)

	got, err := gl.Get(ctx, s.ID())
	require.NoError(t, err)
	snap := got.Snapshot()
	assert.Equal(t, game.Won, snap.State)
	assert.Equal(t, res.Rounds-1, snap.Round)
	assert.Equal(t, 1, snap.Candidates)
	assert.Len(t, snap.Turns, res.Rounds)

	_, err = gl.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	dict, err := words.NewDictionary([]string{"party", "skill", "today", "wound"})
	require.NoError(t, err)
	tbl, err := partition.Build(ctx, dict, partition.Options{})
	require.NoError(t, err)
	sel := entropy.New(tbl, nil, 0)

	st := NewMemoryStore()
	s, err := game.New(sel, "")
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, s))
	assert.Equal(t, 1, st.Len())

	got, err := st.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, st.Delete(ctx, s.ID()))
	_, err = st.Get(ctx, s.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, st.Len())
}

func TestMemoryStorePrune(t *testing.T) {
	ctx := context.Background()
	dict, err := words.NewDictionary([]string{"party", "skill", "today", "wound"})
	require.NoError(t, err)
	tbl, err := partition.Build(ctx, dict, partition.Options{})
	require.NoError(t, err)
	sel := entropy.New(tbl, nil, 0)

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	st := &memory{sessions: make(map[string]*entry), now: func() time.Time { return clock }}

	idle, err := game.New(sel, "")
	require.NoError(t, err)
	busy, err := game.New(sel, "")
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, idle))
	require.NoError(t, st.Save(ctx, busy))

	clock = clock.Add(20 * time.Minute)
	_, err = st.Get(ctx, busy.ID())
	require.NoError(t, err)

	assert.Equal(t, 1, st.Prune(clock.Add(-10*time.Minute)))
	assert.Equal(t, 1, st.Len())
	_, err = st.Get(ctx, idle.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(ctx, busy.ID())
	assert.NoError(t, err)

	assert.Zero(t, st.Prune(clock.Add(-time.Minute)))
}
