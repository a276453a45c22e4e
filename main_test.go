package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
)

func TestPromptSourceAsksAgain(t *testing.T) {
	var out bytes.Buffer
	p := &promptSource{in: bufio.NewScanner(strings.NewReader("nope\n!!!!\n _ ! ~ _ _ \n")), out: &out}

	o, err := p.Feedback(context.Background(), 0, "today")
	require.NoError(t, err)
	assert.Equal(t, "_!~__", o.String())
	assert.Equal(t, 2, strings.Count(out.String(), "try again"))
	assert.Equal(t, 3, strings.Count(out.String(), "feedback> "))

	_, err = p.Feedback(context.Background(), 1, "wound")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestAnnouncer(t *testing.T) {
	var out bytes.Buffer
	a := &announcer{next: game.AnswerSource("wound"), out: &out}
	o, err := a.Feedback(context.Background(), 0, "today")
	require.NoError(t, err)
	assert.Equal(t, feedback.Evaluate("today", "wound"), o)
	assert.Contains(t, out.String(), "Guess 1: T O D A Y")
	assert.Contains(t, out.String(), o.Glyphs())
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, exitCode(0), exitCodeFor(game.Won))
	assert.Equal(t, exitCode(2), exitCodeFor(game.LostExhausted))
	assert.Equal(t, exitCode(3), exitCodeFor(game.LostRoundsExceeded))
	assert.Equal(t, "exit status 3", exitCode(3).Error())
	assert.Equal(t, "C R A N E", spaced("crane"))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SOLVER_TEST_INT", "12")
	t.Setenv("SOLVER_TEST_BAD", "twelve")
	t.Setenv("SOLVER_TEST_DUR", "45s")
	assert.Equal(t, 12, getEnvInt("SOLVER_TEST_INT", 3))
	assert.Equal(t, 3, getEnvInt("SOLVER_TEST_BAD", 3))
	assert.Equal(t, 3, getEnvInt("SOLVER_TEST_UNSET", 3))
	assert.Equal(t, 45*time.Second, getEnvDuration("SOLVER_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, getEnvDuration("SOLVER_TEST_BAD", time.Second))
	assert.Equal(t, "fallback", getEnv("SOLVER_TEST_UNSET", "fallback"))
}

// execute runs the CLI against a four-word dictionary in dir.
func execute(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{
		"--db", filepath.Join(dir, "solver.db"),
		"--dictionary", filepath.Join(dir, "dictionary.txt"),
		"--common", filepath.Join(dir, "common.txt"),
		"--log-level", "warn",
	}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPrecomputeAndPlay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dictionary.txt"), []byte("party\nskill\ntoday\nwound\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "common.txt"), []byte("today\nwound\n"), 0o644))

	_, err := execute(t, dir, "", "precompute", "--workers", "2")
	require.NoError(t, err)

	t.Run("known answer", func(t *testing.T) {
		out, err := execute(t, dir, "", "play", "WOUND")
		require.NoError(t, err)
		assert.Contains(t, out, "Guess 1: T O D A Y")
		assert.Contains(t, out, "Guess 2: W O U N D")
		assert.Contains(t, out, "Solved in 2: W O U N D")
	})

	t.Run("typed feedback", func(t *testing.T) {
		out, err := execute(t, dir, "ggggg\n_!~__\n🟩🟩🟩🟩🟩\n", "play")
		require.NoError(t, err)
		assert.Contains(t, out, "try again")
		assert.Contains(t, out, "Solved in 2: W O U N D")
	})

	t.Run("no word fits", func(t *testing.T) {
		_, err := execute(t, dir, "_____\n_____\n", "play")
		var code exitCode
		require.True(t, errors.As(err, &code), "%v", err)
		assert.Equal(t, exitCode(2), code)
	})

	t.Run("out of rounds", func(t *testing.T) {
		_, err := execute(t, dir, "", "play", "wound", "--max-rounds", "1")
		var code exitCode
		require.True(t, errors.As(err, &code), "%v", err)
		assert.Equal(t, exitCode(3), code)
	})

	t.Run("unknown answer", func(t *testing.T) {
		_, err := execute(t, dir, "", "play", "crane", "--max-rounds", "6")
		assert.ErrorIs(t, err, game.ErrUnknownAnswer)
	})

	t.Run("repeat", func(t *testing.T) {
		defer func() { playRepeat = false }()
		out, err := execute(t, dir, "_!~__\n!!!!!\ny\n_!~__\n!!!!!\nn\n", "play", "--repeat")
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(out, "Solved in 2: W O U N D"))
		assert.Equal(t, 2, strings.Count(out, "Play again (y/n)? "))
	})

	t.Run("repeat keeps the last status", func(t *testing.T) {
		defer func() { playRepeat = false }()
		out, err := execute(t, dir, "_!~__\n!!!!!\nyes\n_____\n_____\n", "play", "--repeat")
		var code exitCode
		require.True(t, errors.As(err, &code), "%v", err)
		assert.Equal(t, exitCode(2), code)
		assert.Contains(t, out, "Solved in 2: W O U N D")
		assert.Contains(t, out, "No dictionary word fits that feedback.")
	})
}

func TestPlayAgain(t *testing.T) {
	for in, want := range map[string]bool{"y\n": true, " YES \n": true, "n\n": false, "\n": false, "": false, "maybe\n": false} {
		var out bytes.Buffer
		assert.Equal(t, want, playAgain(bufio.NewScanner(strings.NewReader(in)), &out), "%q", in)
		assert.Contains(t, out.String(), "Play again (y/n)? ")
	}
}
