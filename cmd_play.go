package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// exitCode ends the process with a specific status.
type exitCode int

func (c exitCode) Error() string { return "exit status " + strconv.Itoa(int(c)) }

// exitCodeFor maps a terminal state to the process status.
func exitCodeFor(s game.State) exitCode {
	switch s {
	case game.Won:
		return 0
	case game.LostExhausted:
		return 2
	case game.LostRoundsExceeded:
		return 3
	}
	return 1
}

// runPlay solves one puzzle on the terminal, or several in a row with --repeat.
func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sel, _, db := openSolver(ctx)
	defer db.Close()
	games := store.NewGameLog(db)

	var answer string
	if len(args) == 1 {
		w, err := words.Normalize(args[0])
		if err != nil {
			return fmt.Errorf("%q: %w", args[0], game.ErrUnknownAnswer)
		}
		answer = w
	}

	out := cmd.OutOrStdout()
	var src game.FeedbackSource = game.AnswerSource(answer)
	var in *bufio.Scanner
	if answer == "" {
		fmt.Fprintln(out, "Type the feedback for each guess: _ absent, ~ present, ! correct.")
		in = bufio.NewScanner(cmd.InOrStdin())
		src = &promptSource{in: in, out: out}
	}

	for {
		sess, err := game.New(sel, answer)
		if err != nil {
			return fmt.Errorf("%q: %w", answer, err)
		}
		res, err := game.Run(ctx, sess, &announcer{next: src, out: out})
		if err != nil {
			return err
		}
		report(out, res)
		if err := games.Record(ctx, res); err != nil {
			log.Warn().Err(err).Msg("record game")
		}
		if !playRepeat || in == nil || !playAgain(in, out) {
			if code := exitCodeFor(res.State); code != 0 {
				return code
			}
			return nil
		}
	}
}

// report prints how a game ended.
func report(out io.Writer, res game.Result) {
	switch res.State {
	case game.Won:
		fmt.Fprintf(out, "Solved in %d: %s\n", res.Rounds, spaced(res.Answer))
	case game.LostExhausted:
		fmt.Fprintln(out, "No dictionary word fits that feedback.")
	case game.LostRoundsExceeded:
		fmt.Fprintf(out, "Out of rounds after %d guesses.\n", res.Rounds)
	}
}

// playAgain asks whether to start another game. Only y or yes count; end of
// input means no.
func playAgain(in *bufio.Scanner, out io.Writer) bool {
	fmt.Fprint(out, "Play again (y/n)? ")
	if !in.Scan() {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(in.Text())) {
	case "y", "yes":
		return true
	}
	return false
}

// spaced renders a word as upper-case letters separated by spaces.
func spaced(w string) string {
	return strings.Join(strings.Split(strings.ToUpper(w), ""), " ")
}

// announcer prints each guess and its feedback around another source.
type announcer struct {
	next game.FeedbackSource
	out  io.Writer
}

func (a *announcer) Feedback(ctx context.Context, round int, guess string) (feedback.Outcome, error) {
	fmt.Fprintf(a.out, "Guess %d: %s\n", round+1, spaced(guess))
	o, err := a.next.Feedback(ctx, round, guess)
	if err != nil {
		return o, err
	}
	fmt.Fprintf(a.out, "         %s\n", o.Glyphs())
	return o, nil
}

// promptSource reads feedback lines, asking again until one parses.
type promptSource struct {
	in  *bufio.Scanner
	out io.Writer
}

func (p *promptSource) Feedback(ctx context.Context, _ int, _ string) (feedback.Outcome, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fmt.Fprint(p.out, "feedback> ")
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		o, err := feedback.Parse(p.in.Text())
		if errors.Is(err, feedback.ErrInvalidFeedback) {
			fmt.Fprintln(p.out, "  need five of _ ~ ! (or ⬛ 🟨 🟩), try again")
			continue
		}
		return o, err
	}
}
