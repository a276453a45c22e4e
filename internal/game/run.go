package game

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// FeedbackSource supplies the outcome of a guess, e.g. from a player.
type FeedbackSource interface {
	Feedback(ctx context.Context, round int, guess string) (feedback.Outcome, error)
}

// AnswerSource scores guesses against a known answer.
type AnswerSource string

// Feedback implements FeedbackSource.
func (a AnswerSource) Feedback(_ context.Context, _ int, guess string) (feedback.Outcome, error) {
	return feedback.Evaluate(guess, string(a)), nil
}

// Run plays s to a terminal state. A nil src uses the session's own answer.
func Run(ctx context.Context, s *Session, src FeedbackSource) (Result, error) {
	if src == nil {
		if !s.HasAnswer() {
			return Result{}, ErrNoAnswer
		}
		src = AnswerSource(s.answer)
	}

	for !s.State().Terminal() {
		c, err := s.NextGuess(ctx)
		if err != nil {
			if s.State().Terminal() {
				break
			}
			return Result{}, err
		}
		o, err := src.Feedback(ctx, s.Round(), c.Word)
		if err != nil {
			return Result{}, err
		}
		state, err := s.Apply(o)
		if err != nil {
			return Result{}, err
		}
		log.Debug().Str("session", s.ID()).Str("guess", c.Word).Str("rule", string(c.Rule)).
			Str("outcome", o.String()).Int("remaining", s.Remaining()).Str("state", string(state)).
			Msg("round")
	}
	return s.Result(), nil
}
