// apps/go-solver/internal/game/engine.go
//
// Session state machine for solving a single puzzle.
// Responsibilities:
//   - Start from the full dictionary as candidate set (round 0).
//   - Ask the entropy selector for each round's guess.
//   - Take the outcome from the known answer or from an external source.
//   - Narrow the candidates with the consistency filter and move to the
//     next round, or end in won / lost_exhausted / lost_rounds_exceeded.
//
// Notes:
//   - The partition table behind the selector is shared and read-only; the
//     candidate set belongs to the session alone.
//   - Session methods are safe for concurrent use.
package game

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/google/uuid"

	"github.com/robalobadob/wordle/apps/go-solver/internal/entropy"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

var (
	ErrUnknownAnswer = errors.New("game: answer is not in the dictionary")
	ErrNoAnswer      = errors.New("game: session has no known answer")
	ErrWrongState    = errors.New("game: not allowed in the current state")
	ErrStaleGuess    = errors.New("game: feedback is for a guess that is not pending")
)

// Session is one solving run with its own candidate set.
type Session struct {
	mu         sync.Mutex
	id         string
	sel        *entropy.Selector
	answer     string
	round      int
	state      State
	candidates *bitset.BitSet
	pending    entropy.Choice
	turns      []Turn
}

// New starts a session. answer may be empty when feedback will come from
// outside; otherwise it must be a dictionary word.
func New(sel *entropy.Selector, answer string) (*Session, error) {
	dict := sel.Table().Dict()
	if answer != "" {
		w, err := words.Normalize(answer)
		if err != nil || !dict.Contains(w) {
			return nil, ErrUnknownAnswer
		}
		answer = w
	}
	return &Session{
		id:         uuid.NewString(),
		sel:        sel,
		answer:     answer,
		state:      AwaitGuess,
		candidates: dict.All(),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// HasAnswer reports whether outcomes can be computed locally.
func (s *Session) HasAnswer() bool { return s.answer != "" }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Round returns the current 0-based round.
func (s *Session) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// Remaining returns the number of candidates left.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.candidates.Count())
}

// Candidates lists the words still possible, in dictionary order.
func (s *Session) Candidates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Table().Dict().Members(s.candidates)
}

// NextGuess moves await_guess → await_outcome and returns the guess.
// While awaiting an outcome it returns the pending guess again.
func (s *Session) NextGuess(ctx context.Context) (entropy.Choice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case AwaitOutcome:
		return s.pending, nil
	case AwaitGuess:
	default:
		return entropy.Choice{}, ErrWrongState
	}

	c, err := s.sel.Choose(ctx, s.round, s.candidates)
	if errors.Is(err, entropy.ErrNoCandidates) {
		s.state = LostExhausted
		return entropy.Choice{}, err
	}
	if err != nil {
		return entropy.Choice{}, err
	}
	s.pending = c
	s.state = AwaitOutcome
	return c, nil
}

// Evaluate computes the outcome of the pending guess against the known answer.
func (s *Session) Evaluate() (feedback.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.answer == "" {
		return 0, ErrNoAnswer
	}
	if s.state != AwaitOutcome {
		return 0, ErrWrongState
	}
	return feedback.Evaluate(s.pending.Word, s.answer), nil
}

// Apply records the outcome of the pending guess and eliminates candidates.
//
// Transitions:
//   - all correct → won;
//   - only one candidate was left (so the guess was it) → lost_exhausted;
//   - no candidate survives → lost_exhausted;
//   - that was the last round → lost_rounds_exceeded;
//   - otherwise the next round's await_guess.
func (s *Session) Apply(o feedback.Outcome) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(o)
}

// ApplyFor is Apply for feedback that names the guess it scores. It fails
// with ErrStaleGuess, leaving the session untouched, unless guess is the
// pending one.
func (s *Session) ApplyFor(guess string, o feedback.Outcome) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != AwaitOutcome {
		return s.state, ErrWrongState
	}
	if !strings.EqualFold(strings.TrimSpace(guess), s.pending.Word) {
		return s.state, ErrStaleGuess
	}
	return s.apply(o)
}

func (s *Session) apply(o feedback.Outcome) (State, error) {
	if s.state != AwaitOutcome {
		return s.state, ErrWrongState
	}

	before := s.candidates.Count()
	s.candidates = s.sel.Table().Narrow(s.pending.Index, o, s.candidates)
	after := s.candidates.Count()

	s.turns = append(s.turns, Turn{
		Round:     s.round,
		Guess:     s.pending.Word,
		Rule:      s.pending.Rule,
		Score:     s.pending.Score,
		Outcome:   o,
		Feedback:  o.String(),
		Remaining: int(after),
	})

	switch {
	case o.Won():
		s.state = Won
	case before == 1 || after == 0:
		s.state = LostExhausted
	case s.round+1 >= s.sel.MaxRounds():
		s.state = LostRoundsExceeded
	default:
		s.round++
		s.state = AwaitGuess
	}
	return s.state, nil
}

// Result reports the session. It is meaningful once the state is terminal.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	answer := s.answer
	if s.state == Won && len(s.turns) > 0 {
		answer = s.turns[len(s.turns)-1].Guess
	}
	return Result{
		SessionID: s.id,
		State:     s.state,
		Answer:    answer,
		Rounds:    len(s.turns),
		Turns:     append([]Turn(nil), s.turns...),
	}
}

// Snapshot returns the current view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID:  s.id,
		State:      s.state,
		Round:      s.round,
		Candidates: int(s.candidates.Count()),
		Turns:      append([]Turn{}, s.turns...),
	}
	if s.state == AwaitOutcome {
		snap.Guess = s.pending.Word
		snap.Rule = s.pending.Rule
	}
	return snap
}
