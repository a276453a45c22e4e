// apps/go-solver/internal/game/types.go
//
// Core type definitions for a solving session.
// Defines:
//   - State:  the session state machine.
//   - Turn:   one played round (guess, outcome, candidates left).
//   - Result: the terminal report of a session.

package game

import (
	"github.com/robalobadob/wordle/apps/go-solver/internal/entropy"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// State is a session state.
//   - "await_guess":          the next guess has not been chosen yet.
//   - "await_outcome":        a guess is out, waiting for its feedback.
//   - "won":                  the last outcome was all correct.
//   - "lost_exhausted":       no dictionary word fits the feedback.
//   - "lost_rounds_exceeded": every round was used without a win.
type State string

const (
	AwaitGuess         State = "await_guess"
	AwaitOutcome       State = "await_outcome"
	Won                State = "won"
	LostExhausted      State = "lost_exhausted"
	LostRoundsExceeded State = "lost_rounds_exceeded"
)

// Terminal reports whether the session is over.
func (s State) Terminal() bool {
	return s == Won || s == LostExhausted || s == LostRoundsExceeded
}

// Turn records one round.
type Turn struct {
	Round     int              `json:"round"`     // 0-based
	Guess     string           `json:"guess"`     // lowercase
	Rule      entropy.Rule     `json:"rule"`      // why the guess was chosen
	Score     float64          `json:"score"`     // entropy in bits (entropy rule only)
	Outcome   feedback.Outcome `json:"-"`         // observed outcome
	Feedback  string           `json:"feedback"`  // Outcome in "_~!" form
	Remaining int              `json:"remaining"` // candidates left after the round
}

// Result is the report of a finished session.
type Result struct {
	SessionID string `json:"sessionId"`
	State     State  `json:"state"`
	Answer    string `json:"answer,omitempty"` // the known answer, or the solved word
	Rounds    int    `json:"rounds"`
	Turns     []Turn `json:"turns"`
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	SessionID  string       `json:"sessionId"`
	State      State        `json:"state"`
	Round      int          `json:"round"`
	Guess      string       `json:"guess,omitempty"` // pending guess while awaiting an outcome
	Rule       entropy.Rule `json:"rule,omitempty"`
	Candidates int          `json:"candidates"`
	Turns      []Turn       `json:"turns"`
}
