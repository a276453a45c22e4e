// apps/go-solver/internal/httpserver/routes_session.go
//
// Solver routes:
//   - POST /solve             → play a known answer to the end
//   - POST /session/new       → start a session and return its first guess
//   - POST /session/feedback  → apply feedback (or the known answer) and return the next guess
//   - GET  /session/{id}      → session snapshot (finished ones come from the games log)
//   - GET  /games             → recently finished sessions

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/entropy"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
)

// solveReq is the payload for POST /solve and POST /session/new.
type solveReq struct {
	Answer string `json:"answer"`
}

// handleSolve plays the requested answer to a terminal state.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Answer == "" {
		writeError(w, http.StatusBadRequest, "answer_required")
		return
	}
	sess, err := game.New(s.sel, req.Answer)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_answer")
		return
	}
	res, err := s.solve(r.Context(), sess)
	if err != nil {
		writeSolveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// guessRes describes the guess a session is waiting on.
type guessRes struct {
	SessionID  string       `json:"sessionId"`
	State      game.State   `json:"state"`
	Round      int          `json:"round"`
	Guess      string       `json:"guess,omitempty"`
	Rule       entropy.Rule `json:"rule,omitempty"`
	Score      float64      `json:"score,omitempty"`
	Candidates int          `json:"candidates"`
	Feedback   string       `json:"feedback,omitempty"` // outcome just applied, "_~!" form
	Glyphs     string       `json:"glyphs,omitempty"`
	Result     *game.Result `json:"result,omitempty"` // set once the session is over
}

// handleNewSession starts a session; the answer is optional.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req solveReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	sess, err := game.New(s.sel, req.Answer)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_answer")
		return
	}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	c, err := s.nextGuess(r.Context(), sess)
	if err != nil {
		writeSolveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guessRes{
		SessionID:  sess.ID(),
		State:      sess.State(),
		Round:      sess.Round(),
		Guess:      c.Word,
		Rule:       c.Rule,
		Score:      c.Score,
		Candidates: sess.Remaining(),
	})
}

// feedbackReq is the payload for POST /session/feedback. An empty Feedback
// scores the pending guess against the session's answer. A non-empty Guess
// must name the pending guess or the feedback is refused.
type feedbackReq struct {
	SessionID string `json:"sessionId"`
	Guess     string `json:"guess,omitempty"`
	Feedback  string `json:"feedback"`
}

// conflictRes is a 409 that carries the guess the session is waiting on.
type conflictRes struct {
	Error string `json:"error"`
	guessRes
}

// pendingOf describes the guess sess is waiting on.
func pendingOf(sess *game.Session) guessRes {
	snap := sess.Snapshot()
	return guessRes{
		SessionID:  snap.SessionID,
		State:      snap.State,
		Round:      snap.Round,
		Guess:      snap.Guess,
		Rule:       snap.Rule,
		Candidates: snap.Candidates,
	}
}

// handleFeedback applies one outcome and returns the next guess or the result.
//
// Feedback is only ever applied to a guess the client has been shown. When
// the previous call timed out choosing the next guess, the session still
// awaits one; this call then picks it and answers 409 guess_pending with it,
// leaving the submitted feedback unused.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := s.sessions.Get(r.Context(), req.SessionID)
	if err != nil {
		if _, err := s.games.Get(r.Context(), req.SessionID); err == nil {
			writeError(w, http.StatusConflict, "session_finished")
			return
		}
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	switch sess.State() {
	case game.AwaitOutcome:
	case game.AwaitGuess:
		c, err := s.nextGuess(r.Context(), sess)
		if err != nil && !sess.State().Terminal() {
			writeSolveError(w, err)
			return
		}
		if sess.State().Terminal() {
			s.retire(r.Context(), sess)
			writeError(w, http.StatusConflict, "session_finished")
			return
		}
		out := pendingOf(sess)
		out.Score = c.Score
		writeJSON(w, http.StatusConflict, conflictRes{Error: "guess_pending", guessRes: out})
		return
	default:
		writeError(w, http.StatusConflict, "session_finished")
		return
	}

	var o feedback.Outcome
	if req.Feedback == "" {
		o, err = sess.Evaluate()
		if errors.Is(err, game.ErrNoAnswer) {
			writeError(w, http.StatusBadRequest, "feedback_required")
			return
		}
	} else {
		o, err = feedback.Parse(req.Feedback)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_feedback")
			return
		}
	}
	if err != nil {
		writeError(w, http.StatusConflict, "wrong_state")
		return
	}

	var state game.State
	if req.Guess != "" {
		state, err = sess.ApplyFor(req.Guess, o)
	} else {
		state, err = sess.Apply(o)
	}
	if errors.Is(err, game.ErrStaleGuess) {
		writeJSON(w, http.StatusConflict, conflictRes{Error: "guess_mismatch", guessRes: pendingOf(sess)})
		return
	}
	if err != nil {
		writeError(w, http.StatusConflict, "wrong_state")
		return
	}
	out := guessRes{
		SessionID: sess.ID(),
		Feedback:  o.String(),
		Glyphs:    o.Glyphs(),
	}
	if !state.Terminal() {
		c, err := s.nextGuess(r.Context(), sess)
		if err != nil && !sess.State().Terminal() {
			writeSolveError(w, err)
			return
		}
		out.Guess, out.Rule, out.Score = c.Word, c.Rule, c.Score
	}
	out.State = sess.State()
	out.Round = sess.Round()
	out.Candidates = sess.Remaining()
	if out.State.Terminal() {
		res := s.retire(r.Context(), sess)
		out.Result = &res
	}
	writeJSON(w, http.StatusOK, out)
}

// retire records a finished session and drops it from the live store; the
// games log serves it from then on. If the write fails the session stays
// live so GET /session/{id} keeps working until the sweep.
func (s *Server) retire(ctx context.Context, sess *game.Session) game.Result {
	res := sess.Result()
	if err := s.finish(ctx, res); err != nil {
		return res
	}
	if err := s.sessions.Delete(ctx, sess.ID()); err != nil {
		log.Warn().Err(err).Str("session", sess.ID()).Msg("drop finished session")
	}
	return res
}

// handleGetSession returns a snapshot of a live or finished session.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(r.Context(), id)
	if err == nil {
		writeJSON(w, http.StatusOK, sess.Snapshot())
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}
	row, err := s.games.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}
	writeJSON(w, http.StatusOK, row.Snapshot())
}

// handleGames lists recently finished sessions (?limit=, default 20).
func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	rows, err := s.games.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": rows})
}
