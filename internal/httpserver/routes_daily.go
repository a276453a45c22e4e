// apps/go-solver/internal/httpserver/routes_daily.go
//
// HTTP routes for the daily puzzle.
//   - POST /daily/solve   → solve today's answer (once per date, then cached)
//   - GET  /daily/results → recent daily solves
//
// The answer is picked deterministically from the common words by date + salt.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/daily"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.With(s.requireToken()).Post("/solve", s.handleDailySolve)
		r.Get("/results", s.handleDailyResults)
	})
}

// dailySolveRes is returned by /daily/solve.
type dailySolveRes struct {
	daily.Result
	Cached bool `json:"cached"`
}

// handleDailySolve solves today's puzzle, or returns the stored solve.
func (s *Server) handleDailySolve(w http.ResponseWriter, r *http.Request) {
	now := s.cfg.Now()
	p, ok := daily.For(now, s.cfg.DailySalt, s.lists.CommonWords())
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no_common_words")
		return
	}

	if stored, ok, err := s.daily.Get(r.Context(), p.Date); err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	} else if ok {
		writeJSON(w, http.StatusOK, dailySolveRes{Result: stored, Cached: true})
		return
	}

	sess, err := game.New(s.sel, p.Answer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "unknown_answer")
		return
	}
	started := time.Now()
	res, err := s.solve(r.Context(), sess)
	if err != nil {
		writeSolveError(w, err)
		return
	}
	out := daily.Result{
		Date:      p.Date,
		WordIndex: p.WordIndex,
		Answer:    p.Answer,
		Status:    string(res.State),
		Guesses:   res.Rounds,
		ElapsedMs: int(time.Since(started).Milliseconds()),
		Turns:     res.Turns,
	}
	if err := s.daily.InsertResult(r.Context(), out); err != nil {
		log.Warn().Err(err).Str("date", p.Date).Msg("insert daily result")
	}
	writeJSON(w, http.StatusOK, dailySolveRes{Result: out})
}

// handleDailyResults lists recent daily solves (?limit=, default 20).
func (s *Server) handleDailyResults(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}
	rows, err := s.daily.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": rows})
}
