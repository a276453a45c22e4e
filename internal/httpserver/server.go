// apps/go-solver/internal/httpserver/server.go
//
// HTTP server wiring for the solver.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Solver endpoints: POST /solve, POST /session/new, POST /session/feedback,
//     GET /session/{id}, GET /games.
//   - Daily endpoints: mounted under /daily.
//   - Bearer token check on mutating routes when a JWT secret is configured.
//
// Notes:
//   - The partition table behind the selector is shared by every request;
//     each session owns its own candidate set.
//   - Each round's guess computation is bounded by Config.RoundTimeout on top
//     of the request timeout.
//   - Finished sessions leave the in-memory store right away and are served
//     from the games log; idle ones are swept after Config.SessionTTL.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/daily"
	"github.com/robalobadob/wordle/apps/go-solver/internal/entropy"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Config holds the server settings.
type Config struct {
	JWTSecret      string        // empty disables the token check
	RoundTimeout   time.Duration // bound on one guess computation
	RequestTimeout time.Duration // chi request timeout
	DailySalt      string
	ClientOrigin   string
	SessionTTL     time.Duration    // idle sessions older than this are swept
	Now            func() time.Time // clock for the daily puzzle; nil means time.Now
}

func (c *Config) defaults() {
	if c.RoundTimeout <= 0 {
		c.RoundTimeout = 30 * time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 2 * time.Minute
	}
	if c.DailySalt == "" {
		c.DailySalt = "local_dev_salt"
	}
	if c.ClientOrigin == "" {
		c.ClientOrigin = getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 30 * time.Minute
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Server bundles router, selector, session store and DB-backed logs.
type Server struct {
	r        *chi.Mux
	cfg      Config
	sel      *entropy.Selector
	lists    *words.Lists
	sessions store.Store
	games    *store.GameLog
	daily    *daily.Store
}

// New constructs a Server, installs middleware, and registers routes.
func New(sel *entropy.Selector, lists *words.Lists, sessions store.Store, db *sql.DB, cfg Config) *Server {
	cfg.defaults()
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		sel:      sel,
		lists:    lists,
		sessions: sessions,
		games:    store.NewGameLog(db),
		daily:    daily.NewStore(db),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                   // add X-Request-ID
	s.r.Use(chimw.RealIP)                      // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                   // recover from panics
	s.r.Use(chimw.Timeout(cfg.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                   // default JSON responses
	s.r.Use(cors(cfg.ClientOrigin))            // single-origin CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordle-solver","endpoints":["/health","/debug/words","POST /solve","POST /session/new","POST /session/feedback","GET /session/{id}","GET /games","POST /daily/solve","GET /daily/results"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		d, c := s.lists.Stats()
		_ = json.NewEncoder(w).Encode(map[string]int{"dictionary": d, "common": c, "table": s.sel.Table().Len()})
	})

	// Solver endpoints; mutating routes need a token when a secret is set.
	s.r.With(s.requireToken()).Post("/solve", s.handleSolve)
	s.r.With(s.requireToken()).Post("/session/new", s.handleNewSession)
	s.r.With(s.requireToken()).Post("/session/feedback", s.handleFeedback)
	s.r.Get("/session/{id}", s.handleGetSession)
	s.r.Get("/games", s.handleGames)

	s.mountDaily(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr and sweeps idle sessions until it returns.
func (s *Server) Start(addr string) error {
	stop := make(chan struct{})
	defer close(stop)
	go s.sweepLoop(stop)
	return http.ListenAndServe(addr, s.r)
}

// sweepLoop prunes idle sessions every quarter TTL.
func (s *Server) sweepLoop(stop <-chan struct{}) {
	t := time.NewTicker(s.cfg.SessionTTL / 4)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			s.sweep()
		}
	}
}

// sweep drops sessions idle for longer than the TTL.
func (s *Server) sweep() int {
	n := s.sessions.Prune(time.Now().Add(-s.cfg.SessionTTL))
	if n > 0 {
		log.Info().Int("sessions", n).Msg("swept idle sessions")
	}
	return n
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- helpers -----------------------------------

// nextGuess asks the session for its next guess under the round timeout.
func (s *Server) nextGuess(ctx context.Context, sess *game.Session) (entropy.Choice, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RoundTimeout)
	defer cancel()
	return sess.NextGuess(ctx)
}

// solve plays sess against its known answer, one bounded round at a time.
func (s *Server) solve(ctx context.Context, sess *game.Session) (game.Result, error) {
	for !sess.State().Terminal() {
		if _, err := s.nextGuess(ctx, sess); err != nil {
			if sess.State().Terminal() {
				break
			}
			return game.Result{}, err
		}
		o, err := sess.Evaluate()
		if err != nil {
			return game.Result{}, err
		}
		if _, err := sess.Apply(o); err != nil {
			return game.Result{}, err
		}
	}
	res := sess.Result()
	_ = s.finish(ctx, res)
	return res, nil
}

// finish logs a terminal session and records it. A failed write is logged
// and returned; callers that only report the result may ignore it.
func (s *Server) finish(ctx context.Context, res game.Result) error {
	log.Info().Str("session", res.SessionID).Str("state", string(res.State)).
		Int("rounds", res.Rounds).Msg("session finished")
	err := s.games.Record(ctx, res)
	if err != nil {
		log.Warn().Err(err).Str("session", res.SessionID).Msg("record game")
	}
	return err
}

// maxResults caps ?limit= on listing routes.
const maxResults = 100

// queryLimit reads ?limit= (default 20, capped at maxResults). On a bad value
// it writes the 400 and reports false.
func queryLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 20, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_limit")
		return 0, false
	}
	return min(n, maxResults), true
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the {"error": code} body used by every failing route.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeSolveError maps solver errors to status codes.
func writeSolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "round_timeout")
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "cancelled")
	default:
		log.Error().Err(err).Msg("solve")
		writeError(w, http.StatusInternalServerError, "solve_failed")
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
