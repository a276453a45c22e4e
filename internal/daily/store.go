package daily

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
)

// Result is the stored solve of one day's puzzle.
type Result struct {
	Date      string      `json:"date"`
	WordIndex int         `json:"wordIndex"`
	Answer    string      `json:"answer"`
	Status    string      `json:"status"`
	Guesses   int         `json:"guesses"`
	ElapsedMs int         `json:"elapsedMs"`
	Turns     []game.Turn `json:"turns"`
	CreatedAt string      `json:"createdAt,omitempty"`
}

// Store persists daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Get returns the stored result for date, or ok=false if the day is unsolved.
func (s *Store) Get(ctx context.Context, date string) (r Result, ok bool, err error) {
	var turns string
	err = s.db.QueryRowContext(ctx,
		`SELECT date, word_index, answer, status, guesses, elapsed_ms, turns, created_at
         FROM daily_results WHERE date=?`, date,
	).Scan(&r.Date, &r.WordIndex, &r.Answer, &r.Status, &r.Guesses, &r.ElapsedMs, &turns, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, err
	}
	if err := json.Unmarshal([]byte(turns), &r.Turns); err != nil {
		return Result{}, false, err
	}
	return r, true, nil
}

// InsertResult stores r. The first result of a date wins; later ones are ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	turns, err := json.Marshal(r.Turns)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(date, word_index, answer, status, guesses, elapsed_ms, turns)
         VALUES(?,?,?,?,?,?,?)`,
		r.Date, r.WordIndex, r.Answer, r.Status, r.Guesses, r.ElapsedMs, string(turns),
	)
	return err
}

// Recent returns up to limit results, newest date first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, word_index, answer, status, guesses, elapsed_ms, created_at
         FROM daily_results
         ORDER BY date DESC
         LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Result{}
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Date, &r.WordIndex, &r.Answer, &r.Status, &r.Guesses, &r.ElapsedMs, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
