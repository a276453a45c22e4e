package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
)

// GameLog records finished sessions in the games table.
type GameLog struct{ db *sql.DB }

// NewGameLog wraps an opened database.
func NewGameLog(db *sql.DB) *GameLog { return &GameLog{db: db} }

// GameRow is one logged session.
type GameRow struct {
	ID         string      `json:"id"`
	Answer     string      `json:"answer,omitempty"`
	Status     string      `json:"status"`
	Rounds     int         `json:"rounds"`
	Turns      []game.Turn `json:"turns"`
	FinishedAt string      `json:"finishedAt"`
}

// Record inserts a finished session. Recording the same session twice is a no-op.
func (g *GameLog) Record(ctx context.Context, res game.Result) error {
	turns, err := json.Marshal(res.Turns)
	if err != nil {
		return err
	}
	_, err = g.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO games (id, answer, status, rounds, turns, finished_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		res.SessionID, res.Answer, string(res.State), res.Rounds, string(turns),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Get loads one logged session; unknown IDs yield ErrNotFound.
func (g *GameLog) Get(ctx context.Context, id string) (GameRow, error) {
	row := g.db.QueryRowContext(ctx, `
        SELECT id, COALESCE(answer, ''), status, rounds, turns, finished_at
        FROM games WHERE id = ?`, id)
	r, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return GameRow{}, ErrNotFound
	}
	return r, err
}

// Recent returns the latest finished sessions, newest first.
func (g *GameLog) Recent(ctx context.Context, limit int) ([]GameRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := g.db.QueryContext(ctx, `
        SELECT id, COALESCE(answer, ''), status, rounds, turns, finished_at
        FROM games ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]GameRow, 0, limit)
	for rows.Next() {
		r, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Snapshot renders a logged session the way a live one reports itself.
func (r GameRow) Snapshot() game.Snapshot {
	snap := game.Snapshot{
		SessionID: r.ID,
		State:     game.State(r.Status),
		Turns:     r.Turns,
	}
	if snap.Turns == nil {
		snap.Turns = []game.Turn{}
	}
	if n := len(r.Turns); n > 0 {
		snap.Round = r.Turns[n-1].Round
		snap.Candidates = r.Turns[n-1].Remaining
	}
	return snap
}

type scanner interface{ Scan(dest ...any) error }

func scanGame(sc scanner) (GameRow, error) {
	var r GameRow
	var turns string
	if err := sc.Scan(&r.ID, &r.Answer, &r.Status, &r.Rounds, &turns, &r.FinishedAt); err != nil {
		return GameRow{}, err
	}
	if err := json.Unmarshal([]byte(turns), &r.Turns); err != nil {
		return GameRow{}, err
	}
	return r, nil
}
