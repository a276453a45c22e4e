// apps/go-solver/internal/daily/daily.go
//
// Deterministic daily puzzle selection.
// The answer for a date is HMAC-SHA256(salt, YYYY-MM-DD) reduced modulo the
// number of common words, so every instance with the same salt and word
// lists agrees on the day's answer without coordination.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % answersLen.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}

// Puzzle is the answer chosen for one date.
type Puzzle struct {
	Date      string `json:"date"`
	WordIndex int    `json:"wordIndex"`
	Answer    string `json:"-"`
}

// For picks the puzzle of the date of t from answers. ok is false when
// answers is empty.
func For(t time.Time, salt string, answers []string) (p Puzzle, ok bool) {
	p.Date = DateKey(t)
	if len(answers) == 0 {
		return p, false
	}
	p.WordIndex = WordIndex(t, salt, len(answers))
	p.Answer = answers[p.WordIndex]
	return p, true
}
