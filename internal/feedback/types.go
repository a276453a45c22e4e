// apps/go-solver/internal/feedback/types.go
//
// Tile and Outcome types for the solver.
// Defines:
//   - Tile:    per-letter feedback (absent/present/correct).
//   - Outcome: five tiles packed into a base-3 code in 0..242.
//   - Parse/String/Glyphs: conversion to and from the feedback alphabet.

package feedback

import (
	"errors"
	"strings"
	"unicode"
)

// WordLen is the fixed number of letters per word.
const WordLen = 5

// NumOutcomes is the size of the outcome space (3^5).
const NumOutcomes = 243

// Tile is the feedback for a single letter position.
//   - Absent:  letter does not occur (or all occurrences are already accounted for).
//   - Present: letter occurs in the answer at another position.
//   - Correct: letter is in the correct position.
type Tile uint8

const (
	Absent Tile = iota
	Present
	Correct
)

// Outcome is an ordered sequence of five tiles encoded in base 3.
// Position 0 is the most significant digit, so iterating codes 0..242
// enumerates outcomes in the order "_____", "____~", "____!", ... "!!!!!".
type Outcome uint8

// AllCorrect is the winning outcome "!!!!!".
const AllCorrect Outcome = NumOutcomes - 1

var pow3 = [WordLen]int{81, 27, 9, 3, 1}

// ErrInvalidFeedback is returned by Parse for anything that is not exactly
// five symbols from the accepted alphabet.
var ErrInvalidFeedback = errors.New("feedback: expected five of _ ~ ! (or ⬛ 🟨 🟩)")

// FromTiles packs five tiles into an Outcome.
func FromTiles(t [WordLen]Tile) Outcome {
	code := 0
	for i, x := range t {
		code += int(x) * pow3[i]
	}
	return Outcome(code)
}

// Tile returns the tile at position i.
func (o Outcome) Tile(i int) Tile {
	return Tile((int(o) / pow3[i]) % 3)
}

// Tiles unpacks the outcome.
func (o Outcome) Tiles() [WordLen]Tile {
	var t [WordLen]Tile
	for i := range t {
		t[i] = o.Tile(i)
	}
	return t
}

// Won reports whether every tile is Correct.
func (o Outcome) Won() bool { return o == AllCorrect }

var (
	asciiSymbols = [3]byte{'_', '~', '!'}
	glyphSymbols = [3]string{"⬛", "🟨", "🟩"}
)

// String renders the outcome with the ASCII alphabet, e.g. "_~!__".
// This is also the outcome half of a partition store key.
func (o Outcome) String() string {
	var b [WordLen]byte
	for i := range b {
		b[i] = asciiSymbols[o.Tile(i)]
	}
	return string(b[:])
}

// Glyphs renders the outcome with the square glyphs used when sharing results.
func (o Outcome) Glyphs() string {
	var sb strings.Builder
	for i := 0; i < WordLen; i++ {
		sb.WriteString(glyphSymbols[o.Tile(i)])
	}
	return sb.String()
}

// Parse reads a feedback string typed by a player.
//
// Whitespace and emoji variation selectors are ignored. Accepted symbols:
//   absent:  '_'  '⬛'
//   present: '~'  '🟨'
//   correct: '!'  '🟩'
// Anything else is ErrInvalidFeedback.
func Parse(s string) (Outcome, error) {
	var t [WordLen]Tile
	n := 0
	for _, r := range s {
		if unicode.IsSpace(r) || r == '\uFE0F' {
			continue
		}
		tile, ok := symbolTile(r)
		if !ok || n == WordLen {
			return 0, ErrInvalidFeedback
		}
		t[n] = tile
		n++
	}
	if n != WordLen {
		return 0, ErrInvalidFeedback
	}
	return FromTiles(t), nil
}

func symbolTile(r rune) (Tile, bool) {
	switch r {
	case '_', '⬛':
		return Absent, true
	case '~', '🟨':
		return Present, true
	case '!', '🟩':
		return Correct, true
	}
	return 0, false
}
