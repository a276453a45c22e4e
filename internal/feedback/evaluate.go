// apps/go-solver/internal/feedback/evaluate.go
//
// Pure feedback functions shared by the partition table, the entropy
// selector and the game loop.
//   - Evaluate:   the two-pass scoring of a guess against an answer.
//   - Consistent: whether a word could have produced an observed outcome.
//   - Redundant:  outcomes the evaluator can never emit for a guess.
//   - Canonical:  the reachable outcome a redundant one is equivalent to.
//
// All inputs are assumed to be validated 5-letter lowercase words.

package feedback

// Evaluate implements the standard two-pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as Correct.
//   - Count the answer letters left over at non-correct positions.
//
// Pass 2:
//   - Left to right, a non-correct guess letter is Present while that
//     letter still has a leftover count (which is then decremented),
//     otherwise Absent.
func Evaluate(guess, answer string) Outcome {
	var t [WordLen]Tile
	var counts [26]int

	for i := 0; i < WordLen; i++ {
		if guess[i] == answer[i] {
			t[i] = Correct
		} else {
			counts[idx(answer[i])]++
		}
	}

	for i := 0; i < WordLen; i++ {
		if t[i] == Correct {
			continue
		}
		j := idx(guess[i])
		if counts[j] > 0 {
			t[i] = Present
			counts[j]--
		} else {
			t[i] = Absent
		}
	}
	return FromTiles(t)
}

// Consistent reports whether word could be the answer given that guess
// produced outcome o.
//
// The confirmed count of a guess letter is the number of its Present and
// Correct tiles. A word is rejected when:
//   - Absent at i and word[i] is the guessed letter, or word holds more
//     of that letter than confirmed;
//   - Present at i and word[i] is the guessed letter, or word holds fewer
//     of that letter than confirmed;
//   - Correct at i and word[i] differs.
func Consistent(word, guess string, o Outcome) bool {
	t := o.Tiles()

	var confirmed, have [26]int
	for i := 0; i < WordLen; i++ {
		if t[i] != Absent {
			confirmed[idx(guess[i])]++
		}
		have[idx(word[i])]++
	}

	for i := 0; i < WordLen; i++ {
		letter := guess[i]
		j := idx(letter)
		switch t[i] {
		case Absent:
			if word[i] == letter || have[j] > confirmed[j] {
				return false
			}
		case Present:
			if word[i] == letter || have[j] < confirmed[j] {
				return false
			}
		case Correct:
			if word[i] != letter {
				return false
			}
		}
	}
	return true
}

// Filter returns the words of list consistent with (guess, o), in order.
func Filter(list []string, guess string, o Outcome) []string {
	var out []string
	for _, w := range list {
		if Consistent(w, guess, o) {
			out = append(out, w)
		}
	}
	return out
}

// Redundant reports whether o cannot be produced by Evaluate for guess.
//
// For every letter occurring at least twice in guess, Evaluate hands out
// Present tiles left to right, so an Absent tile for that letter followed
// later by a Present tile for the same letter never happens. Such outcomes
// select the same words as a reachable one and are left out of entropy sums.
func Redundant(guess string, o Outcome) bool {
	t := o.Tiles()
	var absentSeen [26]bool
	var occurrences [26]int
	for i := 0; i < WordLen; i++ {
		occurrences[idx(guess[i])]++
	}
	for i := 0; i < WordLen; i++ {
		j := idx(guess[i])
		if occurrences[j] < 2 {
			continue
		}
		switch t[i] {
		case Absent:
			absentSeen[j] = true
		case Present:
			if absentSeen[j] {
				return true
			}
		}
	}
	return false
}

// Canonical maps o to the reachable outcome that Consistent treats the
// same way: for each repeated guess letter, its Present tiles are moved to
// the earliest of its non-correct positions. Reachable outcomes map to
// themselves.
func Canonical(guess string, o Outcome) Outcome {
	t := o.Tiles()
	var done [26]bool
	for i := 0; i < WordLen; i++ {
		j := idx(guess[i])
		if done[j] {
			continue
		}
		done[j] = true

		var positions []int
		presents := 0
		for k := i; k < WordLen; k++ {
			if guess[k] != guess[i] || t[k] == Correct {
				continue
			}
			positions = append(positions, k)
			if t[k] == Present {
				presents++
			}
		}
		for n, k := range positions {
			if n < presents {
				t[k] = Present
			} else {
				t[k] = Absent
			}
		}
	}
	return FromTiles(t)
}

// idx maps a lowercase ASCII letter to 0..25.
func idx(b byte) int { return int(b - 'a') }
