// apps/go-solver/internal/words/words.go
//
// Dictionary management for the solver.
//
// Responsibilities:
//   - Load the dictionary and the common-words list from environment-provided
//     files or fall back to the embedded defaults in package assets.
//   - Keep the dictionary in one fixed total order (lexicographic) so every
//     dictionary-wide iteration, and therefore every tie-break, is reproducible.
//   - Address words by their index in that order; candidate sets and
//     partition cells are bitsets over those indices.
//
// Environment variables:
//   WORDS_DICTIONARY_FILE=/path/to/dictionary.txt
//   WORDS_COMMON_FILE=/path/to/common.txt
//
// Constraints:
//   • Words must be 5 alphabetic letters (a–z); lists are lowercased.
//   • Common words that are not in the dictionary are dropped.

package words

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/wordle/apps/go-solver/assets"
)

// Length is the number of letters in every word.
const Length = 5

var (
	ErrInvalidWord     = errors.New("words: expected 5 letters a-z")
	ErrEmptyDictionary = errors.New("words: dictionary is empty")
)

// Dictionary is an immutable, lexicographically ordered word list.
type Dictionary struct {
	words []string
	index map[string]int
}

// NewDictionary normalizes, deduplicates and sorts list.
// Any entry that is not a 5-letter word is an error.
func NewDictionary(list []string) (*Dictionary, error) {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, raw := range list {
		w, err := Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", raw, err)
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, ErrEmptyDictionary
	}
	sort.Strings(out)

	d := &Dictionary{words: out, index: make(map[string]int, len(out))}
	for i, w := range out {
		d.index[w] = i
	}
	return d, nil
}

// Normalize trims and lowercases w and checks it is a valid word.
func Normalize(w string) (string, error) {
	w = strings.ToLower(strings.TrimSpace(w))
	if len(w) != Length || !isAlpha(w) {
		return "", ErrInvalidWord
	}
	return w, nil
}

// Len returns the number of words.
func (d *Dictionary) Len() int { return len(d.words) }

// Word returns the word at index i.
func (d *Dictionary) Word(i int) string { return d.words[i] }

// Words returns the ordered word list. Callers must not modify it.
func (d *Dictionary) Words() []string { return d.words }

// Index returns the position of w in the dictionary order.
func (d *Dictionary) Index(w string) (int, bool) {
	i, ok := d.index[strings.ToLower(w)]
	return i, ok
}

// Contains reports whether w is in the dictionary.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.Index(w)
	return ok
}

// All returns a fresh set holding every word.
func (d *Dictionary) All() *bitset.BitSet {
	s := bitset.New(uint(len(d.words)))
	s.FlipRange(0, uint(len(d.words)))
	return s
}

// Subset returns the set of words from list that are in the dictionary,
// plus the entries that were not.
func (d *Dictionary) Subset(list []string) (*bitset.BitSet, []string) {
	s := bitset.New(uint(len(d.words)))
	var missing []string
	for _, w := range list {
		if i, ok := d.Index(strings.TrimSpace(w)); ok {
			s.Set(uint(i))
		} else {
			missing = append(missing, w)
		}
	}
	return s, missing
}

// Members lists the words of set in dictionary order.
func (d *Dictionary) Members(set *bitset.BitSet) []string {
	out := make([]string, 0, set.Count())
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		out = append(out, d.words[i])
	}
	return out
}

// Fingerprint identifies the dictionary contents and order. It is stored
// next to a persisted partition table so a table built for another
// dictionary is never loaded.
func (d *Dictionary) Fingerprint() string {
	sum := blake2b.Sum256([]byte(strings.Join(d.words, "\n")))
	return hex.EncodeToString(sum[:])
}

// Files names the word list files; empty fields select the embedded lists.
type Files struct {
	Dictionary string
	Common     string
}

// FilesFromEnv reads WORDS_DICTIONARY_FILE and WORDS_COMMON_FILE.
func FilesFromEnv() Files {
	return Files{
		Dictionary: os.Getenv("WORDS_DICTIONARY_FILE"),
		Common:     os.Getenv("WORDS_COMMON_FILE"),
	}
}

// Lists is the loaded dictionary plus the common-words subset.
type Lists struct {
	Dict   *Dictionary
	Common *bitset.BitSet
}

// Load reads both lists. Invalid lines in a file are skipped, common words
// outside the dictionary are dropped; both are logged.
func Load(f Files) (*Lists, error) {
	dictList, err := readList(f.Dictionary, assets.DictionaryList)
	if err != nil {
		return nil, fmt.Errorf("dictionary: %w", err)
	}
	commonList, err := readList(f.Common, assets.CommonList)
	if err != nil {
		return nil, fmt.Errorf("common words: %w", err)
	}

	dict, err := NewDictionary(dictList)
	if err != nil {
		return nil, err
	}
	common, missing := dict.Subset(commonList)
	if len(missing) > 0 {
		log.Warn().Int("count", len(missing)).Strs("sample", head(missing, 5)).
			Msg("common words not in dictionary were dropped")
	}
	return &Lists{Dict: dict, Common: common}, nil
}

// CommonWords lists the common words in dictionary order.
func (l *Lists) CommonWords() []string { return l.Dict.Members(l.Common) }

// Stats returns counts of loaded words: (dictionary, common).
func (l *Lists) Stats() (dictCount int, commonCount int) {
	return l.Dict.Len(), int(l.Common.Count())
}

// readList loads path, or the embedded fallback when path is empty.
func readList(path string, fallback func() ([]string, error)) ([]string, error) {
	if path == "" {
		return fallback()
	}
	return readWordFile(path)
}

// readWordFile loads one word per line from a file,
// lowercases, trims, and keeps only valid 5-letter alphabetic words.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	skipped := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w, err := Normalize(line)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, w)
	}
	if skipped > 0 {
		log.Warn().Str("file", path).Int("skipped", skipped).Msg("ignored invalid words")
	}
	return out, sc.Err()
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func head(s []string, n int) []string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
