// Package assets holds the default word lists compiled into the binary.
// Both files are one word per line; blank lines and '#' comments are skipped.
package assets

import (
	_ "embed"
	"fmt"
	"strings"
)

var (
	//go:embed dictionary.txt
	dictionaryTxt string

	//go:embed common.txt
	commonTxt string
)

// DictionaryList is the built-in list of accepted guesses and answers.
func DictionaryList() ([]string, error) { return parseList("dictionary.txt", dictionaryTxt) }

// CommonList is the built-in list of commonly used words.
func CommonList() ([]string, error) { return parseList("common.txt", commonTxt) }

func parseList(name, text string) ([]string, error) {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("assets: %s has no words", name)
	}
	return out, nil
}
