// Package similarity merges near-duplicate ingredient names ("egg" and
// "eggs") onto a single canonical spelling.
package similarity

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// DefaultThreshold is the score a pair must exceed to be merged.
const DefaultThreshold = 0.75

var (
	quantityRun = regexp.MustCompile(`\d+\s*[\p{L}\p{N}_]*`)
	punctuation = regexp.MustCompile(`[().\/®%-]`)
)

// Simplify strips quantities with the word that follows them ("2 large"),
// then the characters ( ) . / ® % - and surrounding whitespace.
func Simplify(name string) string {
	s := strings.TrimSpace(quantityRun.ReplaceAllString(name, ""))
	return strings.TrimSpace(punctuation.ReplaceAllString(s, ""))
}

// SimplifyAll simplifies every name and drops the ones left empty.
func SimplifyAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if s := Simplify(n); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Scorer rates the similarity of two strings within [0,1].
type Scorer func(a, b string) float64

// LCSRatio is 2*LCS/(len(a)+len(b)) over runes, the normalized form of the
// insert/delete edit distance.
func LCSRatio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchr.LongestCommonSubsequence(a, b)) / float64(total)
}

// LevenshteinRatio is 1 - distance/max(len(a), len(b)).
func LevenshteinRatio(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(matchr.Levenshtein(a, b))/float64(longest)
}

// JaroWinkler scores with the Jaro-Winkler measure.
func JaroWinkler(a, b string) float64 {
	return matchr.JaroWinkler(a, b, false)
}

var scorers = map[string]Scorer{
	"lcs":          LCSRatio,
	"levenshtein":  LevenshteinRatio,
	"jaro-winkler": JaroWinkler,
}

// ScorerByName resolves a scorer from config. An empty name means "lcs".
func ScorerByName(name string) (Scorer, error) {
	if name == "" {
		name = "lcs"
	}
	s, ok := scorers[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(scorers))
		for n := range scorers {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown similarity scorer %q (use one of: %s)", name, strings.Join(names, ", "))
	}
	return s, nil
}
