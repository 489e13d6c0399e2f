// Package analytics counts words across ingredient names, ignoring
// preparation descriptors that would otherwise dominate the counts.
package analytics

import (
	"sort"
	"strings"
)

type Analytics struct{}

// descriptors are words that describe preparation, size or packaging
// rather than the ingredient itself.
var descriptors = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "as": {}, "at": {}, "for": {}, "from": {},
	"in": {}, "into": {}, "of": {}, "or": {}, "the": {}, "to": {}, "with": {},
	"plus": {}, "more": {}, "needed": {}, "taste": {}, "optional": {},
	"divided": {}, "about": {},

	"chopped": {}, "diced": {}, "minced": {}, "sliced": {}, "grated": {},
	"shredded": {}, "crushed": {}, "ground": {}, "peeled": {}, "cubed": {},
	"melted": {}, "softened": {}, "beaten": {}, "drained": {}, "rinsed": {},
	"halved": {}, "quartered": {}, "trimmed": {}, "thawed": {}, "cooked": {},
	"packed": {}, "sifted": {}, "toasted": {}, "divide": {},

	"finely": {}, "thinly": {}, "coarsely": {}, "roughly": {}, "lightly": {},
	"freshly": {},

	"fresh": {}, "large": {}, "medium": {}, "small": {}, "whole": {},
	"room": {}, "temperature": {}, "cold": {}, "warm": {}, "hot": {},

	"grams": {}, "package": {}, "packages": {}, "can": {}, "cans": {},
	"container": {}, "jar": {}, "bunch": {}, "pieces": {}, "piece": {},
}

// IsDescriptor reports whether word is ignored by WordFrequency.
func IsDescriptor(word string) bool {
	_, exists := descriptors[strings.ToLower(word)]
	return exists
}

// WordFrequency counts the words in text, lowercased and stripped of
// punctuation, skipping descriptors and numbers.
func (a *Analytics) WordFrequency(text string) map[string]int {
	words := strings.Fields(strings.ToLower(text))
	frequencies := make(map[string]int)

	for _, word := range words {
		word = strings.TrimFunc(word, func(r rune) bool {
			return ('a' > r || r > 'z') && ('0' > r || r > '9')
		})

		if word == "" || isNumber(word) {
			continue
		}
		if _, exists := descriptors[word]; exists {
			continue
		}

		frequencies[word]++
	}

	return frequencies
}

func isNumber(word string) bool {
	return strings.Trim(word, "0123456789.") == ""
}

// IngredientWords counts words over every ingredient line.
func (a *Analytics) IngredientWords(lines []string) map[string]int {
	return a.WordFrequency(strings.Join(lines, "\n"))
}

type wordCount struct {
	Word  string
	Count int
}

// TopNWords returns the n most frequent words in text, ties alphabetical.
func (a *Analytics) TopNWords(text string, n int) []string {
	frequencies := a.WordFrequency(text)

	counts := make([]wordCount, 0, len(frequencies))
	for k, v := range frequencies {
		counts = append(counts, wordCount{k, v})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Word < counts[j].Word
	})

	limit := min(n, len(counts))
	topN := make([]string, limit)
	for i := 0; i < limit; i++ {
		topN[i] = counts[i].Word
	}

	return topN
}
