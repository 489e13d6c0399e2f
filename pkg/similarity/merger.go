package similarity

import (
	"sort"
	"unicode/utf8"
)

// MergeMap maps a duplicate name to its canonical, shorter spelling.
type MergeMap map[string]string

// Apply rewrites names through the map; unmapped names pass through.
func (m MergeMap) Apply(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		if canon, ok := m[n]; ok {
			out[i] = canon
		} else {
			out[i] = n
		}
	}
	return out
}

// Collapse returns a copy in which every key points at the end of its
// chain, so A->B, B->C becomes A->C, B->C. Cycles stop at the first
// repeated name.
func (m MergeMap) Collapse() MergeMap {
	out := make(MergeMap, len(m))
	for key := range m {
		seen := map[string]struct{}{key: {}}
		cur := m[key]
		for {
			next, ok := m[cur]
			if !ok {
				break
			}
			if _, loop := seen[next]; loop {
				break
			}
			seen[cur] = struct{}{}
			cur = next
		}
		if cur != key {
			out[key] = cur
		}
	}
	return out
}

// Merger builds a merge map over a vocabulary of simplified names.
type Merger interface {
	Merge(vocabulary []string) MergeMap
}

// PairwiseMerger compares every pair of names once. It is O(n²) in the
// vocabulary size and produces a flat, non-transitive map: a later pair
// may overwrite an earlier mapping for the same key.
type PairwiseMerger struct {
	Threshold float64
	Score     Scorer
	// Transitive collapses chains in the result.
	Transitive bool
}

// NewPairwiseMerger returns a merger with the default threshold and scorer.
func NewPairwiseMerger() *PairwiseMerger {
	return &PairwiseMerger{Threshold: DefaultThreshold, Score: LCSRatio}
}

// Merge records longer -> shorter for every pair scoring above the
// threshold. Names are deduplicated and sorted first; on equal length the
// earlier name maps to the later one.
func (p *PairwiseMerger) Merge(vocabulary []string) MergeMap {
	names := uniqueSorted(vocabulary)
	score := p.Score
	if score == nil {
		score = LCSRatio
	}

	merged := make(MergeMap)
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if score(names[i], names[j]) <= p.Threshold {
				continue
			}
			if utf8.RuneCountInString(names[i]) < utf8.RuneCountInString(names[j]) {
				merged[names[j]] = names[i]
			} else {
				merged[names[i]] = names[j]
			}
		}
	}

	if p.Transitive {
		return merged.Collapse()
	}
	return merged
}

func uniqueSorted(vocabulary []string) []string {
	set := make(map[string]struct{}, len(vocabulary))
	for _, v := range vocabulary {
		set[v] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for v := range set {
		names = append(names, v)
	}
	sort.Strings(names)
	return names
}
