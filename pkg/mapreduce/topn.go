package mapreduce

import (
	"sort"
)

// Entry is one name with its count.
type Entry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// Top returns the n highest counts, ties broken alphabetically so the
// order is stable across runs.
func Top(counts map[string]int, n int) []Entry {
	entries := make([]Entry, 0, len(counts))
	for k, v := range counts {
		entries = append(entries, Entry{Name: k, Count: v})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Name < entries[j].Name
	})

	if n < 0 {
		n = 0
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Below returns the names whose count is strictly below min, sorted.
func Below(counts map[string]int, min int) []string {
	var names []string
	for k, v := range counts {
		if v < min {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}
