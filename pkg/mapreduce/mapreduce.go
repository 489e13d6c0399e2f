// Package mapreduce counts ingredient names per recipe and folds the
// per-recipe counts into corpus totals.
package mapreduce

// Map counts occurrences of each name in one recipe's ingredient list.
func Map(names []string) map[string]int {
	counts := make(map[string]int, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		counts[n]++
	}
	return counts
}

// Reduce aggregates a slice of count maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for name, count := range counts {
			finalResults[name] += count
		}
	}

	return finalResults
}
