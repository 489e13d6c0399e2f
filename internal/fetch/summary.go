package fetch

import (
	"sort"

	"github.com/dtnitsch/recipe-features/models"
	"github.com/dtnitsch/recipe-features/pkg/scraper"
)

// Summary reports what a scrape produced.
type Summary struct {
	RunID       string         `yaml:"run_id,omitempty"`
	Filter      string         `yaml:"filter"`
	Links       int            `yaml:"links"`
	Recipes     int            `yaml:"recipes"`
	Categories  map[string]int `yaml:"categories,omitempty"`
	Failed      []FailedLink   `yaml:"failed,omitempty"`
	TSV         string         `yaml:"tsv,omitempty"`
	ARFF        string         `yaml:"arff,omitempty"`
	ARFFSkipped bool           `yaml:"arff_skipped,omitempty"`
	Output      string         `yaml:"output,omitempty"`
	Features    int            `yaml:"features,omitempty"`
	Duration    string         `yaml:"duration,omitempty"`
}

// FailedLink is a listed link that produced no recipe.
type FailedLink struct {
	URL   string `yaml:"url"`
	Title string `yaml:"title,omitempty"`
	Error string `yaml:"error"`
}

// BuildSummary tallies scrape results. Failed links keep the order of results.
func BuildSummary(results []scraper.Result, recipes []models.Recipe) *Summary {
	s := &Summary{
		Links:      len(results),
		Recipes:    len(recipes),
		Categories: make(map[string]int),
	}
	for _, r := range results {
		if r.Error != nil {
			s.Failed = append(s.Failed, FailedLink{URL: r.Link.URL, Title: r.Link.Title, Error: r.Error.Error()})
		}
	}
	for _, r := range recipes {
		s.Categories[r.Category]++
	}
	if len(s.Categories) == 0 {
		s.Categories = nil
	}
	return s
}

// TopCategories returns category names ordered by recipe count, ties alphabetical.
func (s *Summary) TopCategories() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.Categories[names[i]] != s.Categories[names[j]] {
			return s.Categories[names[i]] > s.Categories[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
