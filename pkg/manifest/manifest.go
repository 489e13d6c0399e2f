// Package manifest writes a YAML summary next to each binarized dataset so
// a run can be inspected without opening the CSV.
package manifest

import (
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/recipe-features/pkg/features"
	"github.com/dtnitsch/recipe-features/pkg/mapreduce"
	"github.com/dtnitsch/recipe-features/pkg/storage"
)

// TopIngredients is how many ingredients the summary lists.
const TopIngredients = 25

// Summary describes one feature build.
type Summary struct {
	GeneratedAt    string            `yaml:"generated_at"`
	Input          string            `yaml:"input"`
	Output         string            `yaml:"output"`
	Recipes        int               `yaml:"recipes"`
	Columns        []string          `yaml:"columns"`
	Vocabulary     int               `yaml:"vocabulary"`
	Indicators     int               `yaml:"indicators"`
	RareGrouped    int               `yaml:"rare_grouped"`
	Merges         []Merge           `yaml:"merges,omitempty"`
	TopIngredients []mapreduce.Entry `yaml:"top_ingredients"`
}

// Merge is one applied similarity merge.
type Merge struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Build summarizes res. Merges are listed in key order.
func Build(input, output string, res *features.Result, now time.Time) Summary {
	s := Summary{
		GeneratedAt:    now.UTC().Format(time.RFC3339),
		Input:          input,
		Output:         output,
		Recipes:        res.Table.Rows(),
		Columns:        res.Table.Names(),
		Vocabulary:     res.Vocabulary,
		Indicators:     len(res.Counts) - len(res.Rare),
		RareGrouped:    len(res.Rare),
		TopIngredients: mapreduce.Top(res.Counts, TopIngredients),
	}

	from := make([]string, 0, len(res.Merges))
	for k := range res.Merges {
		from = append(from, k)
	}
	sort.Strings(from)
	for _, k := range from {
		s.Merges = append(s.Merges, Merge{From: k, To: res.Merges[k]})
	}
	return s
}

// Path is the manifest location for a dataset written to output.
func Path(output string) string {
	return output + ".manifest.yaml"
}

// Write saves the summary at Path(s.Output) and returns that path.
func Write(s Summary, st *storage.Storage) (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("error marshalling manifest: %w", err)
	}

	p := Path(s.Output)
	if err := st.SaveFile(p, data); err != nil {
		return "", fmt.Errorf("error saving manifest: %w", err)
	}
	return p, nil
}
