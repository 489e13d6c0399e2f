package analyze

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/recipe-features/internal/common"
	"github.com/dtnitsch/recipe-features/models"
	"github.com/dtnitsch/recipe-features/pkg/analytics"
	"github.com/dtnitsch/recipe-features/pkg/arff"
	"github.com/dtnitsch/recipe-features/pkg/mapreduce"
	"github.com/dtnitsch/recipe-features/pkg/similarity"
)

// Stats is the ingredient summary of a dataset.
type Stats struct {
	Recipes    int
	Vocabulary int
	Merges     similarity.MergeMap
	// Counts is the number of recipes using each merged ingredient name.
	Counts map[string]int
	// Words counts individual words across all raw ingredient lines.
	Words map[string]int
}

func StatsAction(c *cli.Context) error {
	logger := common.Logger(c)
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	merger, err := common.Merger(cfg)
	if err != nil {
		return err
	}

	path := c.String("arff")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open ARFF: %w", err)
	}
	ds, err := arff.Read(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	lines, err := IngredientLines(ds)
	if err != nil {
		return err
	}
	stats := Compute(lines, merger)
	logger.Info("Ingredient stats computed", "recipes", stats.Recipes, "vocabulary", stats.Vocabulary, "merges", len(stats.Merges))

	top := c.Int("top")
	fmt.Printf("%d recipes, %d distinct ingredients, %d merged\n", stats.Recipes, stats.Vocabulary, len(stats.Merges))
	common.RenderTable(os.Stdout, table.Row{"#", "Ingredient", "Recipes"}, entryRows(mapreduce.Top(stats.Counts, top)))
	common.RenderTable(os.Stdout, table.Row{"#", "Word", "Occurrences"}, entryRows(mapreduce.Top(stats.Words, top)))
	return nil
}

func entryRows(entries []mapreduce.Entry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{i + 1, e.Name, e.Count}
	}
	return rows
}

// IngredientLines returns each row's ingredient lines.
func IngredientLines(ds *arff.Dataset) ([][]string, error) {
	col := ds.Index(models.ColIngredient)
	if col < 0 {
		return nil, fmt.Errorf("dataset has no %s attribute", models.ColIngredient)
	}
	lines := make([][]string, len(ds.Rows))
	for i, row := range ds.Rows {
		if row[col].Missing {
			continue
		}
		lines[i] = strings.Split(row[col].Text, ",")
	}
	return lines, nil
}

// Compute simplifies and merges ingredient names the same way the feature
// builder does, then counts recipes per name and words per line.
func Compute(recipes [][]string, merger similarity.Merger) *Stats {
	a := &analytics.Analytics{}
	stats := &Stats{Recipes: len(recipes), Words: map[string]int{}}

	simplified := make([][]string, len(recipes))
	var vocabulary []string
	for i, lines := range recipes {
		simplified[i] = similarity.SimplifyAll(lines)
		vocabulary = append(vocabulary, simplified[i]...)
		for w, n := range a.IngredientWords(lines) {
			stats.Words[w] += n
		}
	}

	stats.Merges = merger.Merge(vocabulary)
	stats.Vocabulary = len(mapreduce.Map(vocabulary))

	perRecipe := make([]map[string]int, len(simplified))
	for i, names := range simplified {
		perRecipe[i] = presence(stats.Merges.Apply(names))
	}
	stats.Counts = mapreduce.Reduce(perRecipe)
	return stats
}

func presence(names []string) map[string]int {
	m := mapreduce.Map(names)
	for k := range m {
		m[k] = 1
	}
	return m
}
