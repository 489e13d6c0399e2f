package features

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dtnitsch/recipe-features/models"
	"github.com/dtnitsch/recipe-features/pkg/arff"
	"github.com/dtnitsch/recipe-features/pkg/mapreduce"
	"github.com/dtnitsch/recipe-features/pkg/similarity"
)

// OtherIngredients is the column that absorbs rare ingredient indicators.
const OtherIngredients = "other_ingredients"

// collisionSuffix is appended to an indicator whose ingredient name equals
// an existing column name.
const collisionSuffix = "_ingredient"

// DefaultMinFrequency is the smallest column sum an indicator keeps.
const DefaultMinFrequency = 5

// Builder runs the binarization pipeline. The step order is fixed:
// mean-fill, round, encode ingredients, group rare, drop, normalize.
type Builder struct {
	Merger           similarity.Merger
	MinFrequency     int
	DropColumns      []string
	NormalizeColumns []string
	Logger           *slog.Logger
}

// Result is the built table plus what the ingredient stage decided.
type Result struct {
	Table *Table
	// Merges is the similarity map applied to ingredient names.
	Merges similarity.MergeMap
	// Vocabulary is the number of distinct simplified names before merging.
	Vocabulary int
	// Counts holds per-ingredient recipe counts after merging.
	Counts map[string]int
	// Rare lists the indicator columns folded into OtherIngredients.
	Rare []string
}

// NewBuilder configures a Builder from the features config section.
func NewBuilder(cfg models.FeaturesConfig, merger similarity.Merger, logger *slog.Logger) *Builder {
	return &Builder{
		Merger:           merger,
		MinFrequency:     cfg.MinFrequency,
		DropColumns:      cfg.DropColumns,
		NormalizeColumns: cfg.NormalizeColumns,
		Logger:           logger,
	}
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// Build transforms t in place and returns it wrapped in a Result.
func (b *Builder) Build(t *Table) (*Result, error) {
	log := b.logger()
	res := &Result{Table: t, Merges: similarity.MergeMap{}}

	t.CoerceText()
	t.FillMissingWithMean()
	t.RoundNumeric(1)

	if col, ok := t.Column(models.ColIngredient); ok {
		if col.Kind != Text {
			return nil, fmt.Errorf("column %s is %s, want text", models.ColIngredient, col.Kind)
		}
		indicators, err := b.encodeIngredients(col.Text, res)
		if err != nil {
			return nil, err
		}
		log.Debug("Encoded ingredients", "vocabulary", res.Vocabulary, "merges", len(res.Merges), "indicators", len(indicators))
		for _, c := range renameCollisions(t, indicators) {
			log.Warn("Ingredient name collides with a column, renamed", "ingredient", c[0], "column", c[1])
		}

		kept, other, rare := GroupRare(indicators, t.Rows(), b.MinFrequency)
		res.Rare = rare
		log.Debug("Grouped rare ingredients", "kept", len(kept), "rare", len(rare), "min_frequency", b.MinFrequency)

		for _, c := range append(kept, other) {
			if err := t.Add(c); err != nil {
				return nil, err
			}
		}
		t.Drop(models.ColIngredient)
	}

	t.Drop(b.DropColumns...)

	if err := t.MinMaxNormalize(b.NormalizeColumns...); err != nil {
		return nil, err
	}

	log.Info("Feature table built", "rows", t.Rows(), "columns", len(t.Columns()))
	return res, nil
}

func (b *Builder) encodeIngredients(joined []string, res *Result) ([]*Column, error) {
	lists := make([][]string, len(joined))
	var vocabulary []string
	seen := make(map[string]struct{})
	for i, s := range joined {
		if s == "" {
			continue
		}
		lists[i] = similarity.SimplifyAll(strings.Split(s, ","))
		for _, name := range lists[i] {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				vocabulary = append(vocabulary, name)
			}
		}
	}
	sort.Strings(vocabulary)
	res.Vocabulary = len(vocabulary)

	merger := b.Merger
	if merger == nil {
		merger = similarity.NewPairwiseMerger()
	}
	res.Merges = merger.Merge(vocabulary)
	for i := range lists {
		lists[i] = res.Merges.Apply(lists[i])
	}

	indicators, counts := OneHot(lists)
	res.Counts = counts
	return indicators, nil
}

// renameCollisions suffixes indicators named like a column of t or like
// OtherIngredients, so adding them never replaces a column. It returns the
// old and new names of every renamed indicator.
func renameCollisions(t *Table, indicators []*Column) [][2]string {
	taken := map[string]bool{OtherIngredients: true}
	for _, name := range t.Names() {
		taken[name] = true
	}
	clash := make([]bool, len(indicators))
	for i, c := range indicators {
		clash[i] = taken[c.Name]
	}
	for _, c := range indicators {
		taken[c.Name] = true
	}

	var renamed [][2]string
	for i, c := range indicators {
		if !clash[i] {
			continue
		}
		name := c.Name + collisionSuffix
		for taken[name] {
			name += collisionSuffix
		}
		taken[name] = true
		renamed = append(renamed, [2]string{c.Name, name})
		c.Name = name
	}
	return renamed
}

// OneHot builds one 0/1 Count column per distinct name, sorted by name,
// and returns the per-name recipe counts.
func OneHot(lists [][]string) ([]*Column, map[string]int) {
	presence := make([]map[string]int, len(lists))
	for i, names := range lists {
		presence[i] = make(map[string]int, len(names))
		for _, n := range names {
			presence[i][n] = 1
		}
	}
	counts := mapreduce.Reduce(presence)

	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)

	columns := make([]*Column, len(names))
	for j, name := range names {
		values := make([]int, len(lists))
		for i := range lists {
			values[i] = presence[i][name]
		}
		columns[j] = &Column{Name: name, Kind: Count, Counts: values}
	}
	return columns, counts
}

// GroupRare removes indicator columns whose sum is below minFrequency and
// returns them summed per row as an OtherIngredients count column.
func GroupRare(indicators []*Column, rows, minFrequency int) (kept []*Column, other *Column, rare []string) {
	other = &Column{Name: OtherIngredients, Kind: Count, Counts: make([]int, rows)}
	for _, c := range indicators {
		if c.Sum() >= float64(minFrequency) {
			kept = append(kept, c)
			continue
		}
		rare = append(rare, c.Name)
		for i, v := range c.Counts {
			other.Counts[i] += v
		}
	}
	return kept, other, rare
}

// FromDataset converts a parsed ARFF dataset into a table. Numeric
// attributes become numeric columns; everything else is text.
func FromDataset(d *arff.Dataset) (*Table, error) {
	t := NewTable(len(d.Rows))
	for j, attr := range d.Attributes {
		if attr.IsNumeric() {
			values := make([]*float64, len(d.Rows))
			for i, row := range d.Rows {
				if row[j].Missing {
					continue
				}
				v := models.ParseOptional(row[j].Text)
				if v == nil {
					return nil, fmt.Errorf("row %d: %s value %q is not numeric", i, attr.Name, row[j].Text)
				}
				values[i] = v
			}
			if err := t.AddNumeric(attr.Name, values); err != nil {
				return nil, err
			}
			continue
		}

		values := make([]string, len(d.Rows))
		for i, row := range d.Rows {
			values[i] = row[j].Text
		}
		if err := t.AddText(attr.Name, values); err != nil {
			return nil, err
		}
	}
	return t, nil
}
