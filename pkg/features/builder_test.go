package features

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/recipe-features/models"
	"github.com/dtnitsch/recipe-features/pkg/arff"
	"github.com/dtnitsch/recipe-features/pkg/similarity"
)

func eggCorpus() []models.Recipe {
	f := models.Float
	return []models.Recipe{
		{URL: "u1", Title: "A", Category: "Breakfast", Rating: f(4), PrepTime: f(10), TotalTime: f(30), Servings: f(4),
			Ingredients: []string{"egg", "flour", "sugar"}, ImagePaths: []string{"pics/a/image_1.jpg"}},
		{URL: "u2", Title: "B", Category: "Breakfast", PrepTime: f(5), TotalTime: f(20), Servings: f(4),
			Ingredients: []string{"eggs", "flour", "milk"}},
		{URL: "u3", Title: "C", Category: "Dinner", Rating: f(5), PrepTime: f(15), TotalTime: f(60), Servings: f(4),
			Ingredients: []string{"2 large eggs", "flour", "butter"}},
		{URL: "u4", Title: "D", Category: "Dinner", Rating: f(3), PrepTime: f(20), TotalTime: f(25), Servings: f(4),
			Ingredients: []string{"egg", "flour", "sugar"}},
		{URL: "u5", Title: "E", Category: "Snacks", Rating: f(4.5), PrepTime: f(10), TotalTime: f(10), Servings: f(4),
			Ingredients: []string{"eggs", "flour", "salt"}},
		{URL: "u6", Title: "F", Category: "Snacks", Rating: f(3.5), PrepTime: f(25), TotalTime: f(40), Servings: f(4),
			Ingredients: []string{"egg", "flour", "vanilla extract"}},
	}
}

func defaultBuilder() *Builder {
	return NewBuilder(models.DefaultConfig().Features, similarity.NewPairwiseMerger(), nil)
}

func TestBuild_EggVariantsCollapse(t *testing.T) {
	res, err := defaultBuilder().Build(tableFromRecipes(eggCorpus()))
	require.NoError(t, err)

	want := []string{
		models.ColCategory, models.ColRating, models.ColPrepTime, models.ColCookTime,
		models.ColTotalTime, models.ColServings, "egg", "flour", OtherIngredients,
	}
	if diff := cmp.Diff(want, res.Table.Names()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	egg, ok := res.Table.Column("egg")
	require.True(t, ok)
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1}, egg.Counts)
	_, ok = res.Table.Column("eggs")
	assert.False(t, ok, "eggs should have merged into egg")

	assert.Equal(t, similarity.MergeMap{"eggs": "egg"}, res.Merges)
	assert.Equal(t, 8, res.Vocabulary)
	assert.Equal(t, []string{"butter", "milk", "salt", "sugar", "vanilla extract"}, res.Rare)
	assert.Equal(t, 6, res.Counts["egg"])
}

func TestBuild_OtherIngredientsIsSumOfDropped(t *testing.T) {
	recipes := eggCorpus()
	recipes[0].Ingredients = append(recipes[0].Ingredients, "milk", "salt")

	res, err := defaultBuilder().Build(tableFromRecipes(recipes))
	require.NoError(t, err)

	other, ok := res.Table.Column(OtherIngredients)
	require.True(t, ok)
	// Recipe 1 now has sugar, milk and salt, all below the threshold.
	assert.Equal(t, []int{3, 1, 1, 1, 1, 1}, other.Counts)

	for _, c := range res.Table.Columns() {
		if c.Kind == Count && c.Name != OtherIngredients {
			assert.GreaterOrEqual(t, c.Sum(), float64(DefaultMinFrequency), "indicator %s", c.Name)
		}
	}
}

func TestBuild_NumericPipeline(t *testing.T) {
	res, err := defaultBuilder().Build(tableFromRecipes(eggCorpus()))
	require.NoError(t, err)

	// Rating mean over present values is 4.0, filling recipe 2.
	assert.Equal(t, []float64{0.5, 0.5, 1, 0, 0.75, 0.25}, numbers(t, res.Table, models.ColRating))
	// Cook time is missing everywhere and Servings is constant: both scale to zeros.
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0}, numbers(t, res.Table, models.ColCookTime))
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0}, numbers(t, res.Table, models.ColServings))

	for _, name := range models.NumericColumns {
		vals := numbers(t, res.Table, name)
		for _, v := range vals {
			assert.True(t, v >= 0 && v <= 1, "%s value %v outside [0,1]", name, v)
		}
	}
	prep := numbers(t, res.Table, models.ColPrepTime)
	assert.Contains(t, prep, 0.0)
	assert.Contains(t, prep, 1.0)
}

func TestBuild_IngredientNamedLikeColumn(t *testing.T) {
	recipes := []models.Recipe{
		{URL: "a", Title: "A", Category: "Dinner", Rating: models.Float(4), Ingredients: []string{"Category", "Rating", "flour"}},
		{URL: "b", Title: "B", Category: "Lunch", Rating: models.Float(5), Ingredients: []string{"flour", "other_ingredients"}},
	}
	res, err := (&Builder{MinFrequency: 1}).Build(tableFromRecipes(recipes))
	require.NoError(t, err)

	category, ok := res.Table.Column(models.ColCategory)
	require.True(t, ok)
	assert.Equal(t, Text, category.Kind)
	assert.Equal(t, []string{"Dinner", "Lunch"}, category.Text)

	rating, ok := res.Table.Column(models.ColRating)
	require.True(t, ok)
	assert.Equal(t, Numeric, rating.Kind)
	assert.Equal(t, []float64{4, 5}, rating.Numbers)

	for name, want := range map[string][]int{
		"Category_ingredient":          {1, 0},
		"Rating_ingredient":            {1, 0},
		"other_ingredients_ingredient": {0, 1},
		"flour":                        {1, 1},
	} {
		c, ok := res.Table.Column(name)
		require.True(t, ok, name)
		assert.Equal(t, want, c.Counts, name)
	}
	other, ok := res.Table.Column(OtherIngredients)
	require.True(t, ok)
	assert.Equal(t, []int{0, 0}, other.Counts)
}

func TestBuild_IndicatorNamesComeFromMergedVocabulary(t *testing.T) {
	recipes := eggCorpus()
	res, err := (&Builder{MinFrequency: 1, NormalizeColumns: models.NumericColumns}).Build(tableFromRecipes(recipes))
	require.NoError(t, err)

	var vocab []string
	for _, r := range recipes {
		vocab = append(vocab, res.Merges.Apply(similarity.SimplifyAll(r.Ingredients))...)
	}
	allowed := make(map[string]bool)
	for _, v := range vocab {
		allowed[v] = true
	}

	for _, c := range res.Table.Columns() {
		if c.Kind == Count && c.Name != OtherIngredients {
			assert.True(t, allowed[c.Name], "unexpected indicator %q", c.Name)
		}
	}
	other, _ := res.Table.Column(OtherIngredients)
	assert.Equal(t, 0.0, other.Sum())
}

func TestBuild_WithoutIngredients(t *testing.T) {
	tbl := tableFromRecipes(eggCorpus())
	tbl.Drop(models.ColIngredient)

	res, err := defaultBuilder().Build(tbl)
	require.NoError(t, err)
	_, ok := res.Table.Column(OtherIngredients)
	assert.False(t, ok)
	assert.Empty(t, res.Merges)
}

func TestBuild_MissingNormalizeColumn(t *testing.T) {
	tbl := tableFromRecipes(eggCorpus())
	tbl.Drop(models.ColServings)

	_, err := defaultBuilder().Build(tbl)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestBuild_FromARFF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, arff.Write(&buf, arff.FromRecipes(eggCorpus())))

	ds, err := arff.Read(&buf)
	require.NoError(t, err)
	tbl, err := FromDataset(ds)
	require.NoError(t, err)

	res, err := defaultBuilder().Build(tbl)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, res.Table.WriteCSV(&out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Category,Rating,Prep_Time_(min),Cook_Time_(min),Total_Time_(min),Servings,egg,flour,other_ingredients", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Breakfast,0.5,"), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], ",1,1,1"), lines[1])
}

func TestFromDataset_RejectsNonNumeric(t *testing.T) {
	ds := &arff.Dataset{
		Attributes: []arff.Attribute{{Name: "x", Type: "numeric"}},
		Rows:       [][]arff.Cell{{{Text: "abc"}}},
	}
	_, err := FromDataset(ds)
	assert.Error(t, err)
}

func TestOneHot(t *testing.T) {
	cols, counts := OneHot([][]string{{"b", "a", "a"}, {"a"}, nil})
	require.Len(t, cols, 2)
	assert.Equal(t, "a", cols[0].Name)
	assert.Equal(t, []int{1, 1, 0}, cols[0].Counts)
	assert.Equal(t, "b", cols[1].Name)
	assert.Equal(t, []int{1, 0, 0}, cols[1].Counts)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, counts)
}

func TestGroupRare(t *testing.T) {
	cols := []*Column{
		{Name: "common", Kind: Count, Counts: []int{1, 1, 1}},
		{Name: "rare1", Kind: Count, Counts: []int{1, 0, 1}},
		{Name: "rare2", Kind: Count, Counts: []int{1, 0, 0}},
	}
	kept, other, rare := GroupRare(cols, 3, 3)

	require.Len(t, kept, 1)
	assert.Equal(t, "common", kept[0].Name)
	assert.Equal(t, []string{"rare1", "rare2"}, rare)
	assert.Equal(t, []int{2, 0, 1}, other.Counts)
}
