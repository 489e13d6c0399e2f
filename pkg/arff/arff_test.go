package arff

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/recipe-features/models"
)

func sampleRecipes() []models.Recipe {
	return []models.Recipe{
		{
			URL:         "https://www.allrecipes.com/recipe/1/pancakes/",
			Title:       `Mom's "Best" Pancakes`,
			Category:    "Breakfast",
			Rating:      models.Float(4.7),
			PrepTime:    models.Float(10),
			CookTime:    models.Float(15),
			TotalTime:   models.Float(25),
			Servings:    models.Float(4),
			Ingredients: []string{"360.00 grams flour", "2 large eggs"},
			ImagePaths:  []string{"pics/pancakes/image_1.jpg"},
		},
		{
			URL:         "https://www.allrecipes.com/recipe/2/toast/",
			Title:       "Toast",
			Category:    "No info",
			Ingredients: []string{"bread"},
		},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FromRecipes(sampleRecipes())))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "@relation allrecipes_recipes\n\n"))
	assert.Contains(t, out, "@attribute URL string\n")
	assert.Contains(t, out, "@attribute \"Prep_Time_(min)\" numeric\n")
	assert.Contains(t, out, "\n@data\n")
	assert.Contains(t, out, `"Mom's \"Best\" Pancakes", "Breakfast", 4.7, 10.0, 15.0, 25.0, 4.0, "360.00 grams flour, 2 large eggs"`)
	assert.Contains(t, out, `"Toast", "No info", ?, ?, ?, ?, ?, "bread", ""`)
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := FromRecipes(sampleRecipes())
	require.NoError(t, Write(&buf, want))

	got, err := Read(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Read(Write()) mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip_LineBreaksInCells(t *testing.T) {
	recipes := sampleRecipes()
	recipes[1].Ingredients = []string{"1 cup onion,\n chopped", "water\r\n"}

	var buf bytes.Buffer
	want := FromRecipes(recipes)
	require.NoError(t, Write(&buf, want))
	assert.Contains(t, buf.String(), `"1 cup onion,\n chopped, water\r\n"`)

	got, err := Read(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Read(Write()) mismatch (-want +got):\n%s", diff)
	}
}

func TestRead(t *testing.T) {
	src := `% recipes exported by hand
@RELATION test

@ATTRIBUTE name string
@attribute 'rating value' NUMERIC
@attribute tags string

@data
"a, b", 3.5, 'x'
"c",?,"it\'s"

"?", 1, ""
`
	d, err := Read(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "test", d.Relation)
	assert.Equal(t, []Attribute{
		{Name: "name", Type: "string"},
		{Name: "rating value", Type: "NUMERIC"},
		{Name: "tags", Type: "string"},
	}, d.Attributes)
	assert.True(t, d.Attributes[1].IsNumeric())
	assert.Equal(t, 1, d.Index("rating value"))
	assert.Equal(t, -1, d.Index("missing"))

	require.Len(t, d.Rows, 3)
	assert.Equal(t, []Cell{{Text: "a, b"}, {Text: "3.5"}, {Text: "x"}}, d.Rows[0])
	assert.Equal(t, []Cell{{Text: "c"}, {Missing: true}, {Text: "it's"}}, d.Rows[1])
	// A quoted question mark is a string, not a missing value.
	assert.Equal(t, Cell{Text: "?"}, d.Rows[2][0])
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no data section", "@relation r\n@attribute a string\n"},
		{"wrong arity", "@relation r\n@attribute a string\n@data\n\"x\", \"y\"\n"},
		{"unterminated quote", "@relation r\n@attribute a string\n@data\n\"x\n"},
		{"sparse row", "@relation r\n@attribute a numeric\n@data\n{0 1}\n"},
		{"junk header", "@relation r\nhello\n@data\n"},
		{"attribute without type", "@relation r\n@attribute a\n@data\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "error %v should wrap ErrMalformed", err)
		})
	}
}
