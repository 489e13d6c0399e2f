package convert

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/recipe-features/models"
	"github.com/dtnitsch/recipe-features/pkg/arff"
	"github.com/dtnitsch/recipe-features/pkg/normalize"
	"github.com/dtnitsch/recipe-features/pkg/units"
)

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func writeSample(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "in.tsv")
	require.NoError(t, WriteTSV(p, []models.Recipe{{
		URL:         "u1",
		Title:       "Pancakes",
		Category:    "Breakfast",
		Rating:      models.Float(4.5),
		Ingredients: []string{"2 cups flour", "1 egg"},
	}}))
	return p
}

func TestToARFF(t *testing.T) {
	dir := t.TempDir()
	in := writeSample(t, dir)
	out := filepath.Join(dir, "out.arff")

	written, err := ToARFF(in, out, false, discard())
	require.NoError(t, err)
	assert.True(t, written)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	ds, err := arff.Read(f)
	require.NoError(t, err)
	assert.Equal(t, arff.Relation, ds.Relation)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "4.5", ds.Rows[0][ds.Index(models.ColRating)].Text)
}

func TestToARFF_SkipsExisting(t *testing.T) {
	dir := t.TempDir()
	in := writeSample(t, dir)
	out := filepath.Join(dir, "out.arff")
	require.NoError(t, os.WriteFile(out, []byte("keep"), 0644))

	written, err := ToARFF(in, out, false, discard())
	require.NoError(t, err)
	assert.False(t, written)
	data, _ := os.ReadFile(out)
	assert.Equal(t, "keep", string(data))

	written, err = ToARFF(in, out, true, discard())
	require.NoError(t, err)
	assert.True(t, written)
	data, _ = os.ReadFile(out)
	assert.True(t, strings.HasPrefix(string(data), "@relation"))
}

func TestToARFF_MissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := ToARFF(filepath.Join(dir, "nope.tsv"), filepath.Join(dir, "out.arff"), false, discard())
	assert.Error(t, err)
}

func TestNormalizeCell(t *testing.T) {
	tests := []struct {
		column string
		cell   string
		want   *float64
	}{
		{models.ColRating, "4.5", models.Float(4.5)},
		{models.ColRating, "great", nil},
		{models.ColPrepTime, "1 hr 30 mins", models.Float(90)},
		{models.ColCookTime, "", nil},
		{models.ColTotalTime, "?", nil},
		{models.ColServings, "4 to 6", models.Float(5)},
		{models.ColServings, "abc", nil},
	}
	for _, tt := range tests {
		t.Run(tt.column+"/"+tt.cell, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCell(tt.column, tt.cell))
		})
	}
}

func TestUnify(t *testing.T) {
	recipes := []models.Recipe{{Ingredients: []string{"2 cups flour", "1 egg"}}}
	Unify(recipes, normalize.NewUnifier(units.Default()))
	assert.Equal(t, []string{"480.00 grams flour", "1 egg"}, recipes[0].Ingredients)
}
