package manifest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/recipe-features/pkg/features"
	"github.com/dtnitsch/recipe-features/pkg/mapreduce"
	"github.com/dtnitsch/recipe-features/pkg/similarity"
	"github.com/dtnitsch/recipe-features/pkg/storage"
)

func result(t *testing.T) *features.Result {
	t.Helper()
	tbl := features.NewTable(2)
	require.NoError(t, tbl.AddText("Category", []string{"a", "b"}))
	require.NoError(t, tbl.AddCounts("egg", []int{1, 1}))
	require.NoError(t, tbl.AddCounts(features.OtherIngredients, []int{1, 0}))
	return &features.Result{
		Table:      tbl,
		Merges:     similarity.MergeMap{"eggs": "egg", "apples": "apple"},
		Vocabulary: 4,
		Counts:     map[string]int{"egg": 2, "apple": 1},
		Rare:       []string{"apple"},
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := Build("in.arff", "out.csv", result(t), now)

	assert.Equal(t, "2025-03-01T12:00:00Z", s.GeneratedAt)
	assert.Equal(t, 2, s.Recipes)
	assert.Equal(t, []string{"Category", "egg", features.OtherIngredients}, s.Columns)
	assert.Equal(t, 1, s.Indicators)
	assert.Equal(t, 1, s.RareGrouped)
	assert.Equal(t, []Merge{{From: "apples", To: "apple"}, {From: "eggs", To: "egg"}}, s.Merges)
	assert.Equal(t, []mapreduce.Entry{{Name: "egg", Count: 2}, {Name: "apple", Count: 1}}, s.TopIngredients)
}

func TestWrite(t *testing.T) {
	st := &storage.Storage{Root: t.TempDir()}
	s := Build("in.arff", "data/out.csv", result(t), time.Now())

	p, err := Write(s, st)
	require.NoError(t, err)
	assert.Equal(t, "data/out.csv.manifest.yaml", p)

	data, err := st.ReadFile(p)
	require.NoError(t, err)
	var back Summary
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}
