package db

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/recipe-features/models"
	dbpkg "github.com/dtnitsch/recipe-features/pkg/db"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("db", "", "")
	set.String("tsv", "", "")
	set.Int("limit", 0, "")
	set.Bool("quiet", true, "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func seed(t *testing.T, path string) {
	t.Helper()
	database, err := dbpkg.Open(path)
	require.NoError(t, err)
	defer database.Close()

	ctx := context.Background()
	id, err := database.CreateRun(ctx, "/everyday-cooking/")
	require.NoError(t, err)
	require.NoError(t, database.SaveRecipes(ctx, id, []models.Recipe{
		{URL: "https://example.test/recipe/2/", Title: "Toast", Category: "Breakfast", Ingredients: []string{"bread"}},
		{URL: "https://example.test/recipe/1/", Title: "Omelet", Category: "Breakfast", Rating: models.Float(4.5), Ingredients: []string{"3 eggs"}},
	}))
	require.NoError(t, database.FinishRun(ctx, id, 2, 0, dbpkg.RunCompleted))
}

func TestExportAction(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "rfx.db")
	out := filepath.Join(dir, "export.tsv")
	seed(t, dbPath)

	require.NoError(t, ExportAction(newContext(t, "--db", dbPath, "--tsv", out)))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "https://example.test/recipe/1/\tOmelet"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "https://example.test/recipe/2/\tToast"), lines[2])
}

func TestListActions(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rfx.db")
	seed(t, dbPath)

	assert.NoError(t, RecipesAction(newContext(t, "--db", dbPath, "--limit", "1")))
	assert.NoError(t, RunsAction(newContext(t, "--db", dbPath)))
}
