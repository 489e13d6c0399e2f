package db

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/recipe-features/internal/common"
	"github.com/dtnitsch/recipe-features/internal/convert"
	"github.com/dtnitsch/recipe-features/models"
)

func RecipesAction(c *cli.Context) error {
	database, err := open(c)
	if err != nil {
		return err
	}
	defer database.Close()

	recipes, err := database.ListRecipes(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		fmt.Println("No recipes found")
		return nil
	}

	rows := make([]table.Row, len(recipes))
	for i, r := range recipes {
		rows[i] = table.Row{
			r.Title,
			r.Category,
			models.FormatOptional(r.Rating, models.MissingMarker),
			models.FormatOptional(r.TotalTime, models.MissingMarker),
			models.FormatOptional(r.Servings, models.MissingMarker),
			len(r.Ingredients),
			r.URL,
		}
	}
	common.RenderTable(os.Stdout, table.Row{"Title", "Category", "Rating", "Total (min)", "Servings", "Ingredients", "URL"}, rows)

	total, err := database.CountRecipes(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("\nShowing %d of %d recipes\n", len(recipes), total)
	return nil
}

func RunsAction(c *cli.Context) error {
	database, err := open(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Context)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No scrape runs found")
		return nil
	}

	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		finished := "-"
		if r.FinishedAt != nil {
			finished = r.FinishedAt.Local().Format("2006-01-02 15:04:05")
		}
		rows[i] = table.Row{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			finished,
			r.Filter,
			r.Recipes,
			r.Errors,
			r.Status,
		}
	}
	common.RenderTable(os.Stdout, table.Row{"Run", "Started", "Finished", "Filter", "Recipes", "Errors", "Status"}, rows)
	return nil
}

// ExportAction writes every stored recipe to a TSV file.
func ExportAction(c *cli.Context) error {
	logger := common.Logger(c)
	database, err := open(c)
	if err != nil {
		return err
	}
	defer database.Close()

	recipes, err := database.ListRecipes(c.Context, 0)
	if err != nil {
		return err
	}

	path := c.String("tsv")
	if err := convert.WriteTSV(path, recipes); err != nil {
		return err
	}

	logger.Info("Recipes exported", "path", path, "recipes", len(recipes))
	return nil
}
