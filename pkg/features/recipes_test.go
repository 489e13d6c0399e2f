package features

import (
	"github.com/dtnitsch/recipe-features/models"
)

// tableFromRecipes builds a table with the fixed dataset columns.
func tableFromRecipes(recipes []models.Recipe) *Table {
	t := NewTable(len(recipes))
	text := func(get func(r *models.Recipe) string) []string {
		out := make([]string, len(recipes))
		for i := range recipes {
			out[i] = get(&recipes[i])
		}
		return out
	}

	_ = t.AddText(models.ColURL, text(func(r *models.Recipe) string { return r.URL }))
	_ = t.AddText(models.ColTitle, text(func(r *models.Recipe) string { return r.Title }))
	_ = t.AddText(models.ColCategory, text(func(r *models.Recipe) string { return r.Category }))
	for _, col := range models.NumericColumns {
		values := make([]*float64, len(recipes))
		for i := range recipes {
			values[i] = recipes[i].Numeric(col)
		}
		_ = t.AddNumeric(col, values)
	}
	_ = t.AddText(models.ColIngredient, text(func(r *models.Recipe) string { return r.JoinedIngredients() }))
	_ = t.AddText(models.ColImagePaths, text(func(r *models.Recipe) string { return r.JoinedImagePaths() }))
	return t
}
