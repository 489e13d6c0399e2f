package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/recipe-features/models"
)

type recipeRow struct {
	URL         string         `db:"url"`
	Title       string         `db:"title"`
	Category    string         `db:"category"`
	Rating      *float64       `db:"rating"`
	PrepTime    *float64       `db:"prep_time"`
	CookTime    *float64       `db:"cook_time"`
	TotalTime   *float64       `db:"total_time"`
	Servings    *float64       `db:"servings"`
	Ingredients string         `db:"ingredients"`
	ImagePaths  string         `db:"image_paths"`
	RunID       sql.NullString `db:"run_id"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func toRow(r models.Recipe, runID string) recipeRow {
	return recipeRow{
		URL:         r.URL,
		Title:       r.Title,
		Category:    r.Category,
		Rating:      r.Rating,
		PrepTime:    r.PrepTime,
		CookTime:    r.CookTime,
		TotalTime:   r.TotalTime,
		Servings:    r.Servings,
		Ingredients: r.JoinedIngredients(),
		ImagePaths:  r.JoinedImagePaths(),
		RunID:       sql.NullString{String: runID, Valid: runID != ""},
		UpdatedAt:   time.Now().UTC(),
	}
}

func (row recipeRow) recipe() models.Recipe {
	return models.Recipe{
		URL:         row.URL,
		Title:       row.Title,
		Category:    row.Category,
		Rating:      row.Rating,
		PrepTime:    row.PrepTime,
		CookTime:    row.CookTime,
		TotalTime:   row.TotalTime,
		Servings:    row.Servings,
		Ingredients: models.SplitList(row.Ingredients),
		ImagePaths:  models.SplitList(row.ImagePaths),
	}
}

const upsertRecipe = `
	INSERT INTO recipes (url, title, category, rating, prep_time, cook_time, total_time, servings, ingredients, image_paths, run_id, updated_at)
	VALUES (:url, :title, :category, :rating, :prep_time, :cook_time, :total_time, :servings, :ingredients, :image_paths, :run_id, :updated_at)
	ON CONFLICT(url) DO UPDATE SET
		title = excluded.title,
		category = excluded.category,
		rating = excluded.rating,
		prep_time = excluded.prep_time,
		cook_time = excluded.cook_time,
		total_time = excluded.total_time,
		servings = excluded.servings,
		ingredients = excluded.ingredients,
		image_paths = excluded.image_paths,
		run_id = excluded.run_id,
		updated_at = excluded.updated_at
`

const selectRecipes = `
	SELECT url, title, category, rating, prep_time, cook_time, total_time, servings, ingredients, image_paths, run_id, updated_at
	FROM recipes
`

// UpsertRecipe inserts r or replaces the stored recipe with the same URL.
func (db *DB) UpsertRecipe(ctx context.Context, runID string, r models.Recipe) error {
	if _, err := db.NamedExecContext(ctx, upsertRecipe, toRow(r, runID)); err != nil {
		return fmt.Errorf("failed to save recipe %s: %w", r.URL, err)
	}
	return nil
}

// SaveRecipes upserts all recipes in one transaction.
func (db *DB) SaveRecipes(ctx context.Context, runID string, recipes []models.Recipe) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range recipes {
		if _, err := tx.NamedExecContext(ctx, upsertRecipe, toRow(r, runID)); err != nil {
			return fmt.Errorf("failed to save recipe %s: %w", r.URL, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recipes: %w", err)
	}
	return nil
}

// GetRecipe returns the recipe stored under url.
func (db *DB) GetRecipe(ctx context.Context, url string) (models.Recipe, error) {
	var row recipeRow
	err := db.GetContext(ctx, &row, selectRecipes+" WHERE url = ?", url)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Recipe{}, fmt.Errorf("recipe %s: %w", url, ErrNotFound)
	}
	if err != nil {
		return models.Recipe{}, fmt.Errorf("failed to get recipe: %w", err)
	}
	return row.recipe(), nil
}

// ListRecipes returns recipes ordered by URL. A limit of zero or less
// returns all of them.
func (db *DB) ListRecipes(ctx context.Context, limit int) ([]models.Recipe, error) {
	query := selectRecipes + " ORDER BY url"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []recipeRow
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes := make([]models.Recipe, len(rows))
	for i, row := range rows {
		recipes[i] = row.recipe()
	}
	return recipes, nil
}

// CountRecipes returns the number of stored recipes.
func (db *DB) CountRecipes(ctx context.Context) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM recipes"); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return n, nil
}
