// Package tsv persists scraped recipes as tab-separated values with a
// header row. Missing numbers are written as empty cells.
package tsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/dtnitsch/recipe-features/models"
)

// ErrMissingHeader is returned when a required column is absent.
var ErrMissingHeader = errors.New("missing TSV column")

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// Write writes the header and one row per recipe.
func Write(w io.Writer, recipes []models.Recipe) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(models.Columns); err != nil {
		return fmt.Errorf("failed to write TSV header: %w", err)
	}
	for i := range recipes {
		if err := cw.Write(recipes[i].Values()); err != nil {
			return fmt.Errorf("failed to write TSV row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// NumericParser converts a raw numeric cell. It receives the column name so
// callers can apply per-field normalization.
type NumericParser func(column, cell string) *float64

// Read parses recipes, converting numeric cells with models.ParseOptional.
func Read(r io.Reader) ([]models.Recipe, error) {
	return ReadWith(r, nil)
}

// ReadWith parses recipes using parse for numeric cells. Columns are matched
// by header name, so their order in the file does not matter; unknown
// columns are ignored.
func ReadWith(r io.Reader, parse NumericParser) ([]models.Recipe, error) {
	if parse == nil {
		parse = func(_, cell string) *float64 { return models.ParseOptional(cell) }
	}

	cr := newReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read TSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range models.Columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingHeader, col)
		}
	}

	var recipes []models.Recipe
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read TSV line %d: %w", line, err)
		}

		cell := func(col string) string {
			if i := index[col]; i < len(row) {
				return row[i]
			}
			return ""
		}

		rec := models.Recipe{
			URL:         cell(models.ColURL),
			Title:       cell(models.ColTitle),
			Category:    cell(models.ColCategory),
			Ingredients: models.SplitList(cell(models.ColIngredient)),
			ImagePaths:  models.SplitList(cell(models.ColImagePaths)),
		}
		for _, col := range models.NumericColumns {
			rec.SetNumeric(col, parse(col, cell(col)))
		}
		recipes = append(recipes, rec)
	}
	return recipes, nil
}
