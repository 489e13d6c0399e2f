package models

import (
	"math"
	"strconv"
	"strings"
)

// MissingMarker is the textual sentinel for an absent or unparseable value.
// It is distinct from zero and matches the ARFF convention.
const MissingMarker = "?"

// Column names of the scraped dataset, in file order.
const (
	ColURL        = "URL"
	ColTitle      = "Title"
	ColCategory   = "Category"
	ColRating     = "Rating"
	ColPrepTime   = "Prep_Time_(min)"
	ColCookTime   = "Cook_Time_(min)"
	ColTotalTime  = "Total_Time_(min)"
	ColServings   = "Servings"
	ColIngredient = "Ingredients"
	ColImagePaths = "Image_Paths"
)

// Columns lists every dataset column in the order scrapers emit them.
var Columns = []string{
	ColURL, ColTitle, ColCategory, ColRating, ColPrepTime,
	ColCookTime, ColTotalTime, ColServings, ColIngredient, ColImagePaths,
}

// NumericColumns are the columns typed as numeric in ARFF output.
var NumericColumns = []string{ColRating, ColPrepTime, ColCookTime, ColTotalTime, ColServings}

// IsNumericColumn reports whether name is one of NumericColumns.
func IsNumericColumn(name string) bool {
	for _, c := range NumericColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Recipe is one scraped recipe. Nil numeric fields are missing.
type Recipe struct {
	URL         string
	Title       string
	Category    string
	Rating      *float64
	PrepTime    *float64
	CookTime    *float64
	TotalTime   *float64
	Servings    *float64
	Ingredients []string
	ImagePaths  []string
}

// IngredientSeparator joins ingredient lines in flat files.
const IngredientSeparator = ", "

// JoinedIngredients returns the ingredient lines as a single comma-space string.
func (r *Recipe) JoinedIngredients() string {
	return strings.Join(r.Ingredients, IngredientSeparator)
}

// JoinedImagePaths returns the image paths as a single comma-space string.
func (r *Recipe) JoinedImagePaths() string {
	return strings.Join(r.ImagePaths, IngredientSeparator)
}

// Numeric returns the value of a numeric column by name.
func (r *Recipe) Numeric(col string) *float64 {
	switch col {
	case ColRating:
		return r.Rating
	case ColPrepTime:
		return r.PrepTime
	case ColCookTime:
		return r.CookTime
	case ColTotalTime:
		return r.TotalTime
	case ColServings:
		return r.Servings
	}
	return nil
}

// SetNumeric assigns a numeric column by name. Unknown columns are ignored.
func (r *Recipe) SetNumeric(col string, v *float64) {
	switch col {
	case ColRating:
		r.Rating = v
	case ColPrepTime:
		r.PrepTime = v
	case ColCookTime:
		r.CookTime = v
	case ColTotalTime:
		r.TotalTime = v
	case ColServings:
		r.Servings = v
	}
}

// Values renders the recipe as strings in Columns order. Missing numbers
// become the empty string; callers choose their own missing encoding.
func (r *Recipe) Values() []string {
	out := make([]string, 0, len(Columns))
	out = append(out, r.URL, r.Title, r.Category)
	for _, col := range NumericColumns {
		out = append(out, FormatOptional(r.Numeric(col), ""))
	}
	return append(out, r.JoinedIngredients(), r.JoinedImagePaths())
}

// SplitList splits a comma-space joined field back into its parts.
// An empty field yields nil.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, IngredientSeparator)
}

// FormatFloat renders f with at least one decimal digit ("5" becomes "5.0").
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// FormatOptional renders v with FormatFloat, or missing when v is nil.
func FormatOptional(v *float64, missing string) string {
	if v == nil {
		return missing
	}
	return FormatFloat(*v)
}

// ParseOptional parses a numeric cell. Empty cells, the missing marker and
// unparseable text all yield nil.
func ParseOptional(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == MissingMarker {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	return &f
}

// Float returns a pointer to f.
func Float(f float64) *float64 {
	return &f
}
