package convert

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/recipe-features/internal/common"
	"github.com/dtnitsch/recipe-features/models"
	"github.com/dtnitsch/recipe-features/pkg/arff"
	"github.com/dtnitsch/recipe-features/pkg/normalize"
	"github.com/dtnitsch/recipe-features/pkg/tsv"
)

func ConvertAction(c *cli.Context) error {
	logger := common.Logger(c)
	_, err := ToARFF(c.String("tsv"), c.String("arff"), c.Bool("force"), logger)
	return err
}

// ToARFF converts a recipe TSV into ARFF. An existing ARFF file is left
// alone unless force is set; written reports whether a file was produced.
func ToARFF(tsvPath, arffPath string, force bool, logger *slog.Logger) (written bool, err error) {
	if _, statErr := os.Stat(arffPath); statErr == nil && !force {
		logger.Warn("ARFF file already exists, skipping", "path", arffPath)
		return false, nil
	}

	recipes, err := readTSV(tsvPath, nil)
	if err != nil {
		return false, err
	}

	f, err := common.CreateFile(arffPath)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if err := arff.Write(f, arff.FromRecipes(recipes)); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", arffPath, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("failed to close %s: %w", arffPath, err)
	}

	logger.Info("ARFF file written", "path", arffPath, "recipes", len(recipes))
	return true, nil
}

func readTSV(path string, parse tsv.NumericParser) ([]models.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open TSV: %w", err)
	}
	defer f.Close()

	recipes, err := tsv.ReadWith(f, parse)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return recipes, nil
}

// WriteTSV writes recipes to path, replacing any existing file.
func WriteTSV(path string, recipes []models.Recipe) error {
	f, err := common.CreateFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := tsv.Write(f, recipes); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func UnifyAction(c *cli.Context) error {
	logger := common.Logger(c)
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	recipes, err := readTSV(c.String("tsv"), NormalizeCell)
	if err != nil {
		return err
	}
	Unify(recipes, common.Unifier(cfg))

	out := c.String("out")
	if err := WriteTSV(out, recipes); err != nil {
		return err
	}
	logger.Info("Unified TSV written", "path", out, "recipes", len(recipes))
	return nil
}

// NormalizeCell parses numeric cells, falling back to the field
// normalizers for raw text such as "1 hr 30 mins" or "4 to 6".
func NormalizeCell(column, cell string) *float64 {
	if v := models.ParseOptional(cell); v != nil {
		return v
	}
	switch column {
	case models.ColPrepTime, models.ColCookTime, models.ColTotalTime:
		if cell == "" || cell == models.MissingMarker {
			return nil
		}
		return models.Float(float64(normalize.TimeToMinutes(cell)))
	case models.ColServings:
		return normalize.ParseServings(cell)
	}
	return nil
}

// Unify rewrites every recipe's ingredient lines in place.
func Unify(recipes []models.Recipe, u *normalize.Unifier) {
	for i := range recipes {
		recipes[i].Ingredients = u.UnifyAll(recipes[i].Ingredients)
	}
}
