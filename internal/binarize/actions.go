package binarize

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/recipe-features/internal/common"
	"github.com/dtnitsch/recipe-features/models"
	"github.com/dtnitsch/recipe-features/pkg/arff"
	"github.com/dtnitsch/recipe-features/pkg/features"
	"github.com/dtnitsch/recipe-features/pkg/manifest"
	"github.com/dtnitsch/recipe-features/pkg/storage"
)

func BinarizeAction(c *cli.Context) error {
	logger := common.Logger(c)
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	_, err = Run(c.String("arff"), c.String("out"), cfg, c.Bool("no-manifest"), logger)
	return err
}

// Run builds the feature table from an ARFF file and writes it as CSV,
// followed by a manifest unless skipManifest is set.
func Run(arffPath, outPath string, cfg *models.Config, skipManifest bool, logger *slog.Logger) (*features.Result, error) {
	f, err := os.Open(arffPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ARFF: %w", err)
	}
	ds, err := arff.Read(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", arffPath, err)
	}
	logger.Info("ARFF loaded", "path", arffPath, "rows", len(ds.Rows), "attributes", len(ds.Attributes))

	table, err := features.FromDataset(ds)
	if err != nil {
		return nil, err
	}

	merger, err := common.Merger(cfg)
	if err != nil {
		return nil, err
	}
	res, err := features.NewBuilder(cfg.Features, merger, logger).Build(table)
	if err != nil {
		return nil, fmt.Errorf("failed to build features: %w", err)
	}

	out, err := common.CreateFile(outPath)
	if err != nil {
		return nil, err
	}
	defer out.Close()
	if err := res.Table.WriteCSV(out); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", outPath, err)
	}
	logger.Info("Feature CSV written", "path", outPath, "rows", res.Table.Rows(), "columns", len(res.Table.Names()))

	if !skipManifest {
		summary := manifest.Build(arffPath, outPath, res, time.Now())
		p, err := manifest.Write(summary, &storage.Storage{})
		if err != nil {
			return nil, err
		}
		logger.Info("Manifest written", "path", p)
	}
	return res, nil
}
