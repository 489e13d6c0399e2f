package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/recipe-features/models"
	"github.com/dtnitsch/recipe-features/pkg/normalize"
	"github.com/dtnitsch/recipe-features/pkg/similarity"
	"github.com/dtnitsch/recipe-features/pkg/units"
)

// Logger builds the JSON stderr logger for a command. --quiet wins over --verbose.
func Logger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadConfig reads --config and applies command flags that override it.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	ApplyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyFlags copies explicitly set flags over cfg.
func ApplyFlags(c *cli.Context, cfg *models.Config) {
	if c.IsSet("threshold") {
		cfg.Similarity.Threshold = c.Float64("threshold")
	}
	if c.IsSet("scorer") {
		cfg.Similarity.Scorer = c.String("scorer")
	}
	if c.IsSet("transitive") {
		cfg.Similarity.Transitive = c.Bool("transitive")
	}
	if c.IsSet("min-frequency") {
		cfg.Features.MinFrequency = c.Int("min-frequency")
	}
	if c.IsSet("filter") {
		cfg.Scrape.Filter = c.String("filter")
	}
	if c.IsSet("workers") {
		cfg.Scrape.WorkerCount = c.Int("workers")
	}
	if c.IsSet("images") {
		cfg.Scrape.Images = c.Bool("images")
	}
	if c.IsSet("cache-ttl") {
		cfg.Scrape.CacheTTL = c.Duration("cache-ttl")
	}
}

// Unifier builds the ingredient unifier from the config's unit tables.
func Unifier(cfg *models.Config) *normalize.Unifier {
	return normalize.NewUnifier(units.New(cfg.Units, cfg.Fractions))
}

// Merger builds the similarity merger described by cfg.
func Merger(cfg *models.Config) (similarity.Merger, error) {
	score, err := similarity.ScorerByName(cfg.Similarity.Scorer)
	if err != nil {
		return nil, err
	}
	return &similarity.PairwiseMerger{
		Threshold:  cfg.Similarity.Threshold,
		Score:      score,
		Transitive: cfg.Similarity.Transitive,
	}, nil
}

// RenderTable prints rows as a rounded table.
func RenderTable(w io.Writer, header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// CreateFile opens path for writing. Existing files are replaced.
func CreateFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}
