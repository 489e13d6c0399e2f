package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/recipe-features/internal/binarize"
	"github.com/dtnitsch/recipe-features/internal/common"
	"github.com/dtnitsch/recipe-features/internal/convert"
	"github.com/dtnitsch/recipe-features/models"
	"github.com/dtnitsch/recipe-features/pkg/caching"
	"github.com/dtnitsch/recipe-features/pkg/db"
	"github.com/dtnitsch/recipe-features/pkg/fetcher"
	"github.com/dtnitsch/recipe-features/pkg/scraper"
	"github.com/dtnitsch/recipe-features/pkg/storage"
)

// Default file names of a full run.
const (
	DefaultTSV  = "allrecipes_everyday_cooking.tsv"
	DefaultARFF = "allrecipes_everyday_cooking.arff"
	DefaultCSV  = "allrecipes_binarized_everyday_cooking.csv"
)

// Options are the runtime settings of a scrape.
type Options struct {
	TSV      string
	ARFF     string
	Force    bool
	CacheDir string
	DBPath   string
	NoDB     bool
	BaseURL  string
}

func optionsFrom(c *cli.Context) Options {
	return Options{
		TSV:      c.String("tsv"),
		ARFF:     c.String("arff"),
		Force:    c.Bool("force"),
		CacheDir: c.String("cache-dir"),
		DBPath:   c.String("db"),
		NoDB:     c.Bool("no-db"),
		BaseURL:  c.String("base-url"),
	}
}

func ScrapeAction(c *cli.Context) error {
	logger := common.Logger(c)
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	summary, err := Scrape(c.Context, optionsFrom(c), cfg, logger)
	if err != nil {
		return err
	}
	return printSummary(summary)
}

// RunAction scrapes, converts and binarizes in one go.
func RunAction(c *cli.Context) error {
	logger := common.Logger(c)
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	opts := optionsFrom(c)
	summary, err := Scrape(c.Context, opts, cfg, logger)
	if err != nil {
		return err
	}

	res, err := binarize.Run(opts.ARFF, c.String("out"), cfg, false, logger)
	if err != nil {
		return err
	}
	summary.Output = c.String("out")
	summary.Features = len(res.Table.Names())
	return printSummary(summary)
}

func printSummary(s *Summary) error {
	out, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

// Scrape collects recipes, stores them and writes the TSV and ARFF files.
func Scrape(ctx context.Context, opts Options, cfg *models.Config, logger *slog.Logger) (*Summary, error) {
	startTime := time.Now()

	fopts := fetcher.Options{}
	if opts.CacheDir != "" {
		cache, err := caching.NewCache(opts.CacheDir, cfg.Scrape.CacheTTL)
		if err != nil {
			return nil, err
		}
		if n, err := cache.Prune(); err != nil {
			logger.Warn("Failed to prune page cache", "dir", opts.CacheDir, "error", err)
		} else if n > 0 {
			logger.Debug("Pruned expired pages", "dir", opts.CacheDir, "removed", n)
		}
		fopts.Cache = cache
	}

	s := scraper.New(fetcher.NewFetcher(fopts), common.Unifier(cfg), logger)
	if opts.BaseURL != "" {
		s.BaseURL = opts.BaseURL
	}
	if cfg.Scrape.WorkerCount > 0 {
		s.Workers = cfg.Scrape.WorkerCount
	}
	if cfg.Scrape.Images {
		s.Images = &storage.Storage{}
	}

	var database *db.DB
	var runID string
	if !opts.NoDB {
		var err error
		database, err = db.Open(opts.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		runID, err = database.CreateRun(ctx, cfg.Scrape.Filter)
		if err != nil {
			return nil, err
		}
		logger.Info("Scrape run started", "run_id", runID, "db", database.Path())
	}

	recipes, results, err := s.Scrape(ctx, cfg.Scrape.Filter)
	if err != nil {
		if database != nil {
			if ferr := database.FinishRun(ctx, runID, 0, 1, db.RunFailed); ferr != nil {
				logger.Warn("Failed to record failed run", "run_id", runID, "error", ferr)
			}
		}
		return nil, err
	}

	summary := BuildSummary(results, recipes)
	summary.RunID = runID
	summary.Filter = cfg.Scrape.Filter

	if database != nil {
		if err := database.SaveRecipes(ctx, runID, recipes); err != nil {
			return nil, err
		}
		if err := database.FinishRun(ctx, runID, len(recipes), len(summary.Failed), db.RunCompleted); err != nil {
			return nil, err
		}
	}

	if err := convert.WriteTSV(opts.TSV, recipes); err != nil {
		return nil, err
	}
	summary.TSV = opts.TSV
	logger.Info("TSV written", "path", opts.TSV, "recipes", len(recipes))

	written, err := convert.ToARFF(opts.TSV, opts.ARFF, opts.Force, logger)
	if err != nil {
		return nil, err
	}
	summary.ARFF = opts.ARFF
	summary.ARFFSkipped = !written
	summary.Duration = time.Since(startTime).Round(time.Millisecond).String()
	return summary, nil
}
