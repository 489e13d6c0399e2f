package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/recipe-features/internal/analyze"
	"github.com/dtnitsch/recipe-features/internal/binarize"
	"github.com/dtnitsch/recipe-features/internal/convert"
	"github.com/dtnitsch/recipe-features/internal/db"
	"github.com/dtnitsch/recipe-features/internal/fetch"
	"github.com/dtnitsch/recipe-features/pkg/help"
)

func tsvFlag(value string) cli.Flag {
	return &cli.StringFlag{Name: "tsv", Usage: "recipe TSV file", Value: value, EnvVars: []string{"RFX_TSV"}}
}

func arffFlag(value string) cli.Flag {
	return &cli.StringFlag{Name: "arff", Usage: "recipe ARFF file", Value: value, EnvVars: []string{"RFX_ARFF"}}
}

func outFlag(value string) cli.Flag {
	return &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file", Value: value}
}

var dbFlag = &cli.StringFlag{
	Name:    "db",
	Usage:   "SQLite database path (default: rfx.db next to the binary)",
	EnvVars: []string{"RFX_DB"},
}

var similarityFlags = []cli.Flag{
	&cli.Float64Flag{Name: "threshold", Usage: "similarity ratio above which ingredient names merge (0-1)"},
	&cli.StringFlag{Name: "scorer", Usage: "similarity scorer: lcs, levenshtein or jaro-winkler"},
	&cli.BoolFlag{Name: "transitive", Usage: "collapse chains of similar names to one canonical name"},
}

var scrapeFlags = []cli.Flag{
	&cli.StringFlag{Name: "filter", Usage: "category link substring to scrape", EnvVars: []string{"RFX_FILTER"}},
	&cli.IntFlag{Name: "workers", Usage: "concurrent recipe fetches", EnvVars: []string{"RFX_WORKERS"}},
	&cli.BoolFlag{Name: "images", Usage: "download recipe images into pics/"},
	&cli.StringFlag{Name: "cache-dir", Usage: "cache fetched pages in this directory", EnvVars: []string{"RFX_CACHE_DIR"}},
	&cli.DurationFlag{Name: "cache-ttl", Usage: "how long cached pages stay fresh (0 never expires)"},
	&cli.StringFlag{Name: "base-url", Usage: "site root to start from", Value: "https://www.allrecipes.com/", EnvVars: []string{"RFX_BASE_URL"}},
	&cli.BoolFlag{Name: "force", Usage: "overwrite an existing ARFF file"},
	&cli.BoolFlag{Name: "no-db", Usage: "skip persisting recipes to SQLite"},
	dbFlag,
}

func flags(groups ...[]cli.Flag) []cli.Flag {
	var all []cli.Flag
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

func main() {
	app := &cli.App{
		Name:     "rfx",
		Usage:    "scrape recipes and build ingredient feature tables",
		Compiled: time.Now(),
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors", EnvVars: []string{"RFX_QUIET"}},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log debug output", EnvVars: []string{"RFX_VERBOSE"}},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML pipeline config", EnvVars: []string{"RFX_CONFIG"}},
		},
		Commands: []*cli.Command{
			{
				Name:  "quickstart",
				Usage: "print a YAML cheat sheet of common invocations",
				Action: func(c *cli.Context) error {
					fmt.Print(help.QuickstartYAML)
					return nil
				},
			},
			{
				Name:   "scrape",
				Usage:  "scrape recipes into TSV, ARFF and the database",
				Flags:  flags(scrapeFlags, []cli.Flag{tsvFlag(fetch.DefaultTSV), arffFlag(fetch.DefaultARFF)}),
				Action: fetch.ScrapeAction,
			},
			{
				Name:   "convert",
				Usage:  "convert a recipe TSV to ARFF",
				Flags:  []cli.Flag{tsvFlag(fetch.DefaultTSV), arffFlag(fetch.DefaultARFF), &cli.BoolFlag{Name: "force", Usage: "overwrite an existing ARFF file"}},
				Action: convert.ConvertAction,
			},
			{
				Name:   "unify",
				Usage:  "re-normalize fields and ingredients of a recipe TSV",
				Flags:  []cli.Flag{tsvFlag(fetch.DefaultTSV), outFlag("unified.tsv")},
				Action: convert.UnifyAction,
			},
			{
				Name:  "binarize",
				Usage: "build the binarized feature CSV from an ARFF file",
				Flags: flags(similarityFlags, []cli.Flag{
					arffFlag(fetch.DefaultARFF),
					outFlag(fetch.DefaultCSV),
					&cli.IntFlag{Name: "min-frequency", Usage: "ingredients in fewer recipes fold into other_ingredients"},
					&cli.BoolFlag{Name: "no-manifest", Usage: "skip writing the YAML manifest"},
				}),
				Action: binarize.BinarizeAction,
			},
			{
				Name:  "run",
				Usage: "scrape, convert and binarize with the default file names",
				Flags: flags(scrapeFlags, similarityFlags, []cli.Flag{
					tsvFlag(fetch.DefaultTSV),
					arffFlag(fetch.DefaultARFF),
					outFlag(fetch.DefaultCSV),
					&cli.IntFlag{Name: "min-frequency", Usage: "ingredients in fewer recipes fold into other_ingredients"},
				}),
				Action: fetch.RunAction,
			},
			{
				Name:  "stats",
				Usage: "show the most common simplified ingredients",
				Flags: flags(similarityFlags, []cli.Flag{
					arffFlag(fetch.DefaultARFF),
					&cli.IntFlag{Name: "top", Usage: "rows to show", Value: 25},
				}),
				Action: analyze.StatsAction,
			},
			{
				Name:  "db",
				Usage: "inspect the recipe database",
				Flags: []cli.Flag{dbFlag},
				Subcommands: []*cli.Command{
					{
						Name:   "recipes",
						Usage:  "list stored recipes",
						Flags:  []cli.Flag{&cli.IntFlag{Name: "limit", Usage: "maximum rows (0 for all)", Value: 50}},
						Action: db.RecipesAction,
					},
					{
						Name:   "runs",
						Usage:  "list scrape runs",
						Action: db.RunsAction,
					},
					{
						Name:   "export",
						Usage:  "export stored recipes as TSV",
						Flags:  []cli.Flag{tsvFlag(fetch.DefaultTSV)},
						Action: db.ExportAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
