// Package scraper collects recipes from allrecipes.com: category discovery
// from the header navigation, listing and gallery pages, recipe detail
// pages and their images.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/recipe-features/models"
	"github.com/dtnitsch/recipe-features/pkg/normalize"
	"github.com/dtnitsch/recipe-features/pkg/storage"
)

// DefaultBaseURL is the site root scraped by default.
const DefaultBaseURL = "https://www.allrecipes.com/"

// maxNestingDepth bounds gallery pages that link to other galleries.
const maxNestingDepth = 2

// Source downloads pages and images.
type Source interface {
	GetPage(ctx context.Context, url string) ([]byte, error)
	GetBytes(ctx context.Context, url string) ([]byte, error)
}

type Scraper struct {
	source  Source
	unifier *normalize.Unifier
	logger  *slog.Logger

	// BaseURL is where category discovery starts.
	BaseURL string
	// Workers is the number of concurrent detail fetchers.
	Workers int
	// Images, when non-nil, receives downloaded recipe images.
	Images *storage.Storage
}

func New(source Source, unifier *normalize.Unifier, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scraper{
		source:  source,
		unifier: unifier,
		logger:  logger,
		BaseURL: DefaultBaseURL,
		Workers: 4,
	}
}

// Result is the outcome of scraping one listed link.
type Result struct {
	Link    Link
	Recipes []models.Recipe
	Error   error
}

func (s *Scraper) document(ctx context.Context, url string) (*goquery.Document, []byte, error) {
	raw, err := s.source.GetPage(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse HTML from %s: %w", url, err)
	}
	return doc, raw, nil
}

// Categories fetches the home page and returns the category links.
func (s *Scraper) Categories(ctx context.Context, filter string) ([]string, error) {
	doc, _, err := s.document(ctx, s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load category navigation: %w", err)
	}
	return CategoryLinks(doc, s.BaseURL, filter), nil
}

// Listing fetches a category page and returns the recipe links on it.
func (s *Scraper) Listing(ctx context.Context, categoryURL string) ([]Link, error) {
	doc, _, err := s.document(ctx, categoryURL)
	if err != nil {
		return nil, err
	}
	return ListingLinks(doc, s.BaseURL), nil
}

// Scrape discovers categories matching filter, lists their recipes and
// fetches every recipe with a pool of workers. Recipes are returned sorted
// by URL. A failed category or recipe is logged and skipped; err is set
// only when category discovery fails.
func (s *Scraper) Scrape(ctx context.Context, filter string) ([]models.Recipe, []Result, error) {
	categories, err := s.Categories(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("Discovered categories", "count", len(categories), "filter", filter)

	var links []Link
	seen := make(map[string]struct{})
	for _, category := range categories {
		found, err := s.Listing(ctx, category)
		if err != nil {
			s.logger.Error("Error loading category", "url", category, "error", err)
			continue
		}
		for _, l := range found {
			if _, dup := seen[l.URL]; dup {
				continue
			}
			seen[l.URL] = struct{}{}
			links = append(links, l)
		}
		s.logger.Info("Collected recipe links", "category", category, "count", len(found))
	}

	results := s.Details(ctx, links)
	recipes := Collect(results)
	s.logger.Info("Scrape finished", "links", len(links), "recipes", len(recipes))
	return recipes, results, nil
}

// Details fetches every link concurrently.
func (s *Scraper) Details(ctx context.Context, links []Link) []Result {
	workers := max(s.Workers, 1)

	var wg sync.WaitGroup
	jobs := make(chan Link, len(links))
	results := make(chan Result, len(links))

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go s.worker(ctx, w, &wg, jobs, results)
	}

	for _, l := range links {
		jobs <- l
	}
	close(jobs)

	wg.Wait()
	close(results)

	all := make([]Result, 0, len(links))
	for r := range results {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Link.URL < all[j].Link.URL })
	return all
}

func (s *Scraper) worker(ctx context.Context, id int, wg *sync.WaitGroup, jobs <-chan Link, results chan<- Result) {
	defer wg.Done()
	for link := range jobs {
		if err := ctx.Err(); err != nil {
			results <- Result{Link: link, Error: err}
			continue
		}
		s.logger.Debug("Worker started job", "worker_id", id, "url", link.URL)
		recipes, err := s.Recipe(ctx, link, 0)
		if err != nil {
			s.logger.Error("Error scraping recipe", "worker_id", id, "url", link.URL, "error", err)
		}
		results <- Result{Link: link, Recipes: recipes, Error: err}
	}
}

// Recipe scrapes one link. Gallery pages expand into the recipes they list.
func (s *Scraper) Recipe(ctx context.Context, link Link, depth int) ([]models.Recipe, error) {
	if isBroken(link.URL) {
		s.logger.Warn("Skipping invalid link", "url", link.URL)
		return nil, nil
	}

	doc, raw, err := s.document(ctx, link.URL)
	if err != nil {
		return nil, err
	}

	if IsNested(link.URL, doc) {
		if depth >= maxNestingDepth {
			s.logger.Warn("Gallery nesting too deep, skipping", "url", link.URL)
			return nil, nil
		}
		nested := NestedLinks(doc, s.BaseURL)
		s.logger.Debug("Expanding gallery", "url", link.URL, "recipes", len(nested))
		var out []models.Recipe
		for _, n := range nested {
			recipes, err := s.Recipe(ctx, n, depth+1)
			if err != nil {
				s.logger.Error("Error scraping nested recipe", "url", n.URL, "error", err)
				continue
			}
			out = append(out, recipes...)
		}
		return out, nil
	}

	r := s.ParseRecipe(doc, raw, link.URL, link.Title)
	if s.Images != nil {
		r.ImagePaths = s.saveImages(ctx, doc, r.Title)
	}
	return []models.Recipe{r}, nil
}

func (s *Scraper) saveImages(ctx context.Context, doc *goquery.Document, title string) []string {
	var paths []string
	for _, u := range ImageURLs(doc, s.BaseURL) {
		data, err := s.source.GetBytes(ctx, u)
		if err != nil {
			s.logger.Warn("Error downloading image", "url", u, "error", err)
			continue
		}
		p, err := s.Images.SaveImage(title, len(paths)+1, data)
		if err != nil {
			s.logger.Warn("Error saving image", "url", u, "error", err)
			continue
		}
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		s.logger.Debug("No images saved", "title", title)
	}
	return paths
}

// Collect flattens successful results, sorted and deduplicated by URL.
func Collect(results []Result) []models.Recipe {
	var recipes []models.Recipe
	seen := make(map[string]struct{})
	for _, r := range results {
		for _, rec := range r.Recipes {
			if _, dup := seen[rec.URL]; dup {
				continue
			}
			seen[rec.URL] = struct{}{}
			recipes = append(recipes, rec)
		}
	}
	sort.SliceStable(recipes, func(i, j int) bool { return recipes[i].URL < recipes[j].URL })
	return recipes
}
