package scraper

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/dtnitsch/recipe-features/models"
	"github.com/dtnitsch/recipe-features/pkg/normalize"
)

// NoTitle and NoCategory fill text fields the page does not provide.
const (
	NoTitle    = "No title"
	NoCategory = "No info"
)

// Link is a recipe URL with the title the listing page showed for it.
type Link struct {
	URL   string
	Title string
}

// brokenLink marks hrefs the site renders when a recipe reference is empty.
const brokenLink = "undefinedundefined"

func isBroken(href string) bool {
	return strings.Contains(href, brokenLink)
}

// resolve makes href absolute against base. Unparseable hrefs are returned as is.
func resolve(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

// CategoryLinks returns the header navigation links that point at recipe
// categories, optionally narrowed to those containing filter.
func CategoryLinks(doc *goquery.Document, base, filter string) []string {
	var links []string
	doc.Find("nav#mntl-header-nav_1-0 a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.Contains(href, "recipes") {
			return
		}
		if filter != "" && !strings.Contains(href, filter) {
			return
		}
		links = append(links, resolve(base, href))
	})
	return links
}

// ListingLinks extracts recipe links from a category page. Headed list
// entries take precedence; pages without them fall back to recipe cards.
func ListingLinks(doc *goquery.Document, base string) []Link {
	var links []Link

	headings := doc.Find("div.mntl-sc-block.allrecipes-sc-block-heading.mntl-sc-block-heading")
	if headings.Length() > 0 {
		headings.Each(func(_ int, s *goquery.Selection) {
			title := strings.TrimSpace(s.Find("span.mntl-sc-block-heading__text").First().Text())
			href, ok := nextLink(s)
			if !ok || isBroken(href) {
				return
			}
			links = append(links, Link{URL: resolve(base, href), Title: title})
		})
		return links
	}

	doc.Find("a.mntl-card-list-items[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if isBroken(href) {
			return
		}
		links = append(links, Link{URL: resolve(base, href)})
	})
	return links
}

// nextLink finds the first a[href] at or after s in document order.
func nextLink(s *goquery.Selection) (string, bool) {
	if href, ok := s.Find("a[href]").First().Attr("href"); ok {
		return href, true
	}
	for cur := s; cur.Length() > 0 && !cur.Is("body"); cur = cur.Parent() {
		for sib := cur.Next(); sib.Length() > 0; sib = sib.Next() {
			if sib.Is("a[href]") {
				href, _ := sib.Attr("href")
				return href, true
			}
			if href, ok := sib.Find("a[href]").First().Attr("href"); ok {
				return href, true
			}
		}
	}
	return "", false
}

// IsNested reports whether the page is a gallery of other recipes rather
// than a recipe itself.
func IsNested(pageURL string, doc *goquery.Document) bool {
	return strings.Contains(pageURL, "gallery") || doc.Find("div.comp.list-sc").Length() > 0
}

// NestedLinks extracts the recipes referenced by a gallery page.
func NestedLinks(doc *goquery.Document, base string) []Link {
	var links []Link
	doc.Find("div.comp.list-sc.article-content div.comp.list-sc__content div.comp.list-sc-item").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("span.mntl-sc-block-heading__text").First().Text())
		href, ok := s.Find("div.mntl-sc-block-universal-featured-link a[href]").First().Attr("href")
		if title == "" || !ok || isBroken(href) {
			return
		}
		links = append(links, Link{URL: resolve(base, href), Title: title})
	})
	return links
}

// ParseRecipe reads the recipe fields from a detail page. Title is used
// when non-empty; otherwise the page heading, then the readable article
// title of raw, then NoTitle.
func (s *Scraper) ParseRecipe(doc *goquery.Document, raw []byte, pageURL, title string) models.Recipe {
	r := models.Recipe{
		URL:      pageURL,
		Title:    pageTitle(doc, raw, pageURL, title),
		Category: Category(doc),
	}

	rating := doc.Find("#mm-recipes-review-bar_1-0 .mm-recipes-review-bar__rating").First()
	r.Rating = models.ParseOptional(strings.TrimSpace(rating.Text()))

	doc.Find("div.mm-recipes-details__content div.mm-recipes-details__item").Each(func(_ int, item *goquery.Selection) {
		label := strings.TrimSpace(item.Find("div.mm-recipes-details__label").First().Text())
		value := strings.TrimSpace(item.Find("div.mm-recipes-details__value").First().Text())
		switch label {
		case "Prep Time:":
			r.PrepTime = minutes(value)
		case "Cook Time:":
			r.CookTime = minutes(value)
		case "Total Time:":
			r.TotalTime = minutes(value)
		case "Servings:":
			r.Servings = normalize.ParseServings(value)
		}
	})

	r.Ingredients = s.unifier.UnifyAll(Ingredients(doc))
	return r
}

func minutes(value string) *float64 {
	return models.Float(float64(normalize.TimeToMinutes(value)))
}

func pageTitle(doc *goquery.Document, raw []byte, pageURL, title string) string {
	if title != "" && title != NoTitle {
		return title
	}
	if h := strings.TrimSpace(doc.Find("h1.article-heading").First().Text()); h != "" {
		return h
	}
	if u, err := url.Parse(pageURL); err == nil && len(raw) > 0 {
		parser := readability.NewParser()
		article, err := parser.Parse(bytes.NewReader(raw), u)
		if err == nil {
			if t := strings.TrimSpace(article.Title); t != "" {
				return t
			}
		}
	}
	return NoTitle
}

// Category is the second breadcrumb, or NoCategory.
func Category(doc *goquery.Document) string {
	items := doc.Find("ul.mntl-universal-breadcrumbs li.mntl-breadcrumbs__item")
	if items.Length() < 2 {
		return NoCategory
	}
	span := items.Eq(1).Find("span.link__wrapper").First()
	if text := strings.TrimSpace(span.Text()); text != "" {
		return text
	}
	return NoCategory
}

// Ingredients joins quantity, unit and name of each structured ingredient.
func Ingredients(doc *goquery.Document) []string {
	var out []string
	doc.Find("#mm-recipes-structured-ingredients_1-0 li.mm-recipes-structured-ingredients__list-item").Each(func(_ int, item *goquery.Selection) {
		var parts []string
		for _, attr := range []string{"data-ingredient-quantity", "data-ingredient-unit", "data-ingredient-name"} {
			text := strings.TrimSpace(item.Find("span[" + attr + "='true']").First().Text())
			if text != "" {
				parts = append(parts, text)
			}
		}
		if len(parts) > 0 {
			out = append(out, strings.Join(parts, " "))
		}
	})
	return out
}

// ImageURLs lists the article images, preferring the largest srcset entry.
func ImageURLs(doc *goquery.Document, base string) []string {
	var urls []string
	doc.Find("div.loc.article-content img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			return
		}
		if srcset, ok := img.Attr("srcset"); ok {
			entries := strings.Split(srcset, ",")
			if fields := strings.Fields(entries[len(entries)-1]); len(fields) > 0 {
				src = fields[0]
			}
		}
		urls = append(urls, resolve(base, src))
	})
	return urls
}
