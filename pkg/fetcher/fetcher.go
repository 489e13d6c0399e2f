// Package fetcher downloads pages and images with retries and an optional
// on-disk page cache.
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/dtnitsch/recipe-features/pkg/caching"
)

// UserAgent is sent with every request.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type Fetcher struct {
	client *resty.Client
	cache  *caching.Cache
}

// Options tune the HTTP client. Zero values take the defaults.
type Options struct {
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
	// Cache stores page HTML; images are never cached.
	Cache *caching.Cache
}

func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryCount == 0 {
		opts.RetryCount = 2
	}
	if opts.RetryWait == 0 {
		opts.RetryWait = 500 * time.Millisecond
	}

	client := resty.New()
	client.SetHeader("user-agent", UserAgent)
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.RetryCount)
	client.SetRetryWaitTime(opts.RetryWait)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		return err != nil || res.StatusCode() == http.StatusTooManyRequests || res.StatusCode() >= 500
	})

	return &Fetcher{client: client, cache: opts.Cache}
}

// GetDocument fetches url and parses it as HTML.
func (f *Fetcher) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := f.GetPage(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// GetPage returns the page body, served from the cache when fresh.
func (f *Fetcher) GetPage(ctx context.Context, url string) ([]byte, error) {
	if f.cache != nil {
		if body, ok := f.cache.Get(url); ok {
			return body, nil
		}
	}

	body, err := f.GetBytes(ctx, url)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Set(url, body); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// GetBytes downloads url without touching the cache.
func (f *Fetcher) GetBytes(ctx context.Context, url string) ([]byte, error) {
	res, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s, status code: %d", url, res.StatusCode())
	}
	return res.Body(), nil
}
