// Package scraper fetches web pages and extracts their structured
// content. Each invocation gets its own collector and result slice, so
// no two requests ever share a result queue.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"webagent/pkg/models"
)

// Mode selects the shape of a scrape result.
type Mode string

const (
	// ModeRaw returns the page body as-is.
	ModeRaw Mode = "raw"
	// ModeBeautify returns structured heading+paragraph units.
	ModeBeautify Mode = "beautify"
)

// ValidMode reports whether m is a supported scrape mode.
func ValidMode(m Mode) bool {
	return m == ModeRaw || m == ModeBeautify
}

// ErrTimeout means the scrape or crawl exceeded its budget. Reported
// distinctly from ordinary scrape failures.
var ErrTimeout = errors.New("scrape timed out")

// Config holds scraper configuration. Single-page and whole-crawl
// operations have distinct budgets; the crawl budget is the larger.
type Config struct {
	Delay        time.Duration
	MaxDepth     int
	UserAgent    string
	PageTimeout  time.Duration
	CrawlTimeout time.Duration
}

// Scraper fetches pages over HTTP.
type Scraper struct {
	config Config
}

// New creates a Scraper, filling in defaults for unset fields.
func New(config Config) *Scraper {
	if config.PageTimeout == 0 {
		config.PageTimeout = 5 * time.Minute
	}
	if config.CrawlTimeout == 0 {
		config.CrawlTimeout = 10 * time.Minute
	}
	if config.MaxDepth == 0 {
		config.MaxDepth = 2
	}
	if config.UserAgent == "" {
		config.UserAgent = "webagent/1.0"
	}
	return &Scraper{config: config}
}

// Result is the outcome of a single-page scrape.
type Result struct {
	URL   string
	Title string
	Page  *models.PageContent // set in beautify mode
	Raw   string              // set in raw mode
}

// CrawlItem is the outcome for one page reached during a crawl. Err is
// set instead of content when that page failed.
type CrawlItem struct {
	URL   string
	Title string
	Page  *models.PageContent
	Raw   string
	Err   string
}

// timedOut maps deadline and network-timeout failures onto ErrTimeout.
func timedOut(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Scrape fetches one URL within the single-page budget.
func (s *Scraper) Scrape(ctx context.Context, pageURL string, mode Mode) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.PageTimeout)
	defer cancel()

	slog.Debug("scraping page", "url", pageURL, "mode", mode)

	var result *Result
	var scrapeErr error

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.UserAgent(s.config.UserAgent),
	)
	c.SetRequestTimeout(s.config.PageTimeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	c.OnResponse(func(r *colly.Response) {
		body := string(r.Body)
		res := &Result{
			URL:   r.Request.URL.String(),
			Title: pageTitle(body),
		}
		if mode == ModeRaw {
			res.Raw = body
		} else {
			res.Page = &models.PageContent{
				URL:     pageURL,
				Content: Units(pageURL, r.Headers.Get("Content-Type"), body),
			}
		}
		result = res
	})

	c.OnError(func(_ *colly.Response, err error) {
		scrapeErr = err
	})

	if err := c.Visit(pageURL); err != nil {
		scrapeErr = err
	}
	c.Wait()

	if result == nil {
		if timedOut(ctx, scrapeErr) {
			return nil, fmt.Errorf("%w: %s", ErrTimeout, pageURL)
		}
		if scrapeErr != nil {
			return nil, fmt.Errorf("failed to scrape %s: %w", pageURL, scrapeErr)
		}
		return nil, fmt.Errorf("no data scraped from %s", pageURL)
	}
	return result, nil
}

// Crawl fetches a URL and follows same-domain links up to the
// configured depth, within the whole-crawl budget. Per-page failures
// become items with Err set and never abort the crawl; items already
// collected are returned alongside ErrTimeout when the budget expires.
func (s *Scraper) Crawl(ctx context.Context, startURL string, mode Mode) ([]CrawlItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.CrawlTimeout)
	defer cancel()

	parsed, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL %s: %w", startURL, err)
	}

	slog.Debug("starting crawl", "url", startURL, "mode", mode, "max_depth", s.config.MaxDepth)

	var items []CrawlItem
	var mu sync.Mutex

	c := colly.NewCollector(
		colly.MaxDepth(s.config.MaxDepth),
		colly.UserAgent(s.config.UserAgent),
	)
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       s.config.Delay,
		Parallelism: 2,
	})
	c.SetRequestTimeout(s.config.PageTimeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	c.OnResponse(func(r *colly.Response) {
		body := string(r.Body)
		pageURL := r.Request.URL.String()
		item := CrawlItem{
			URL:   pageURL,
			Title: pageTitle(body),
		}
		if mode == ModeRaw {
			item.Raw = body
		} else {
			item.Page = &models.PageContent{
				URL:     pageURL,
				Content: Units(pageURL, r.Headers.Get("Content-Type"), body),
			}
		}
		mu.Lock()
		items = append(items, item)
		mu.Unlock()
	})

	c.OnError(func(r *colly.Response, err error) {
		mu.Lock()
		items = append(items, CrawlItem{
			URL: r.Request.URL.String(),
			Err: err.Error(),
		})
		mu.Unlock()
	})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		absolute := e.Request.AbsoluteURL(e.Attr("href"))
		link, err := url.Parse(absolute)
		if err != nil {
			return
		}
		if link.Host == parsed.Host {
			e.Request.Visit(absolute)
		}
	})

	if err := c.Visit(startURL); err != nil {
		slog.Debug("crawl visit error", "url", startURL, "error", err)
	}
	c.Wait()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return items, fmt.Errorf("%w: crawl of %s", ErrTimeout, startURL)
	}

	slog.Debug("crawl complete", "url", startURL, "pages", len(items))
	return items, nil
}
