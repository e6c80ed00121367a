package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/careerscout/careerscout/internal/domain/models"
)

// RawPosting is one job container's extracted text, before normalization.
// Link may be relative to the page it was found on.
type RawPosting struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Link     string `json:"link"`
}

type Config struct {
	Timeout   time.Duration
	UserAgent string
	Headless  bool
}

// Fetcher renders career pages in a headless browser. Each call runs its own
// browser so a hung page can't poison later fetches.
type Fetcher struct {
	cfg Config
}

func NewFetcher(cfg Config) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Fetcher{cfg: cfg}
}

// FetchHTML renders the page and returns its full markup, for learning.
func (f *Fetcher) FetchHTML(ctx context.Context, url string) (string, error) {

	pageCtx, cancel := f.newPageContext(ctx)
	defer cancel()

	var html string
	err := chromedp.Run(pageCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}

	return html, nil
}

type extractionResult struct {
	Count    int          `json:"count"`
	Postings []RawPosting `json:"postings"`
}

// ExtractPostings renders the plan's page and maps every container element
// through the plan's locators. Containers where a non-empty locator resolves
// to nothing are skipped; a container locator that matches no elements at
// all is an error, since that is the usual symptom of a stale plan.
func (f *Fetcher) ExtractPostings(ctx context.Context, plan models.ExtractionPlan) ([]RawPosting, error) {

	pageCtx, cancel := f.newPageContext(ctx)
	defer cancel()

	script := buildExtractionScript(plan.Selectors())

	var result extractionResult
	err := chromedp.Run(pageCtx,
		chromedp.Navigate(plan.SourceURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.EvaluateAsDevTools(script, &result),
	)
	if err != nil {
		return nil, fmt.Errorf("extracting from %s: %w", plan.SourceURL, err)
	}

	if result.Count == 0 {
		return nil, fmt.Errorf("container selector %q matched no elements on %s",
			plan.ContainerSelector, plan.SourceURL)
	}

	return result.Postings, nil
}

func (f *Fetcher) newPageContext(ctx context.Context) (context.Context, context.CancelFunc) {

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", f.cfg.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(f.cfg.UserAgent),
		)...,
	)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	pageCtx, pageCancel := context.WithTimeout(browserCtx, f.cfg.Timeout)

	return pageCtx, func() {
		pageCancel()
		browserCancel()
		allocCancel()
	}
}

func buildExtractionScript(selectors models.PlanSelectors) string {
	return fmt.Sprintf(`(function() {
	var pickText = function(root, sel) {
		if (!sel) { return ""; }
		var el = root.querySelector(sel);
		if (!el) { return null; }
		return el.textContent || "";
	};
	var pickHref = function(root, sel) {
		if (!sel) { return ""; }
		var el = root.querySelector(sel);
		if (!el) { return null; }
		return el.getAttribute("href") || "";
	};
	var containers = document.querySelectorAll(%s);
	var postings = [];
	for (var i = 0; i < containers.length; i++) {
		var title = pickText(containers[i], %s);
		var location = pickText(containers[i], %s);
		var link = pickHref(containers[i], %s);
		if (title === null || location === null || link === null) { continue; }
		postings.push({title: title, location: location, link: link});
	}
	return {count: containers.length, postings: postings};
})()`,
		jsString(selectors.Container),
		jsString(selectors.Title),
		jsString(selectors.Location),
		jsString(selectors.Link),
	)
}

func jsString(s string) string {
	encoded, _ := json.Marshal(s)
	return string(encoded)
}
