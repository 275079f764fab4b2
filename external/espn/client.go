package espn

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	crerr "github.com/cockroachdb/errors"

	"github.com/midwicket/crickstack/internal/enrichment"
	"github.com/midwicket/crickstack/internal/platform/logging"
	"github.com/midwicket/crickstack/internal/platform/resilience"
)

const (
	defaultBaseURL = "https://www.espncricinfo.com"
	defaultTimeout = 60 * time.Second

	// Desktop Safari. ESPN serves the __NEXT_DATA__ page shell to
	// regular browsers only.
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Safari/605.1.15"
)

var errESPNTransient = crerr.New("espn transient failure")

// ErrNotFound reports a match id ESPN does not know about. Not retryable.
var ErrNotFound = crerr.New("espn match not found")

type ClientConfig struct {
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client drives a headless browser against ESPN match pages. ESPN renders
// everything client side, so plain HTTP gets an empty shell; the browser
// executes enough of the page to leave __NEXT_DATA__ in the DOM.
//
// One browser process is shared across all fetches. Close releases it.
type Client struct {
	baseURL      string
	userAgent    string
	timeout      time.Duration
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger

	breaker        *resilience.CircuitBreaker
	circuitEnabled bool

	startOnce sync.Once
	startErr  error

	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	// fetchHTML is swapped in tests to avoid launching a browser.
	fetchHTML func(ctx context.Context, url string) (string, error)
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	c := &Client{
		baseURL:        baseURL,
		userAgent:      userAgent,
		timeout:        timeout,
		maxRetries:     maxRetries,
		retryBackoff:   5 * time.Second,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
	c.fetchHTML = c.fetchWithBrowser
	return c
}

// Close shuts the shared browser down. Safe to call without a prior fetch.
func (c *Client) Close() {
	if c.browserCancel != nil {
		c.browserCancel()
	}
	if c.allocCancel != nil {
		c.allocCancel()
	}
}

// DiscoverSeries probes the legacy match URL, which redirects to the
// canonical page for any competition, and extracts the series metadata.
// Satisfies enrichment.ProbeFunc.
func (c *Client) DiscoverSeries(ctx context.Context, matchID string) (*enrichment.Discovery, error) {
	url := fmt.Sprintf("%s/ci/engine/match/%s.html", c.baseURL, matchID)

	nextData, err := c.fetchNextData(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("discover series match_id=%s: %w", matchID, err)
	}

	discovery, err := seriesFromNextData(nextData, matchID)
	if err != nil {
		c.logger.WarnContext(ctx, "series info missing from match page", "match_id", matchID, "error", err)
		return nil, nil
	}
	return discovery, nil
}

// ScrapeMatch fetches the full scorecard page and extracts the squad and
// role enrichment for one match.
func (c *Client) ScrapeMatch(ctx context.Context, matchID string, seriesID int64) (enrichment.MatchEnrichment, error) {
	url := fmt.Sprintf("%s/series/x-%d/x-%s/full-scorecard", c.baseURL, seriesID, matchID)

	nextData, err := c.fetchNextData(ctx, url)
	if err != nil {
		return enrichment.MatchEnrichment{}, fmt.Errorf("scrape match_id=%s series_id=%d: %w", matchID, seriesID, err)
	}

	item, err := matchFromNextData(nextData)
	if err != nil {
		return enrichment.MatchEnrichment{}, fmt.Errorf("extract match_id=%s: %w", matchID, err)
	}
	item.CricsheetMatchID = matchID
	return item, nil
}

func (c *Client) fetchNextData(ctx context.Context, url string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("espn is temporarily unavailable: %w", err)
		}
	}

	html, err := c.fetchPage(ctx, url)
	if c.circuitEnabled {
		if err != nil && crerr.Is(err, errESPNTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return nil, err
	}
	return extractNextData(html)
}

func (c *Client) fetchPage(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		html, err := c.fetchHTML(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err
		if !crerr.Is(err, errESPNTransient) {
			return "", err
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * c.retryBackoff
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "espn request failed", "url", url, "error", lastErr)
	return "", lastErr
}

func (c *Client) start() error {
	c.startOnce.Do(func() {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.UserAgent(c.userAgent),
		)
		c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
		c.browserCtx, c.browserCancel = chromedp.NewContext(c.allocCtx)

		// Materialize the browser process up front so launch failures
		// surface here instead of on the first page fetch.
		if err := chromedp.Run(c.browserCtx); err != nil {
			c.startErr = fmt.Errorf("launch browser: %w", err)
		}
	})
	return c.startErr
}

func (c *Client) fetchWithBrowser(ctx context.Context, url string) (string, error) {
	if err := c.start(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tabCtx, cancelTab := chromedp.NewContext(c.browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("%w: render %s: %v", errESPNTransient, url, err)
	}
	return html, nil
}
