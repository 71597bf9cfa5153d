// Package browser searches DuckDuckGo through a headless Chromium driven by
// go-rod. It is the fallback when plain HTTP scraping gets blocked.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"nexaplan/internal/application/port/output"
	"nexaplan/internal/domain/entity"
	"nexaplan/internal/infrastructure/search/ddglite"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.SearchPort = (*Client)(nil)

const (
	DefaultEndpoint  = "https://html.duckduckgo.com/html/"
	defaultTimeout   = 20 * time.Second
	pageCloseTimeout = 5 * time.Second
)

type Config struct {
	Endpoint   string
	MaxResults int
	Timeout    time.Duration
	Headless   bool
	NoSandbox  bool
	Logger     output.LoggerPort
}

func DefaultConfig() Config {
	return Config{
		Endpoint:   DefaultEndpoint,
		MaxResults: ddglite.DefaultMaxResults,
		Timeout:    defaultTimeout,
		Headless:   true,
		NoSandbox:  true,
	}
}

// pageFetcher returns the rendered HTML of a URL.
type pageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Close()
}

type Client struct {
	endpoint   string
	maxResults int
	fetcher    pageFetcher
	logger     output.LoggerPort
}

// New does not start Chromium; the first search does.
func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = ddglite.DefaultMaxResults
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		maxResults: cfg.MaxResults,
		fetcher:    &rodFetcher{cfg: cfg},
		logger:     cfg.Logger,
	}
}

func (c *Client) Search(ctx context.Context, query string) ([]entity.SearchResult, error) {
	target := c.endpoint + "?" + url.Values{"q": {query}}.Encode()

	start := time.Now()
	page, err := c.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("browser search: %w", err)
	}

	results, err := ddglite.ParseClasses(strings.NewReader(page), ddglite.HTMLClasses, c.maxResults)
	if err != nil {
		return nil, err
	}
	if c.logger != nil {
		c.logger.Debug("Browser search", "query", query, "results", len(results), "durationMs", time.Since(start).Milliseconds())
	}
	return results, nil
}

// Close shuts down Chromium if it was started.
func (c *Client) Close() {
	c.fetcher.Close()
}

type rodFetcher struct {
	cfg Config

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func (f *rodFetcher) connect() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		return f.browser, nil
	}

	l := launcher.New().
		Headless(f.cfg.Headless).
		NoSandbox(f.cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-setuid-sandbox")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	return browser, nil
}

func (f *rodFetcher) Fetch(ctx context.Context, target string) (string, error) {
	browser, err := f.connect()
	if err != nil {
		return "", err
	}

	page, err := browser.Context(ctx).Timeout(f.cfg.Timeout).Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	defer closePage(ctx, page)

	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait load: %w", err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	return html, nil
}

// closePage closes the tab even when ctx or the page timeout has expired.
func closePage(ctx context.Context, page *rod.Page) {
	closeCtx, cancel := closeContext(ctx)
	defer cancel()
	_ = page.Context(closeCtx).Close()
}

// closeContext keeps ctx's values but not its deadline or cancellation.
func closeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), pageCloseTimeout)
}

func (f *rodFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		_ = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher.Cleanup()
		f.launcher = nil
	}
}
