// Package ddglite searches DuckDuckGo's lite HTML endpoint and scrapes the
// result table.
package ddglite

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nexaplan/internal/application/port/output"
	"nexaplan/internal/domain/entity"

	"golang.org/x/net/html"
)

var _ output.SearchPort = (*Client)(nil)

const (
	DefaultEndpoint   = "https://lite.duckduckgo.com/lite/"
	DefaultMaxResults = 5
	userAgent         = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

type Config struct {
	Endpoint   string
	MaxResults int
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     output.LoggerPort
}

type Client struct {
	endpoint   string
	maxResults int
	http       *http.Client
	logger     output.LoggerPort
}

func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		maxResults: cfg.MaxResults,
		http:       cfg.HTTPClient,
		logger:     cfg.Logger,
	}
}

func (c *Client) Search(ctx context.Context, query string) ([]entity.SearchResult, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("duckduckgo returned %s", resp.Status)
	}

	results, err := Parse(resp.Body, c.maxResults)
	if err != nil {
		return nil, err
	}
	if c.logger != nil {
		c.logger.Debug("DuckDuckGo lite search", "query", query, "results", len(results))
	}
	return results, nil
}

// Classes names the CSS classes that mark result links and their snippets
// on a DuckDuckGo results page.
type Classes struct {
	Link    string
	Snippet string
}

var (
	// LiteClasses match lite.duckduckgo.com.
	LiteClasses = Classes{Link: "result-link", Snippet: "result-snippet"}
	// HTMLClasses match html.duckduckgo.com.
	HTMLClasses = Classes{Link: "result__a", Snippet: "result__snippet"}
)

// Parse extracts up to limit results from a lite results page.
func Parse(r io.Reader, limit int) ([]entity.SearchResult, error) {
	return ParseClasses(r, LiteClasses, limit)
}

// ParseClasses extracts up to limit results from a results page. Each link
// starts a result; the first snippet element after it fills the snippet.
func ParseClasses(r io.Reader, classes Classes, limit int) ([]entity.SearchResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	var results []entity.SearchResult
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, classes.Link):
				results = append(results, entity.SearchResult{
					Title: collapse(textOf(n)),
					URL:   resolveLink(attr(n, "href")),
				})
				return
			case hasClass(n, classes.Snippet):
				if len(results) > 0 && results[len(results)-1].Snippet == "" {
					results[len(results)-1].Snippet = collapse(textOf(n))
				}
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// resolveLink unwraps DuckDuckGo's /l/?uddg= redirect links.
func resolveLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}
