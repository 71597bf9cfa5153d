// Package langchain adapts langchaingo's DuckDuckGo tool to SearchPort.
package langchain

import (
	"context"
	"fmt"
	"strings"

	"nexaplan/internal/application/port/output"
	"nexaplan/internal/domain/entity"

	"github.com/tmc/langchaingo/tools/duckduckgo"
)

var _ output.SearchPort = (*Client)(nil)

const (
	defaultUserAgent = "nexaplan/1.0"
	noResultsPrefix  = "No good DuckDuckGo Search Result"
)

// caller is the langchaingo tools.Tool method the client uses.
type caller interface {
	Call(ctx context.Context, input string) (string, error)
}

type Client struct {
	tool   caller
	logger output.LoggerPort
}

func New(maxResults int, logger output.LoggerPort) (*Client, error) {
	if maxResults <= 0 {
		maxResults = 5
	}
	tool, err := duckduckgo.New(maxResults, defaultUserAgent)
	if err != nil {
		return nil, fmt.Errorf("create duckduckgo tool: %w", err)
	}
	return &Client{tool: tool, logger: logger}, nil
}

func (c *Client) Search(ctx context.Context, query string) ([]entity.SearchResult, error) {
	out, err := c.tool.Call(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo search: %w", err)
	}

	results := Parse(out)
	if c.logger != nil {
		c.logger.Debug("langchaingo DuckDuckGo search", "query", query, "results", len(results))
	}
	return results, nil
}

// Parse splits the tool's text output into results. Each result is a block
// of "Title:", "Description:" and "URL:" lines separated by blank lines.
// The tool's "no good results" message yields no results. Output in any
// other shape becomes a single result holding the whole text.
func Parse(out string) []entity.SearchResult {
	out = strings.TrimSpace(out)
	if out == "" || strings.HasPrefix(out, noResultsPrefix) {
		return nil
	}

	var results []entity.SearchResult
	for _, block := range strings.Split(out, "\n\n") {
		var r entity.SearchResult
		for _, line := range strings.Split(block, "\n") {
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			switch strings.TrimSpace(key) {
			case "Title":
				r.Title = value
			case "Description":
				r.Snippet = value
			case "URL":
				r.URL = value
			}
		}
		if r.Title != "" || r.Snippet != "" {
			results = append(results, r)
		}
	}

	if len(results) == 0 {
		return []entity.SearchResult{{Snippet: out}}
	}
	return results
}
