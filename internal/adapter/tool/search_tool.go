package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"nexaplan/internal/application/port/output"
	"nexaplan/internal/domain/entity"
)

var _ output.ToolPort = (*SearchTool)(nil)

const (
	maxSearchSnippets = 3
	maxSnippetRunes   = 250
	searchErrorPrefix = "Search error: "
)

// SearchTool wraps a SearchPort for the model. It never returns an error:
// provider failures come back as a "Search error: ..." observation so a run
// does not abort because search is down.
type SearchTool struct {
	search output.SearchPort
	logger output.LoggerPort
	now    func() time.Time
}

func NewSearchTool(search output.SearchPort, logger output.LoggerPort) *SearchTool {
	return &SearchTool{
		search: search,
		logger: logger,
		now:    time.Now,
	}
}

func (t *SearchTool) Name() entity.ToolName { return entity.ToolHyperLocalSearch }

func (t *SearchTool) Description() string {
	return "Searches for hyper-local venue and traffic conditions in Indian metros."
}

func (t *SearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "What to look up, e.g. \"Mumbai traffic\" or \"vegan restaurants Bandra\"",
			},
		},
		"required": []string{"query"},
	}
}

func (t *SearchTool) Execute(ctx context.Context, arguments string) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("Search provider panicked", "panic", r)
			result, err = fmt.Sprintf("%s%v", searchErrorPrefix, r), nil
		}
	}()

	query := parseQuery(arguments)
	if query == "" {
		return searchErrorPrefix + "query is empty", nil
	}
	query = fmt.Sprintf("%s current status %d", query, t.now().Year())

	start := time.Now()
	results, searchErr := t.search.Search(ctx, query)
	if searchErr != nil {
		t.logger.Warn("Search failed", "query", query, "error", searchErr, "durationMs", time.Since(start).Milliseconds())
		return searchErrorPrefix + searchErr.Error(), nil
	}
	if len(results) == 0 {
		t.logger.Info("Search returned nothing", "query", query)
		return searchErrorPrefix + "no results found", nil
	}

	t.logger.Debug("Search completed", "query", query, "results", len(results), "durationMs", time.Since(start).Milliseconds())
	return FormatSnippets(results, maxSearchSnippets, maxSnippetRunes), nil
}

// FormatSnippets renders at most limit results as "- <text>..." lines, the
// text cut to maxRunes runes. Results without a snippet fall back to their
// title.
func FormatSnippets(results []entity.SearchResult, limit, maxRunes int) string {
	if len(results) > limit {
		results = results[:limit]
	}

	lines := make([]string, 0, len(results))
	for _, r := range results {
		text := r.Snippet
		if strings.TrimSpace(text) == "" {
			text = r.Title
		}
		text = strings.Join(strings.Fields(text), " ")
		lines = append(lines, "- "+truncateRunes(text, maxRunes)+"...")
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// parseQuery accepts {"query": "..."}, a JSON string or plain text. Small
// local models are not consistent about which one they send.
func parseQuery(arguments string) string {
	arguments = strings.TrimSpace(arguments)
	if arguments == "" {
		return ""
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(arguments), &obj); err == nil {
		raw, ok := obj["query"]
		if !ok {
			return ""
		}
		var q string
		if err := json.Unmarshal(raw, &q); err == nil {
			return strings.TrimSpace(q)
		}
		var nested struct {
			Description string `json:"description"`
		}
		if err := json.Unmarshal(raw, &nested); err == nil {
			return strings.TrimSpace(nested.Description)
		}
		return ""
	}

	var s string
	if err := json.Unmarshal([]byte(arguments), &s); err == nil {
		return strings.TrimSpace(s)
	}
	return arguments
}
