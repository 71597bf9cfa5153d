package tool

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"nexaplan/internal/domain/entity"
	"nexaplan/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearch struct {
	results []entity.SearchResult
	err     error
	panic   bool
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, query string) ([]entity.SearchResult, error) {
	f.queries = append(f.queries, query)
	if f.panic {
		panic("parser blew up")
	}
	return f.results, f.err
}

func newSearchTool(search *fakeSearch) *SearchTool {
	st := NewSearchTool(search, logger.NewNop())
	st.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return st
}

func TestSearchTool_AppendsStatusSuffix(t *testing.T) {
	search := &fakeSearch{results: []entity.SearchResult{{Snippet: "Light traffic"}}}

	out, err := newSearchTool(search).Execute(context.Background(), `{"query":"Mumbai traffic"}`)

	require.NoError(t, err)
	assert.Equal(t, []string{"Mumbai traffic current status 2026"}, search.queries)
	assert.Equal(t, "- Light traffic...", out)
}

func TestSearchTool_ProviderFailure(t *testing.T) {
	search := &fakeSearch{err: errors.New("rate limited")}

	out, err := newSearchTool(search).Execute(context.Background(), `{"query":"x"}`)

	assert.NoError(t, err)
	assert.Contains(t, out, "Search error")
	assert.Contains(t, out, "rate limited")
}

func TestSearchTool_ProviderPanic(t *testing.T) {
	out, err := newSearchTool(&fakeSearch{panic: true}).Execute(context.Background(), `{"query":"x"}`)

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Search error"))
}

func TestSearchTool_NoResults(t *testing.T) {
	out, err := newSearchTool(&fakeSearch{}).Execute(context.Background(), `{"query":"x"}`)

	assert.NoError(t, err)
	assert.Equal(t, "Search error: no results found", out)
}

func TestSearchTool_EmptyQuery(t *testing.T) {
	search := &fakeSearch{}
	out, err := newSearchTool(search).Execute(context.Background(), `{"query":"  "}`)

	assert.NoError(t, err)
	assert.Contains(t, out, "Search error")
	assert.Empty(t, search.queries)
}

func TestSearchTool_LimitsAndTruncates(t *testing.T) {
	long := strings.Repeat("वेन्यू ", 100)
	results := make([]entity.SearchResult, 5)
	for i := range results {
		results[i] = entity.SearchResult{Snippet: long}
	}

	out, err := newSearchTool(&fakeSearch{results: results}).Execute(context.Background(), `{"query":"venues"}`)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		require.True(t, strings.HasPrefix(line, "- "))
		snippet := strings.TrimPrefix(line, "- ")
		assert.True(t, strings.HasSuffix(snippet, "..."))
		assert.LessOrEqual(t, utf8.RuneCountInString(snippet), 253)
	}
}

func TestFormatSnippets_FallsBackToTitle(t *testing.T) {
	out := FormatSnippets([]entity.SearchResult{
		{Title: "Cafe Madras", Snippet: ""},
		{Title: "ignored", Snippet: "Open\n  till   late"},
	}, 3, 250)

	assert.Equal(t, "- Cafe Madras...\n- Open till late...", out)
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"query":"Delhi weather"}`, "Delhi weather"},
		{`{"query":{"description":"Pune venues","type":"string"}}`, "Pune venues"},
		{`"Chennai rain"`, "Chennai rain"},
		{`Hyderabad traffic`, "Hyderabad traffic"},
		{`{"q":"wrong key"}`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseQuery(tt.in), tt.in)
	}
}
