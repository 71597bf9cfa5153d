package browser

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	html   string
	err    error
	url    string
	closed bool
}

func (f *fakeFetcher) Fetch(_ context.Context, u string) (string, error) {
	f.url = u
	return f.html, f.err
}

func (f *fakeFetcher) Close() { f.closed = true }

const resultsPage = `<html><body>
<div class="result"><a class="result__a" href="https://example.com/one">One</a>
<a class="result__snippet">First venue, rooftop seating.</a></div>
<div class="result"><a class="result__a" href="https://example.com/two">Two</a>
<a class="result__snippet">Second venue.</a></div>
</body></html>`

func TestClient_Search(t *testing.T) {
	ff := &fakeFetcher{html: resultsPage}
	c := &Client{endpoint: DefaultEndpoint, maxResults: 1, fetcher: ff}

	results, err := c.Search(context.Background(), "Pune venues current status 2026")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "First venue, rooftop seating.", results[0].Snippet)

	u, err := url.Parse(ff.url)
	require.NoError(t, err)
	assert.Equal(t, "html.duckduckgo.com", u.Host)
	assert.Equal(t, "Pune venues current status 2026", u.Query().Get("q"))
}

func TestClient_SearchFetchError(t *testing.T) {
	c := &Client{endpoint: DefaultEndpoint, maxResults: 3, fetcher: &fakeFetcher{err: errors.New("chrome not found")}}

	_, err := c.Search(context.Background(), "x")

	assert.ErrorContains(t, err, "chrome not found")
}

func TestClient_Close(t *testing.T) {
	ff := &fakeFetcher{}
	c := &Client{fetcher: ff}
	c.Close()
	assert.True(t, ff.closed)
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{})
	assert.Equal(t, DefaultEndpoint, c.endpoint)
	assert.Greater(t, c.maxResults, 0)
	c.Close()
}

func TestCloseContext_OutlivesExpiredRequest(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	closeCtx, closeCancel := closeContext(ctx)
	defer closeCancel()

	require.NoError(t, closeCtx.Err())
	deadline, ok := closeCtx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(pageCloseTimeout), deadline, time.Second)
}
