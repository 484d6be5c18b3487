package rssfeed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"newspy/internal/domain/entity"
	"newspy/internal/infra/rssfeed"
	"newspy/internal/infra/sourcelist"
	"newspy/internal/infra/transport"
	"newspy/internal/resilience/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marketsFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Markets</title>
<item>
  <title>Three global cities are pulling ahead</title>
  <description>Miami, Dubai and Singapore boom</description>
  <link>https://example.com/cities</link>
  <pubDate>Sun, 12 Mar 2023 13:00:35 GMT</pubDate>
</item>
<item>
  <title>UK seeks to tap Middle East money</title>
  <description>Lead white knight eyeing British arm</description>
  <link>https://example.com/svb</link>
  <pubDate>Sun, 12 Mar 2023 12:54:53 GMT</pubDate>
</item>
</channel></rss>`

func newClient() *transport.Client {
	return transport.New(transport.WithRetryConfig(retry.Config{
		MaxAttempts:    2,
		InitialDelay:   time.Millisecond,
		MaxDelay:       5 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0,
	}))
}

type staticSources []entity.Source

func (s staticSources) Load(_ context.Context, opts sourcelist.Options) []entity.Source {
	var out []entity.Source
	for _, src := range s {
		if opts.Category != "" && src.Category != opts.Category {
			continue
		}
		if opts.Language != "" && src.Language != opts.Language {
			continue
		}
		out = append(out, src)
	}
	return out
}

func rssSource(id, url string) entity.Source {
	return entity.Source{
		ID:      id,
		Name:    "Markets Desk",
		Channel: entity.ChannelRSS,
		URL:     url,
	}
}

func TestGetArticles_NormalizesFeedItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(marketsFeed))
	}))
	defer srv.Close()

	client := rssfeed.NewClient(newClient(), staticSources(nil))
	articles := client.GetArticles(context.Background(), []entity.Source{rssSource("markets", srv.URL)})

	require.Len(t, articles, 2)

	a := articles[0]
	assert.Equal(t, "markets-desk-three-global-cities-are-pulling-ahead", a.Slug)
	assert.Equal(t, "Three global cities are pulling ahead", a.Title)
	assert.Equal(t, "Miami, Dubai and Singapore boom", a.Abstract)
	assert.Equal(t, "https://example.com/cities", a.URL)
	assert.Equal(t, "markets", a.Source.ID)
	assert.False(t, a.Published.IsZero())
}

func TestGetArticles_FailedFeedDropsOnlyItsOwnItems(t *testing.T) {
	// Source A always answers 503; source B serves a valid 2-item feed.
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(marketsFeed))
	}))
	defer healthy.Close()

	client := rssfeed.NewClient(newClient(), staticSources(nil))
	articles := client.GetArticles(context.Background(), []entity.Source{
		rssSource("source-a", broken.URL),
		rssSource("source-b", healthy.URL),
	})

	require.Len(t, articles, 2)
	for _, a := range articles {
		assert.Equal(t, "source-b", a.Source.ID)
	}
}

func TestGetArticles_PersistentFeedFailuresOpenCircuit(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := rssfeed.NewClient(newClient(), staticSources(nil))
	sources := []entity.Source{rssSource("dead-feed", srv.URL)}

	// Ten straight failures trip the per-source breaker.
	for i := 0; i < 10; i++ {
		assert.Empty(t, client.GetArticles(context.Background(), sources))
	}
	before := hits.Load()

	// With the circuit open the fetch fails fast without touching the
	// server.
	assert.Empty(t, client.GetArticles(context.Background(), sources))
	assert.Equal(t, before, hits.Load())
}

func TestGetArticles_UnparsableDateDropsSingleItem(t *testing.T) {
	const feed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>t</title>
<item><title>Good date</title><link>https://example.com/good</link><pubDate>Sun, 12 Mar 2023 13:00:35 GMT</pubDate></item>
<item><title>Bad date</title><link>https://example.com/bad</link><pubDate>sometime last week</pubDate></item>
</channel></rss>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	client := rssfeed.NewClient(newClient(), staticSources(nil))
	articles := client.GetArticles(context.Background(), []entity.Source{rssSource("feed", srv.URL)})

	require.Len(t, articles, 1)
	assert.Equal(t, "Good date", articles[0].Title)
}

func TestGetArticles_ItemWithoutDateIsKept(t *testing.T) {
	const feed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>t</title>
<item><title>No date at all</title><link>https://example.com/nodate</link></item>
</channel></rss>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	client := rssfeed.NewClient(newClient(), staticSources(nil))
	articles := client.GetArticles(context.Background(), []entity.Source{rssSource("feed", srv.URL)})

	require.Len(t, articles, 1)
	assert.True(t, articles[0].Published.IsZero())
}

func TestGetSources_DelegatesFilters(t *testing.T) {
	catalog := staticSources{
		{ID: "biz-en", Name: "Biz EN", Channel: entity.ChannelRSS, Category: "business", Language: "en"},
		{ID: "tech-en", Name: "Tech EN", Channel: entity.ChannelRSS, Category: "technology", Language: "en"},
		{ID: "biz-fr", Name: "Biz FR", Channel: entity.ChannelRSS, Category: "business", Language: "fr"},
	}

	client := rssfeed.NewClient(newClient(), catalog)
	sources := client.GetSources(context.Background(), "business", "en")

	require.Len(t, sources, 1)
	assert.Equal(t, "biz-en", sources[0].ID)
}
