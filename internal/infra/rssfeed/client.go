// Package rssfeed adapts independently-hosted RSS/Atom feeds to the
// canonical article model. Each source's feed is fetched concurrently;
// a dead feed costs its own articles and nothing else.
package rssfeed

import (
	"context"
	"log/slog"
	"sync"

	"newspy/internal/common/fanout"
	"newspy/internal/domain/entity"
	"newspy/internal/infra/feedparser"
	"newspy/internal/infra/sourcelist"
	"newspy/internal/infra/transport"
	"newspy/internal/observability/metrics"
	"newspy/internal/resilience/circuitbreaker"
	"newspy/internal/utils/text"
)

// Sender is the transport contract the adapter needs. Satisfied by
// *transport.Client.
type Sender interface {
	Send(ctx context.Context, req transport.Request) (*transport.Response, error)
}

// SourceLister resolves the configured RSS sources. Satisfied by
// *sourcelist.Loader.
type SourceLister interface {
	Load(ctx context.Context, opts sourcelist.Options) []entity.Source
}

// Client is the RSS provider adapter. Each source gets its own circuit
// breaker so a persistently dead feed stops being hammered without
// affecting the healthy ones.
type Client struct {
	sender  Sender
	sources SourceLister

	mu       sync.Mutex
	breakers map[string]*circuitbreaker.CircuitBreaker
}

// NewClient creates a Client fetching feeds through sender and
// resolving the source catalog through sources.
func NewClient(sender Sender, sources SourceLister) *Client {
	return &Client{
		sender:   sender,
		sources:  sources,
		breakers: make(map[string]*circuitbreaker.CircuitBreaker),
	}
}

// breakerFor returns the source's circuit breaker, creating it on
// first use.
func (c *Client) breakerFor(sourceID string) *circuitbreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()
	cb, ok := c.breakers[sourceID]
	if !ok {
		cfg := circuitbreaker.FeedFetchConfig()
		cfg.Name = "feed-" + sourceID
		cb = circuitbreaker.New(cfg)
		c.breakers[sourceID] = cb
	}
	return cb
}

// GetSources returns the catalog sources matching the filters.
func (c *Client) GetSources(ctx context.Context, category entity.Category, language entity.Language) []entity.Source {
	return c.sources.Load(ctx, sourcelist.Options{Category: category, Language: language})
}

// GetArticles fetches every source's feed concurrently and merges the
// normalized articles. Failed feeds are logged and dropped; the merge
// preserves source order and within-feed item order. It never fails the
// whole call on a per-feed error.
func (c *Client) GetArticles(ctx context.Context, sources []entity.Source) []entity.Article {
	tasks := make([]fanout.Task[[]entity.Article], len(sources))
	for i, src := range sources {
		src := src
		tasks[i] = func(ctx context.Context) ([]entity.Article, error) {
			return c.fetchFeed(ctx, src)
		}
	}

	results := fanout.Settle(ctx, tasks)

	var articles []entity.Article
	for i, r := range results {
		if r.Err != nil {
			slog.Warn("feed fetch failed, dropping source contribution",
				slog.String("source", sources[i].ID),
				slog.String("url", sources[i].URL),
				slog.Any("error", r.Err))
			continue
		}
		articles = append(articles, r.Value...)
	}
	return articles
}

// fetchFeed fetches one source's feed and normalizes its items.
func (c *Client) fetchFeed(ctx context.Context, src entity.Source) ([]entity.Article, error) {
	result, err := c.breakerFor(src.ID).Execute(func() (interface{}, error) {
		return c.sender.Send(ctx, transport.Request{
			Method:  "GET",
			URL:     src.URL,
			Headers: map[string]string{"Content-Type": transport.ContentTypeXML},
		})
	})
	if err != nil {
		return nil, err
	}
	resp := result.(*transport.Response)

	articles := make([]entity.Article, 0, len(resp.FeedItems))
	for _, item := range resp.FeedItems {
		article, ok := toArticle(item, src)
		if !ok {
			continue
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// toArticle normalizes one feed item. Items whose published date cannot
// be parsed are dropped with a warning; date trouble in one item must
// not cost the rest of the feed.
func toArticle(item feedparser.Item, src entity.Source) (entity.Article, bool) {
	article := entity.Article{
		Slug:     text.Slugify(src.Name) + "-" + text.Slugify(item.Title),
		URL:      item.URL,
		Title:    item.Title,
		Abstract: item.Description,
		Source:   src,
	}

	switch {
	case item.PublishedParsed != nil:
		article.Published = *item.PublishedParsed
	case item.Published != "":
		ts, err := text.ParseTimestamp(item.Published)
		if err != nil {
			slog.Warn("skipping item with unparsable published date",
				slog.String("source", src.ID),
				slog.String("title", item.Title),
				slog.String("published", item.Published))
			metrics.RecordFeedItemDropped("unparsable_date")
			return entity.Article{}, false
		}
		article.Published = ts
	}

	return article, true
}
