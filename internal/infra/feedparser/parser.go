// Package feedparser parses RSS and Atom documents into normalized raw items.
// It uses the gofeed library, which handles both dialects including the
// namespace fallbacks (content:encoded, Atom summary/content, Dublin Core
// dates) behind one item shape.
package feedparser

import (
	"bytes"
	"log/slog"
	"strings"
	"time"

	"newspy/internal/observability/metrics"

	"github.com/mmcdole/gofeed"
)

// Item is one normalized raw feed entry, still carrying the published date as
// found in the document. Timestamp parsing happens during normalization so
// that a bad date can be skipped per item instead of per feed.
type Item struct {
	SourceURL   string
	Title       string
	Description string
	URL         string
	Published   string

	// PublishedParsed is the parser's own reading of the published date,
	// nil when the document value was missing or unrecognizable.
	PublishedParsed *time.Time
}

// Parse parses an RSS or Atom document and returns its items.
//
// Items without a title are dropped silently; title is the only mandatory
// field at parse time. Parse returns nil both when the document is not a
// parseable feed and when zero items survive filtering - callers treat nil
// and empty identically and continue with other sources.
func Parse(data []byte, sourceURL string) []Item {
	fp := gofeed.NewParser()

	feed, err := fp.Parse(bytes.NewReader(data))
	if err != nil {
		slog.Debug("document is not a parseable feed",
			slog.String("source_url", sourceURL),
			slog.Any("error", err))
		return nil
	}

	items := make([]Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			metrics.RecordFeedItemDropped("missing_title")
			continue
		}

		// description → content:encoded → Atom summary/content
		description := strings.TrimSpace(it.Description)
		if description == "" {
			description = strings.TrimSpace(it.Content)
		}

		// pubDate/published → Atom updated
		published := strings.TrimSpace(it.Published)
		publishedParsed := it.PublishedParsed
		if published == "" {
			published = strings.TrimSpace(it.Updated)
			publishedParsed = it.UpdatedParsed
		}

		items = append(items, Item{
			SourceURL:       sourceURL,
			Title:           title,
			Description:     description,
			URL:             strings.TrimSpace(it.Link),
			Published:       published,
			PublishedParsed: publishedParsed,
		})
	}

	if len(items) == 0 {
		return nil
	}
	return items
}
