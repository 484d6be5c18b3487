// Package archive scrapes article snapshots from an archive.md style
// mirror. It is an enrichment collaborator: FetchSnapshot never returns
// an error, every failure is captured into the returned record so that
// one bad snapshot cannot break an aggregation pass.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"newspy/internal/domain/entity"
	"newspy/internal/infra/transport"
	"newspy/internal/resilience/circuitbreaker"

	"github.com/PuerkitoBio/goquery"
)

// DefaultBaseURL is the archive mirror snapshots are fetched from.
const DefaultBaseURL = "https://archive.md"

const textNotFound = "Main article text not found with current selectors."

// Sender is the transport contract the scraper needs. Satisfied by
// *transport.Client.
type Sender interface {
	Send(ctx context.Context, req transport.Request) (*transport.Response, error)
}

// Scraper fetches archived snapshots behind a circuit breaker so a
// rate-limiting or down mirror stops being hammered quickly.
type Scraper struct {
	sender  Sender
	breaker *circuitbreaker.CircuitBreaker
	baseURL string
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithBaseURL points the scraper at a different mirror. Mainly for tests.
func WithBaseURL(u string) Option {
	return func(s *Scraper) { s.baseURL = strings.TrimRight(u, "/") }
}

// NewScraper creates a Scraper using the given transport.
func NewScraper(sender Sender, opts ...Option) *Scraper {
	s := &Scraper{
		sender:  sender,
		breaker: circuitbreaker.New(circuitbreaker.ArchiveFetchConfig()),
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SnapshotURL derives the mirror URL for an article: the original URL
// with its http(s) scheme stripped, appended to the mirror base.
func (s *Scraper) SnapshotURL(originalURL string) string {
	path := strings.TrimPrefix(originalURL, "https://")
	path = strings.TrimPrefix(path, "http://")
	return fmt.Sprintf("%s/%s", s.baseURL, path)
}

// FetchSnapshot fetches and parses the archived copy of originalURL.
// The returned record always has Status set; on any failure it carries
// the error text instead of a title and body. It never returns an error.
func (s *Scraper) FetchSnapshot(ctx context.Context, originalURL string) *entity.ArchivedData {
	archiveURL := s.SnapshotURL(originalURL)

	data := &entity.ArchivedData{
		OriginalURL: originalURL,
		ArchiveURL:  archiveURL,
	}

	result, err := s.breaker.Execute(func() (any, error) {
		resp, err := s.sender.Send(ctx, transport.Request{
			Method:  "GET",
			URL:     archiveURL,
			Headers: map[string]string{"Content-Type": transport.ContentTypeHTML},
		})
		if err != nil {
			return nil, err
		}
		return resp.Text, nil
	})
	if err != nil {
		slog.Debug("archive fetch failed",
			slog.String("archive_url", archiveURL),
			slog.Any("error", err))
		data.Status = entity.ArchivedStatusFailed
		data.Error = err.Error()
		return data
	}

	html, _ := result.(string)
	if html == "" {
		data.Status = entity.ArchivedStatusFailed
		data.Error = "no content received"
		return data
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		data.Status = entity.ArchivedStatusFailed
		data.Error = fmt.Sprintf("parse snapshot: %v", err)
		return data
	}

	data.Status = entity.ArchivedStatusSuccess
	data.Title = extractTitle(doc)
	data.Text = extractText(doc)
	return data
}

// extractTitle prefers the page <title>; when that is missing or is the
// mirror's own generic title it falls back to the first <h1>.
func extractTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" || strings.Contains(strings.ToLower(title), "archive") {
		if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
			title = h1
		}
	}
	if title == "" {
		title = "Title not found"
	}
	return title
}

// extractText tries the containers archive.md snapshots use, in order.
// Paragraphs inside the matched container are joined with blank lines;
// a container without paragraphs contributes its whole text.
func extractText(doc *goquery.Document) string {
	var container *goquery.Selection
	for _, selector := range []string{"div#article", "article", "div#TEXT"} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			container = sel
			break
		}
	}
	if container == nil {
		return textNotFound
	}

	var parts []string
	container.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		if text := strings.TrimSpace(container.Text()); text != "" {
			return text
		}
		return textNotFound
	}
	return strings.Join(parts, "\n\n")
}
