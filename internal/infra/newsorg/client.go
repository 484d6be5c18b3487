// Package newsorg adapts the newsapi.org style keyed REST provider to
// the canonical article and source model. Filter validation happens
// before any network call; the response schema is decoded strictly so
// an upstream contract change surfaces loudly instead of silently
// producing half-empty articles.
package newsorg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"newspy/internal/domain/entity"
	"newspy/internal/infra/transport"
	"newspy/internal/observability/metrics"
	"newspy/internal/utils/text"
)

// BaseURL is the provider API root.
const BaseURL = "https://newsapi.org/v2"

// Endpoint selects which article listing is queried.
type Endpoint string

const (
	// EndpointTopHeadlines returns breaking headlines, filterable by
	// country, category and search text.
	EndpointTopHeadlines Endpoint = "top-headlines"

	// EndpointEverything searches the full historical index.
	EndpointEverything Endpoint = "everything"
)

const (
	defaultPageSize = 100
	defaultPage     = 1
)

// Sender is the transport contract the adapter needs. Satisfied by
// *transport.Client.
type Sender interface {
	Send(ctx context.Context, req transport.Request) (*transport.Response, error)
}

// ArticlesQuery carries the filters for GetArticles.
type ArticlesQuery struct {
	Endpoint   Endpoint
	SearchText string
	Category   entity.Category
	Country    entity.Country
	Language   entity.Language

	// SourceIDs restricts results to explicit provider source IDs.
	// Mutually exclusive with Category.
	SourceIDs []string

	// From and To bound the historical search window. Zero values mean
	// unbounded.
	From time.Time
	To   time.Time

	PageSize int
	Page     int
}

// SourcesQuery carries the filters for GetSources.
type SourcesQuery struct {
	Category entity.Category
	Country  entity.Country
	Language entity.Language
}

// Client is the REST provider adapter.
type Client struct {
	sender  Sender
	apiKey  string
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the adapter at a different API root. Mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// NewClient creates a Client. The API key may be empty; requests will
// then fail with ErrAPIKeyMissing before touching the network.
func NewClient(sender Sender, apiKey string, opts ...Option) *Client {
	c := &Client{sender: sender, apiKey: apiKey, baseURL: BaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetArticles fetches and normalizes one page of articles.
func (c *Client) GetArticles(ctx context.Context, q ArticlesQuery) ([]entity.Article, error) {
	params, err := c.articlesParams(q)
	if err != nil {
		return nil, err
	}

	endpoint := q.Endpoint
	if endpoint == "" {
		endpoint = EndpointTopHeadlines
	}

	resp, err := c.sender.Send(ctx, transport.Request{
		Method: "GET",
		URL:    fmt.Sprintf("%s/%s", c.baseURL, endpoint),
		Params: params,
	})
	if err != nil {
		return nil, fmt.Errorf("newsorg %s: %w", endpoint, err)
	}

	var decoded articlesResponse
	if err := decodeStrict(resp.Raw, &decoded); err != nil {
		return nil, &SchemaError{Endpoint: string(endpoint), Payload: resp.Raw, Err: err}
	}

	articles := make([]entity.Article, 0, len(decoded.Articles))
	for _, a := range decoded.Articles {
		article, ok := a.toArticle()
		if !ok {
			continue
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// GetSources fetches the provider source catalog.
func (c *Client) GetSources(ctx context.Context, q SourcesQuery) ([]entity.Source, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	params := map[string]string{"apiKey": c.apiKey}
	if q.Category != "" {
		params["category"] = string(q.Category)
	}
	if q.Country != "" {
		params["country"] = string(q.Country)
	}
	if q.Language != "" {
		params["language"] = string(q.Language)
	}

	resp, err := c.sender.Send(ctx, transport.Request{
		Method: "GET",
		URL:    fmt.Sprintf("%s/top-headlines/sources", c.baseURL),
		Params: params,
	})
	if err != nil {
		return nil, fmt.Errorf("newsorg sources: %w", err)
	}

	var decoded sourcesResponse
	if err := decodeStrict(resp.Raw, &decoded); err != nil {
		return nil, &SchemaError{Endpoint: "top-headlines/sources", Payload: resp.Raw, Err: err}
	}

	sources := make([]entity.Source, 0, len(decoded.Sources))
	for _, s := range decoded.Sources {
		sources = append(sources, s.toSource())
	}
	return sources, nil
}

// articlesParams validates the query and builds the request parameters.
// Every rule here fires before any network call.
func (c *Client) articlesParams(q ArticlesQuery) (map[string]string, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	if q.Category != "" && len(q.SourceIDs) > 0 {
		return nil, &entity.ValidationError{
			Field:   "category",
			Message: "choose either the category or the sources filter, not both",
		}
	}

	endpoint := q.Endpoint
	if endpoint == "" {
		endpoint = EndpointTopHeadlines
	}

	params := map[string]string{"apiKey": c.apiKey}

	if q.Language != "" {
		params["language"] = string(q.Language)
	}
	if q.SearchText != "" {
		params["q"] = q.SearchText
	}
	if len(q.SourceIDs) > 0 {
		params["sources"] = strings.Join(q.SourceIDs, ",")
	}

	switch endpoint {
	case EndpointTopHeadlines:
		if q.SearchText == "" && q.Country == "" && q.Category == "" {
			return nil, &entity.ValidationError{
				Field:   "filters",
				Message: "the search text, country, or category attribute is required for the top-headlines endpoint",
			}
		}
		if q.Country != "" {
			params["country"] = string(q.Country)
		}
		if q.Category != "" {
			params["category"] = string(q.Category)
		}

	case EndpointEverything:
		if !q.From.IsZero() && !q.To.IsZero() {
			if q.From.After(q.To) {
				return nil, &entity.ValidationError{
					Field:   "from",
					Message: "the from date cannot be greater than the to date",
				}
			}
			params["from"] = q.From.Format("2006-01-02")
			params["to"] = q.To.Format("2006-01-02")
		}

	default:
		return nil, &entity.ValidationError{
			Field:   "endpoint",
			Message: fmt.Sprintf("unknown endpoint %q", endpoint),
		}
	}

	pageSize := q.PageSize
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	page := q.Page
	if page == 0 {
		page = defaultPage
	}
	params["pageSize"] = strconv.Itoa(pageSize)
	params["page"] = strconv.Itoa(page)

	return params, nil
}

// decodeStrict rejects payloads carrying fields outside the documented
// contract, so the error names the exact unexpected field.
func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

type articlesResponse struct {
	Status       string        `json:"status"`
	TotalResults int           `json:"totalResults"`
	Articles     []wireArticle `json:"articles"`
}

type wireArticle struct {
	Source      wireArticleSource `json:"source"`
	Author      string            `json:"author"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	URL         string            `json:"url"`
	URLToImage  string            `json:"urlToImage"`
	PublishedAt string            `json:"publishedAt"`
	Content     string            `json:"content"`
}

type wireArticleSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type sourcesResponse struct {
	Status  string       `json:"status"`
	Sources []wireSource `json:"sources"`
}

type wireSource struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	Language    string `json:"language"`
	Country     string `json:"country"`
}

// toArticle maps a wire record to the canonical model. The slug is a
// pure function of the source name and title. Records whose publishedAt
// parses under none of the accepted formats are dropped with a warning;
// one bad date must not cost the rest of the page.
func (a wireArticle) toArticle() (entity.Article, bool) {
	src := entity.Source{
		ID:      a.Source.ID,
		Name:    a.Source.Name,
		Channel: entity.ChannelNewsorg,
	}
	if src.ID == "" {
		src.ID = text.Slugify(src.Name)
	}

	article := entity.Article{
		Slug:       fmt.Sprintf("%s-%s", text.Slugify(a.Source.Name), text.Slugify(a.Title)),
		URL:        a.URL,
		URLToImage: a.URLToImage,
		Title:      a.Title,
		Abstract:   a.Description,
		Author:     a.Author,
		Source:     src,
	}
	if a.PublishedAt != "" {
		ts, err := text.ParseTimestamp(a.PublishedAt)
		if err != nil {
			slog.Warn("skipping record with unparsable publishedAt",
				slog.String("source", a.Source.Name),
				slog.String("title", a.Title),
				slog.String("published_at", a.PublishedAt))
			metrics.RecordFeedItemDropped("unparsable_date")
			return entity.Article{}, false
		}
		article.Published = ts
	}
	return article, true
}

func (s wireSource) toSource() entity.Source {
	src := entity.Source{
		ID:          s.ID,
		Name:        s.Name,
		Channel:     entity.ChannelNewsorg,
		Description: s.Description,
		URL:         s.URL,
		Category:    entity.Category(s.Category),
		Language:    entity.Language(s.Language),
		Country:     entity.Country(s.Country),
	}
	if src.ID == "" {
		src.ID = text.Slugify(src.Name)
	}
	return src
}
