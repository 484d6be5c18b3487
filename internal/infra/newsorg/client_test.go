package newsorg_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newspy/internal/domain/entity"
	"newspy/internal/infra/newsorg"
	"newspy/internal/infra/transport"
	"newspy/internal/resilience/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSender counts calls so tests can assert validation happens
// before any network traffic.
type recordingSender struct {
	calls    int
	response *transport.Response
	err      error
}

func (s *recordingSender) Send(_ context.Context, _ transport.Request) (*transport.Response, error) {
	s.calls++
	return s.response, s.err
}

func newClient() *transport.Client {
	return transport.New(transport.WithRetryConfig(retry.Config{
		MaxAttempts:    2,
		InitialDelay:   time.Millisecond,
		MaxDelay:       5 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0,
	}))
}

const articlesBody = `{
  "status": "ok",
  "totalResults": 1,
  "articles": [
    {
      "source": {"id": "", "name": "The Wall Street Journal"},
      "author": "Jane Doe",
      "title": "New York City Reopens After COVID-19 Pandemic",
      "description": "The city reopens.",
      "url": "https://example.com/nyc",
      "urlToImage": "https://example.com/nyc.jpg",
      "publishedAt": "2023-04-07T10:30:00Z",
      "content": "Full content."
    }
  ]
}`

func TestGetArticles_NormalizesRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(articlesBody))
	}))
	defer srv.Close()

	client := newsorg.NewClient(newClient(), "test-key", newsorg.WithBaseURL(srv.URL))
	articles, err := client.GetArticles(context.Background(), newsorg.ArticlesQuery{
		Endpoint: newsorg.EndpointTopHeadlines,
		Category: "business",
	})

	require.NoError(t, err)
	require.Len(t, articles, 1)

	a := articles[0]
	assert.Equal(t, "the-wall-street-journal-new-york-city-reopens-after-covid19-pandemic", a.Slug)
	assert.Equal(t, "New York City Reopens After COVID-19 Pandemic", a.Title)
	assert.Equal(t, "The city reopens.", a.Abstract)
	assert.Equal(t, "Jane Doe", a.Author)
	assert.Equal(t, entity.ChannelNewsorg, a.Source.Channel)
	// Empty wire source ID defaults to the slugified name.
	assert.Equal(t, "the-wall-street-journal", a.Source.ID)
	assert.Equal(t, time.Date(2023, 4, 7, 10, 30, 0, 0, time.UTC), a.Published)
}

func TestGetArticles_UnparsableDateDropsRecord(t *testing.T) {
	const body = `{
  "status": "ok",
  "totalResults": 2,
  "articles": [
    {
      "source": {"id": "wsj", "name": "WSJ"},
      "author": "Jane Doe",
      "title": "Good date",
      "description": "d",
      "url": "https://example.com/good",
      "urlToImage": "",
      "publishedAt": "2023-04-07T10:30:00Z",
      "content": ""
    },
    {
      "source": {"id": "wsj", "name": "WSJ"},
      "author": "Jane Doe",
      "title": "Bad date",
      "description": "d",
      "url": "https://example.com/bad",
      "urlToImage": "",
      "publishedAt": "sometime last week",
      "content": ""
    }
  ]
}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	client := newsorg.NewClient(newClient(), "test-key", newsorg.WithBaseURL(srv.URL))
	articles, err := client.GetArticles(context.Background(), newsorg.ArticlesQuery{
		Endpoint: newsorg.EndpointTopHeadlines,
		Country:  "us",
	})

	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Good date", articles[0].Title)
}

func TestGetArticles_DefaultPagination(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok", "totalResults": 0, "articles": []}`))
	}))
	defer srv.Close()

	client := newsorg.NewClient(newClient(), "test-key", newsorg.WithBaseURL(srv.URL))
	_, err := client.GetArticles(context.Background(), newsorg.ArticlesQuery{
		Endpoint: newsorg.EndpointTopHeadlines,
		Country:  "us",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"100"}, gotQuery["pageSize"])
	assert.Equal(t, []string{"1"}, gotQuery["page"])
	assert.Equal(t, []string{"us"}, gotQuery["country"])
	assert.Equal(t, []string{"test-key"}, gotQuery["apiKey"])
}

func TestGetArticles_ValidationHappensBeforeNetwork(t *testing.T) {
	tests := []struct {
		name  string
		query newsorg.ArticlesQuery
	}{
		{
			name: "category and sources are mutually exclusive",
			query: newsorg.ArticlesQuery{
				Endpoint:  newsorg.EndpointTopHeadlines,
				Category:  "business",
				SourceIDs: []string{"wsj"},
			},
		},
		{
			name: "top headlines needs at least one filter",
			query: newsorg.ArticlesQuery{
				Endpoint: newsorg.EndpointTopHeadlines,
				Language: "en",
			},
		},
		{
			name: "from after to",
			query: newsorg.ArticlesQuery{
				Endpoint: newsorg.EndpointEverything,
				From:     time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
				To:       time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &recordingSender{}
			client := newsorg.NewClient(sender, "test-key")

			_, err := client.GetArticles(context.Background(), tt.query)

			var vErr *entity.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, 0, sender.calls, "validation must reject before any transport call")
		})
	}
}

func TestGetArticles_MissingAPIKey(t *testing.T) {
	sender := &recordingSender{}
	client := newsorg.NewClient(sender, "")

	_, err := client.GetArticles(context.Background(), newsorg.ArticlesQuery{
		Endpoint: newsorg.EndpointTopHeadlines,
		Country:  "us",
	})

	require.ErrorIs(t, err, newsorg.ErrAPIKeyMissing)
	assert.Equal(t, 0, sender.calls)
}

func TestGetArticles_UnknownFieldIsSchemaError(t *testing.T) {
	const body = `{
  "status": "ok",
  "totalResults": 1,
  "articles": [
    {
      "source": {"id": "wsj", "name": "WSJ"},
      "author": "Jane Doe",
      "long_title": "Mislabeled headline",
      "description": "d",
      "url": "https://example.com/a",
      "urlToImage": "",
      "publishedAt": "2023-04-07T10:30:00Z",
      "content": ""
    }
  ]
}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	client := newsorg.NewClient(newClient(), "test-key", newsorg.WithBaseURL(srv.URL))
	_, err := client.GetArticles(context.Background(), newsorg.ArticlesQuery{
		Endpoint: newsorg.EndpointTopHeadlines,
		Country:  "us",
	})

	var schemaErr *newsorg.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, err.Error(), "long_title")
	assert.Contains(t, err.Error(), "Mislabeled headline", "raw payload is embedded")
}

func TestGetArticles_EverythingDateWindow(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok", "totalResults": 0, "articles": []}`))
	}))
	defer srv.Close()

	client := newsorg.NewClient(newClient(), "test-key", newsorg.WithBaseURL(srv.URL))
	_, err := client.GetArticles(context.Background(), newsorg.ArticlesQuery{
		Endpoint:   newsorg.EndpointEverything,
		SearchText: "bitcoin",
		From:       time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2023, 4, 7, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"2023-04-01"}, gotQuery["from"])
	assert.Equal(t, []string{"2023-04-07"}, gotQuery["to"])
	assert.Equal(t, []string{"bitcoin"}, gotQuery["q"])
}

func TestGetSources_DecodesAndNormalizes(t *testing.T) {
	const body = `{
  "status": "ok",
  "sources": [
    {
      "id": "bbc-news",
      "name": "BBC News",
      "description": "BBC world news",
      "url": "https://www.bbc.co.uk/news",
      "category": "general",
      "language": "en",
      "country": "gb"
    },
    {
      "id": "",
      "name": "Ars Technica",
      "description": "Tech news",
      "url": "https://arstechnica.com",
      "category": "technology",
      "language": "en",
      "country": "us"
    }
  ]
}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	client := newsorg.NewClient(newClient(), "test-key", newsorg.WithBaseURL(srv.URL))
	sources, err := client.GetSources(context.Background(), newsorg.SourcesQuery{Category: "general"})

	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "bbc-news", sources[0].ID)
	assert.Equal(t, entity.ChannelNewsorg, sources[0].Channel)
	assert.Equal(t, "ars-technica", sources[1].ID)
}

func TestGetSources_MissingAPIKey(t *testing.T) {
	sender := &recordingSender{}
	client := newsorg.NewClient(sender, "")

	_, err := client.GetSources(context.Background(), newsorg.SourcesQuery{})

	require.ErrorIs(t, err, newsorg.ErrAPIKeyMissing)
	assert.Equal(t, 0, sender.calls)
}
