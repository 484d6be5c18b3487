package transport_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"newspy/internal/infra/transport"
	"newspy/internal/resilience/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastRetry keeps test retries from sleeping for real.
func fastRetry() retry.Config {
	return retry.Config{
		MaxAttempts:    3,
		InitialDelay:   time.Millisecond,
		MaxDelay:       5 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0,
	}
}

func TestSend_DecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok", "totalResults": 2}`))
	}))
	defer srv.Close()

	client := transport.New(transport.WithRetryConfig(fastRetry()))
	resp, err := client.Send(context.Background(), transport.Request{
		Method: http.MethodGet,
		URL:    srv.URL,
	})

	require.NoError(t, err)
	body, ok := resp.JSON.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(2), body["totalResults"])
}

func TestSend_XMLContentTypeReturnsFeedItems(t *testing.T) {
	const feed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>t</title>
<item><title>Hello</title><link>https://example.com/a</link><description>d</description></item>
</channel></rss>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	client := transport.New(transport.WithRetryConfig(fastRetry()))
	resp, err := client.Send(context.Background(), transport.Request{
		Method:  http.MethodGet,
		URL:     srv.URL,
		Headers: map[string]string{"Content-Type": transport.ContentTypeXML},
	})

	require.NoError(t, err)
	require.Len(t, resp.FeedItems, 1)
	assert.Equal(t, "Hello", resp.FeedItems[0].Title)
	assert.Equal(t, srv.URL, resp.FeedItems[0].SourceURL)
}

func TestSend_OctetStreamReturnsRawOnly(t *testing.T) {
	payload := []byte{0x1f, 0x8b, 0x00, 0xff}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	client := transport.New(transport.WithRetryConfig(fastRetry()))
	resp, err := client.Send(context.Background(), transport.Request{
		Method:  http.MethodGet,
		URL:     srv.URL,
		Headers: map[string]string{"Content-Type": transport.ContentTypeOctet},
	})

	require.NoError(t, err)
	assert.Equal(t, payload, resp.Raw)
	assert.Nil(t, resp.JSON)
	assert.Empty(t, resp.Text)
}

func TestSend_TextFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain body"))
	}))
	defer srv.Close()

	client := transport.New(transport.WithRetryConfig(fastRetry()))
	resp, err := client.Send(context.Background(), transport.Request{
		Method:  http.MethodGet,
		URL:     srv.URL,
		Headers: map[string]string{"Content-Type": transport.ContentTypeText},
	})

	require.NoError(t, err)
	assert.Equal(t, "plain body", resp.Text)
}

func TestSend_ParamsAppendedToQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Encode()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := transport.New(transport.WithRetryConfig(fastRetry()))
	_, err := client.Send(context.Background(), transport.Request{
		Method: http.MethodGet,
		URL:    srv.URL,
		Params: map[string]string{"category": "business", "language": "en"},
	})

	require.NoError(t, err)
	assert.Equal(t, "category=business&language=en", gotQuery)
}

func TestSend_UpstreamErrorBodyPopulatesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "reason": "authError"}}`))
	}))
	defer srv.Close()

	client := transport.New(transport.WithRetryConfig(fastRetry()))
	_, err := client.Send(context.Background(), transport.Request{
		Method: http.MethodGet,
		URL:    srv.URL,
	})

	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, "invalid api key", httpErr.Message)
	assert.Equal(t, "authError", httpErr.Reason)
	// 401 is a contract error, not transient.
	assert.NotErrorIs(t, err, retry.ErrMaxRetries)
}

func TestSend_NonRetryableStatusMakesSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := transport.New(transport.WithRetryConfig(fastRetry()))
	_, err := client.Send(context.Background(), transport.Request{
		Method: http.MethodGet,
		URL:    srv.URL,
	})

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSend_RetriesTransientStatusUntilExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := transport.New(transport.WithRetryConfig(fastRetry()))
	_, err := client.Send(context.Background(), transport.Request{
		Method: http.MethodGet,
		URL:    srv.URL,
	})

	require.ErrorIs(t, err, retry.ErrMaxRetries)
	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSend_RecoversAfterTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	client := transport.New(transport.WithRetryConfig(fastRetry()))
	resp, err := client.Send(context.Background(), transport.Request{
		Method: http.MethodGet,
		URL:    srv.URL,
	})

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.NotNil(t, resp.JSON)
}

func TestSend_SendsJSONPayload(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := transport.New(transport.WithRetryConfig(fastRetry()))
	_, err := client.Send(context.Background(), transport.Request{
		Method:  http.MethodPost,
		URL:     srv.URL,
		Payload: map[string]string{"q": "bitcoin"},
	})

	require.NoError(t, err)
	assert.Equal(t, transport.ContentTypeJSON, gotContentType)
	assert.JSONEq(t, `{"q": "bitcoin"}`, string(gotBody))
}

func TestSend_RateLimiterHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	// Zero-rate limiter never admits a request.
	client := transport.New(
		transport.WithRetryConfig(fastRetry()),
		transport.WithRateLimit(0, 0),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Send(ctx, transport.Request{Method: http.MethodGet, URL: srv.URL})
	require.Error(t, err)
}
