// Diagnostic tool: fetches every feed in the RSS source catalog and
// reports per-feed health (HTTP status, item count, latest published
// date, response time) as JSON. Useful for pruning dead feeds from a
// pinned catalog.
//
// Usage:
//
//	go run scripts/diagnose_feeds.go [-source path-or-url] [-timeout 10s]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"newspy/internal/common/fanout"
	"newspy/internal/domain/entity"
	"newspy/internal/infra/sourcelist"
	"newspy/internal/infra/transport"
)

// FeedDiagnostic is the per-feed health report.
type FeedDiagnostic struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	Status       string `json:"status"` // "OK", "FETCH_ERROR", "EMPTY"
	ItemCount    int    `json:"item_count"`
	LatestDate   string `json:"latest_date,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
}

func main() {
	var (
		source  = flag.String("source", "", "catalog location (URL or path), default published catalog")
		timeout = flag.Duration("timeout", 10*time.Second, "per-feed timeout")
	)
	flag.Parse()

	client := transport.New(transport.WithTimeout(*timeout))
	loader := sourcelist.NewLoader(client, *source)

	ctx := context.Background()
	sources := loader.Load(ctx, sourcelist.Options{})
	if len(sources) == 0 {
		fmt.Fprintln(os.Stderr, "no sources loaded from catalog")
		os.Exit(1)
	}

	tasks := make([]fanout.Task[FeedDiagnostic], len(sources))
	for i, src := range sources {
		tasks[i] = func(ctx context.Context) (FeedDiagnostic, error) {
			return diagnose(ctx, client, src), nil
		}
	}

	// Keep the probe polite: a handful of feeds at a time.
	results := fanout.SettleLimit(ctx, tasks, 8)

	report := make([]FeedDiagnostic, len(results))
	healthy := 0
	for i, r := range results {
		report[i] = r.Value
		if r.Value.Status == "OK" {
			healthy++
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%d/%d feeds healthy\n", healthy, len(report))
}

func diagnose(ctx context.Context, client *transport.Client, src entity.Source) FeedDiagnostic {
	diag := FeedDiagnostic{ID: src.ID, Name: src.Name, URL: src.URL}

	start := time.Now()
	resp, err := client.Send(ctx, transport.Request{
		Method:  "GET",
		URL:     src.URL,
		Headers: map[string]string{"Content-Type": transport.ContentTypeXML},
	})
	diag.ResponseTime = time.Since(start).Milliseconds()

	if err != nil {
		diag.Status = "FETCH_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	diag.ItemCount = len(resp.FeedItems)
	if diag.ItemCount == 0 {
		diag.Status = "EMPTY"
		return diag
	}

	diag.Status = "OK"
	var latest time.Time
	for _, item := range resp.FeedItems {
		if item.PublishedParsed != nil && item.PublishedParsed.After(latest) {
			latest = *item.PublishedParsed
		}
	}
	if !latest.IsZero() {
		diag.LatestDate = latest.Format(time.RFC3339)
	}
	return diag
}
