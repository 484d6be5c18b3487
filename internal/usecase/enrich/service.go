// Package enrich attaches archived-snapshot data to already-normalized
// articles. Enrichment is strictly additive: every input article comes
// back, in order, whether or not its snapshot fetch worked.
package enrich

import (
	"context"
	"time"

	"newspy/internal/common/fanout"
	"newspy/internal/domain/entity"
	"newspy/internal/observability/metrics"
	"newspy/internal/observability/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Snapshotter fetches one archived snapshot. It never returns an error;
// failures are captured inside the returned record. Satisfied by
// *archive.Scraper.
type Snapshotter interface {
	FetchSnapshot(ctx context.Context, originalURL string) *entity.ArchivedData
}

// Service runs the per-article enrichment fan-out.
type Service struct {
	snapshotter Snapshotter
}

// NewService creates a Service using the given snapshot collaborator.
func NewService(snapshotter Snapshotter) *Service {
	return &Service{snapshotter: snapshotter}
}

// Enrich fetches one snapshot per article concurrently and attaches the
// outcome. The returned slice always has the same length and order as
// the input; one article's failure is recorded on that article alone.
func (s *Service) Enrich(ctx context.Context, articles []entity.Article) []entity.Article {
	if len(articles) == 0 {
		return articles
	}

	ctx, span := tracing.GetTracer().Start(ctx, "enrich.articles")
	defer span.End()
	span.SetAttributes(attribute.Int("articles.count", len(articles)))

	tasks := make([]fanout.Task[*entity.ArchivedData], len(articles))
	for i, article := range articles {
		article := article
		tasks[i] = func(ctx context.Context) (*entity.ArchivedData, error) {
			start := time.Now()
			data := s.snapshotter.FetchSnapshot(ctx, article.URL)
			metrics.RecordEnrichment(data.Status == entity.ArchivedStatusSuccess, time.Since(start))
			return data, nil
		}
	}

	results := fanout.Settle(ctx, tasks)

	enriched := make([]entity.Article, len(articles))
	for i, article := range articles {
		article.Archived = results[i].Value
		enriched[i] = article
	}
	return enriched
}
