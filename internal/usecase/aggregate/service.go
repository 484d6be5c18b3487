// Package aggregate exposes the top-level API: one call fanning out to
// every registered provider, merging whatever succeeded into a single
// normalized article or source list. Providers are iterated in
// registration order and the merge preserves that order, with
// within-provider order untouched.
package aggregate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"newspy/internal/common/fanout"
	"newspy/internal/domain/entity"
	"newspy/internal/observability/logging"
	"newspy/internal/observability/metrics"
	"newspy/internal/observability/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Query carries the caller's filters for one aggregation call.
type Query struct {
	Category entity.Category
	Country  entity.Country
	Language entity.Language

	// FetchArchived enables the archive enrichment pass on the merged
	// article list.
	FetchArchived bool
}

// Provider is one article channel (REST API, RSS catalog). Implementations
// own their request building and response decoding; the aggregator only
// sees normalized entities.
type Provider interface {
	Name() string
	Articles(ctx context.Context, q Query) ([]entity.Article, error)
	Sources(ctx context.Context, q Query) ([]entity.Source, error)
}

// Enricher runs the archive enrichment fan-out. Satisfied by
// *enrich.Service.
type Enricher interface {
	Enrich(ctx context.Context, articles []entity.Article) []entity.Article
}

// Service is the aggregation entry point.
type Service struct {
	providers []Provider
	enricher  Enricher
}

// NewService creates a Service over a fixed provider registry.
// Providers contribute to results in the order given here.
func NewService(enricher Enricher, providers ...Provider) *Service {
	return &Service{providers: providers, enricher: enricher}
}

// GetArticles fans out to every provider, merges the successful
// contributions, and optionally enriches the merged list with archive
// snapshots.
//
// A provider failure drops only that provider's contribution; the call
// errors only when every provider failed, in which case the joined
// per-provider errors are returned.
func (s *Service) GetArticles(ctx context.Context, q Query) ([]entity.Article, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "aggregate.get_articles")
	defer span.End()
	span.SetAttributes(
		attribute.Int("providers.count", len(s.providers)),
		attribute.Bool("fetch_archived", q.FetchArchived),
	)

	results := fanout.Settle(ctx, s.articleTasks(q))

	var merged []entity.Article
	var errs []error
	for i, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			logging.WithProvider(slog.Default(), s.providers[i].Name()).
				Warn("provider fetch failed, dropping its contribution",
					slog.Any("error", r.Err))
			continue
		}
		merged = append(merged, r.Value...)
	}

	if len(errs) == len(s.providers) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	span.SetAttributes(attribute.Int("articles.count", len(merged)))

	if q.FetchArchived && s.enricher != nil {
		merged = s.enricher.Enrich(ctx, merged)
	}
	return merged, nil
}

// GetSources fans out to every provider's source catalog and merges
// the results, registration order first.
func (s *Service) GetSources(ctx context.Context, q Query) ([]entity.Source, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "aggregate.get_sources")
	defer span.End()

	tasks := make([]fanout.Task[[]entity.Source], len(s.providers))
	for i, p := range s.providers {
		p := p
		tasks[i] = func(ctx context.Context) ([]entity.Source, error) {
			return p.Sources(ctx, q)
		}
	}

	results := fanout.Settle(ctx, tasks)

	var merged []entity.Source
	var errs []error
	for i, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			logging.WithProvider(slog.Default(), s.providers[i].Name()).
				Warn("provider source listing failed",
					slog.Any("error", r.Err))
			continue
		}
		merged = append(merged, r.Value...)
	}

	if len(errs) == len(s.providers) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return merged, nil
}

// Categories returns the closed category enumeration. No I/O.
func (s *Service) Categories() []entity.Category {
	return entity.Categories()
}

func (s *Service) articleTasks(q Query) []fanout.Task[[]entity.Article] {
	tasks := make([]fanout.Task[[]entity.Article], len(s.providers))
	for i, p := range s.providers {
		p := p
		tasks[i] = func(ctx context.Context) ([]entity.Article, error) {
			start := time.Now()
			articles, err := p.Articles(ctx, q)
			metrics.RecordProviderFetch(p.Name(), err == nil, len(articles), time.Since(start))
			return articles, err
		}
	}
	return tasks
}
