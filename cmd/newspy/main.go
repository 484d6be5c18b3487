// Command newspy aggregates news articles from the configured providers
// and prints the merged result as JSON on stdout. Logs go to stderr.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newspy/internal/domain/entity"
	"newspy/internal/infra/archive"
	"newspy/internal/infra/newsorg"
	"newspy/internal/infra/rssfeed"
	"newspy/internal/infra/sourcelist"
	"newspy/internal/infra/transport"
	"newspy/internal/observability/logging"
	"newspy/internal/observability/tracing"
	"newspy/internal/pkg/config"
	"newspy/internal/resilience/retry"
	"newspy/internal/usecase/aggregate"
	"newspy/internal/usecase/enrich"
)

func main() {
	var (
		category    = flag.String("category", "", "filter by category (business, entertainment, general, health, science, sports, technology)")
		country     = flag.String("country", "", "filter by ISO country code (REST provider only)")
		language    = flag.String("language", "", "filter by ISO language code")
		archived    = flag.Bool("archived", false, "enrich articles with archive snapshots")
		listSources = flag.Bool("sources", false, "list sources instead of articles")
		categories  = flag.Bool("categories", false, "list the category enumeration and exit")
		timeout     = flag.Duration("timeout", 2*time.Minute, "overall run timeout")
	)
	flag.Parse()

	logger := logging.NewLoggerTo(os.Stderr)
	slog.SetDefault(logger)

	shutdownTracing := tracing.InitProvider()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, logger, query(*category, *country, *language, *archived), *listSources, *categories); err != nil {
		logger.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func query(category, country, language string, archived bool) aggregate.Query {
	return aggregate.Query{
		Category:      entity.Category(category),
		Country:       entity.Country(country),
		Language:      entity.Language(language),
		FetchArchived: archived,
	}
}

func run(ctx context.Context, logger *slog.Logger, q aggregate.Query, listSources, listCategories bool) error {
	cfg, warnings := config.Load()
	for _, w := range warnings {
		logger.Warn("configuration fallback", slog.String("warning", w))
	}

	if q.Category != "" && !q.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", entity.ErrInvalidInput, q.Category)
	}

	svc, err := buildService(logger, cfg)
	if err != nil {
		return err
	}

	switch {
	case listCategories:
		return printJSON(svc.Categories())

	case listSources:
		sources, err := svc.GetSources(ctx, q)
		if err != nil {
			return err
		}
		logger.Info("sources aggregated", slog.Int("count", len(sources)))
		return printJSON(sources)

	default:
		start := time.Now()
		articles, err := svc.GetArticles(ctx, q)
		if err != nil {
			return err
		}
		logger.Info("articles aggregated",
			slog.Int("count", len(articles)),
			slog.Bool("archived", q.FetchArchived),
			slog.Duration("duration", time.Since(start)))
		return printJSON(articles)
	}
}

// buildService wires the provider registry from configuration. Each
// outbound surface gets the retry profile tuned for it: feeds retry
// harder than the keyed API, archive snapshots more gently.
func buildService(logger *slog.Logger, cfg config.Config) (*aggregate.Service, error) {
	apiClient := transport.New(transport.WithTimeout(cfg.HTTPTimeout))
	feedClient := transport.New(
		transport.WithTimeout(cfg.HTTPTimeout),
		transport.WithRetryConfig(retry.FeedFetchConfig()),
	)
	archiveClient := transport.New(
		transport.WithTimeout(cfg.HTTPTimeout),
		transport.WithRetryConfig(retry.ArchiveFetchConfig()),
	)

	catalog, err := buildCatalog(logger, cfg, feedClient)
	if err != nil {
		return nil, err
	}

	var scraperOpts []archive.Option
	if cfg.ArchiveBaseURL != "" {
		scraperOpts = append(scraperOpts, archive.WithBaseURL(cfg.ArchiveBaseURL))
	}
	enricher := enrich.NewService(archive.NewScraper(archiveClient, scraperOpts...))

	if cfg.NewsorgAPIKey == "" {
		logger.Warn("NEWSORG_API_KEY is not set; the REST provider will contribute nothing")
	}

	return aggregate.NewService(enricher,
		aggregate.NewNewsorgProvider(newsorg.NewClient(apiClient, cfg.NewsorgAPIKey)),
		aggregate.NewRSSProvider(rssfeed.NewClient(feedClient, catalog)),
	), nil
}

// buildCatalog prefers a pinned feeds file over the remote catalog.
func buildCatalog(logger *slog.Logger, cfg config.Config, client *transport.Client) (rssfeed.SourceLister, error) {
	if cfg.FeedsFile == "" {
		return sourcelist.NewLoader(client, cfg.SourceFile), nil
	}

	pinned, err := config.LoadFeedsFile(cfg.FeedsFile)
	if err != nil {
		return nil, err
	}
	logger.Info("using pinned feeds file",
		slog.String("path", cfg.FeedsFile),
		slog.Int("sources", len(pinned)))
	return pinnedCatalog(pinned), nil
}

// pinnedCatalog serves a fixed source list with the same filter
// semantics as the remote catalog loader.
type pinnedCatalog []entity.Source

func (c pinnedCatalog) Load(_ context.Context, opts sourcelist.Options) []entity.Source {
	var out []entity.Source
	for _, src := range c {
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

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
