package aggregate

import (
	"context"

	"newspy/internal/domain/entity"
	"newspy/internal/infra/newsorg"
)

// NewsorgAPI is the REST adapter surface the provider needs. Satisfied
// by *newsorg.Client.
type NewsorgAPI interface {
	GetArticles(ctx context.Context, q newsorg.ArticlesQuery) ([]entity.Article, error)
	GetSources(ctx context.Context, q newsorg.SourcesQuery) ([]entity.Source, error)
}

// RSSAPI is the RSS adapter surface the provider needs. Satisfied by
// *rssfeed.Client.
type RSSAPI interface {
	GetArticles(ctx context.Context, sources []entity.Source) []entity.Article
	GetSources(ctx context.Context, category entity.Category, language entity.Language) []entity.Source
}

type newsorgProvider struct {
	api NewsorgAPI
}

// NewNewsorgProvider adapts the keyed REST client to the provider
// registry.
func NewNewsorgProvider(api NewsorgAPI) Provider {
	return &newsorgProvider{api: api}
}

func (p *newsorgProvider) Name() string { return string(entity.ChannelNewsorg) }

func (p *newsorgProvider) Articles(ctx context.Context, q Query) ([]entity.Article, error) {
	return p.api.GetArticles(ctx, newsorg.ArticlesQuery{
		Endpoint: newsorg.EndpointTopHeadlines,
		Category: q.Category,
		Country:  q.Country,
		Language: q.Language,
	})
}

func (p *newsorgProvider) Sources(ctx context.Context, q Query) ([]entity.Source, error) {
	return p.api.GetSources(ctx, newsorg.SourcesQuery{
		Category: q.Category,
		Country:  q.Country,
		Language: q.Language,
	})
}

type rssProvider struct {
	api RSSAPI
}

// NewRSSProvider adapts the RSS catalog client to the provider registry.
func NewRSSProvider(api RSSAPI) Provider {
	return &rssProvider{api: api}
}

func (p *rssProvider) Name() string { return string(entity.ChannelRSS) }

// Articles resolves the catalog sources matching the filters and fans
// out one feed fetch per source. The RSS catalog has no country axis;
// that filter only narrows the REST provider.
func (p *rssProvider) Articles(ctx context.Context, q Query) ([]entity.Article, error) {
	sources := p.api.GetSources(ctx, q.Category, q.Language)
	return p.api.GetArticles(ctx, sources), nil
}

func (p *rssProvider) Sources(ctx context.Context, q Query) ([]entity.Source, error) {
	return p.api.GetSources(ctx, q.Category, q.Language), nil
}
