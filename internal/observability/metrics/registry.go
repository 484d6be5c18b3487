// Package metrics provides centralized Prometheus metrics for the aggregation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider metrics track the per-provider fan-out
var (
	// ProviderFetchesTotal counts provider-level fetch attempts by outcome
	ProviderFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_fetches_total",
			Help: "Total number of provider fetch operations",
		},
		[]string{"provider", "status"},
	)

	// ProviderFetchDuration measures provider fetch duration in seconds
	ProviderFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_fetch_duration_seconds",
			Help:    "Provider fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// ArticlesAggregatedTotal counts normalized articles contributed per provider
	ArticlesAggregatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_aggregated_total",
			Help: "Total number of articles contributed by each provider",
		},
		[]string{"provider"},
	)

	// FeedItemsDroppedTotal counts feed items discarded during normalization
	FeedItemsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_items_dropped_total",
			Help: "Total number of feed items dropped during parsing or normalization",
		},
		[]string{"reason"},
	)
)

// Enrichment metrics track the archive snapshot fan-out
var (
	// EnrichmentTotal counts archive enrichment attempts by outcome
	EnrichmentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_enrichment_total",
			Help: "Total number of archive enrichment attempts",
		},
		[]string{"status"},
	)

	// EnrichmentDuration measures archive snapshot fetch duration in seconds
	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "archive_enrichment_duration_seconds",
			Help:    "Archive snapshot fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Transport metrics track outbound HTTP behavior
var (
	// TransportRequestsTotal counts outbound HTTP requests by method and status class
	TransportRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transport_requests_total",
			Help: "Total number of outbound HTTP requests",
		},
		[]string{"method", "status"},
	)

	// TransportRetriesTotal counts retried outbound HTTP requests
	TransportRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "transport_retries_total",
			Help: "Total number of retried outbound HTTP requests",
		},
	)
)
