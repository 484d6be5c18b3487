package metrics

import (
	"strconv"
	"time"
)

// RecordProviderFetch records one provider-level fetch, its outcome, and how
// many normalized articles it contributed.
func RecordProviderFetch(provider string, success bool, articles int, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	ProviderFetchesTotal.WithLabelValues(provider, status).Inc()
	ProviderFetchDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if articles > 0 {
		ArticlesAggregatedTotal.WithLabelValues(provider).Add(float64(articles))
	}
}

// RecordFeedItemDropped records a feed item discarded during parsing or
// normalization. Reason should be a short stable token such as
// "missing_title" or "bad_timestamp".
func RecordFeedItemDropped(reason string) {
	FeedItemsDroppedTotal.WithLabelValues(reason).Inc()
}

// RecordEnrichment records the outcome of one archive enrichment attempt.
func RecordEnrichment(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	EnrichmentTotal.WithLabelValues(status).Inc()
	EnrichmentDuration.Observe(duration.Seconds())
}

// RecordTransportRequest records one settled outbound HTTP request.
// A statusCode of 0 means the request never produced an HTTP response.
func RecordTransportRequest(method string, statusCode int) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	TransportRequestsTotal.WithLabelValues(method, status).Inc()
}

// RecordTransportRetry records one retried outbound HTTP request.
func RecordTransportRetry() {
	TransportRetriesTotal.Inc()
}
