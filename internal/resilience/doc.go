// Package resilience provides reliability and fault tolerance patterns for the
// outbound fetch paths: circuit breakers around archive snapshots and retry
// logic with exponential backoff around every HTTP request.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.DefaultConfig("archive"))
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return fetchSnapshot()
//	})
//
//	retryConfig := retry.DefaultConfig()
//	err := retry.WithBackoff(ctx, retryConfig, func() error {
//	    return performRequest()
//	})
package resilience
