package newsorg

import (
	"errors"
	"fmt"
)

// ErrAPIKeyMissing indicates the provider was queried without an API
// key configured. Surfaced before any network call.
var ErrAPIKeyMissing = errors.New("newsorg API key is not configured")

// SchemaError reports a response payload that violated the strict wire
// contract. The message carries the decode failure (which names any
// unexpected field) and the raw offending payload, because a schema
// break signals an upstream contract change worth surfacing loudly.
type SchemaError struct {
	Endpoint string
	Payload  []byte
	Err      error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("failed to validate the newsorg %s response: %v: %s",
		e.Endpoint, e.Err, e.Payload)
}

func (e *SchemaError) Unwrap() error { return e.Err }
