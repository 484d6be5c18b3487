package text

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnparsableTimestamp indicates that a published timestamp matched none of
// the accepted formats. Callers treat this as an item-level failure: the
// record is logged and skipped, never escalated to a whole-batch error.
var ErrUnparsableTimestamp = errors.New("unparsable timestamp")

// timestampFormats is the ordered list of accepted published-date formats.
// The first format that parses wins. ISO-8601 variants come first because
// they are what the REST API and Atom feeds emit; the RFC-822/1123 styles
// cover classic RSS pubDate values with numeric and named zones.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z07:00", // fractional seconds
	"2006-01-02T15:04:05",                 // naive ISO, no offset
	"2006-01-02 15:04:05",
	time.RFC1123Z, // "Mon, 02 Jan 2006 15:04:05 -0700"
	time.RFC1123,  // "Mon, 02 Jan 2006 15:04:05 MST"
}

// ParseTimestamp parses a published date using the ordered format list.
// Formats without an offset produce a UTC-located time, mirroring the
// "naive" reading of offset-less source values.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsableTimestamp, value)
}
