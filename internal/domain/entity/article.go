// Package entity defines the core domain entities for the aggregation engine.
// It contains the canonical Article and Source models that every provider
// adapter normalizes into, along with the closed filter enumerations and
// domain-specific errors.
package entity

import "time"

// Article is the canonical, provider-agnostic publication model.
// Adapters build Articles from their wire shapes; after construction an
// Article is treated as immutable except for the Archived field, which the
// enrichment pass may populate.
type Article struct {
	// Slug is derived as slugify(source name) + "-" + slugify(title) and is
	// a pure function of those two inputs.
	Slug string `json:"slug"`

	URL        string `json:"url"`
	URLToImage string `json:"url_to_image,omitempty"` // empty for most RSS sources
	Title      string `json:"title"`
	Abstract   string `json:"abstract"`
	Author     string `json:"author,omitempty"`

	// Source is embedded by value; articles never share mutable source state.
	Source Source `json:"source"`

	// Published carries an offset when the source format supplied one.
	Published time.Time `json:"published"`

	// Archived is nil until the enrichment fan-out has run for this article.
	// It never affects Slug/URL/Title identity.
	Archived *ArchivedData `json:"archived_data,omitempty"`
}

// ArchivedStatus reports the outcome of an archive snapshot fetch.
type ArchivedStatus string

const (
	ArchivedStatusSuccess ArchivedStatus = "success"
	ArchivedStatusFailed  ArchivedStatus = "failed"
)

// ArchivedData holds the result of fetching an article's archived snapshot.
// A failed fetch is recorded here rather than dropping the article.
type ArchivedData struct {
	Status      ArchivedStatus `json:"status"`
	OriginalURL string         `json:"original_url"`
	ArchiveURL  string         `json:"archive_url,omitempty"`
	Title       string         `json:"title,omitempty"`
	Text        string         `json:"text,omitempty"`
	Error       string         `json:"error,omitempty"`
}
