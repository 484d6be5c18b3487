// Package sourcelist loads the curated RSS source catalog, a
// gzip-compressed CSV fetched from a remote URL or read from a local
// path. Structural failures (missing file, corrupt gzip, malformed
// rows) yield an empty list rather than an error so aggregation can
// proceed with whatever sources are available.
package sourcelist

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"strings"

	"newspy/internal/domain/entity"
	"newspy/internal/infra/transport"
	"newspy/internal/utils/text"
)

// DefaultSourceURL is the published source catalog.
const DefaultSourceURL = "https://github.com/onemoola/newspy/blob/main/data/rss_sources.csv.gz?raw=true"

// Sender is the transport contract for remote catalogs. Satisfied by
// *transport.Client.
type Sender interface {
	Send(ctx context.Context, req transport.Request) (*transport.Response, error)
}

// Options filter the loaded sources. Zero values match everything.
type Options struct {
	Category entity.Category
	Language entity.Language
}

// Loader reads and filters the source catalog.
type Loader struct {
	sender   Sender
	location string
}

// NewLoader creates a Loader reading from location, which is either an
// http(s) URL or a local file path. An empty location means
// DefaultSourceURL.
func NewLoader(sender Sender, location string) *Loader {
	if location == "" {
		location = DefaultSourceURL
	}
	return &Loader{sender: sender, location: location}
}

// Load returns the catalog sources matching opts. It never returns an
// error; any failure to obtain or decode the catalog yields nil.
func (l *Loader) Load(ctx context.Context, opts Options) []entity.Source {
	raw := l.fetch(ctx)
	if raw == nil {
		return nil
	}

	gz, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		slog.Warn("source list is not valid gzip",
			slog.String("location", l.location),
			slog.Any("error", err))
		return nil
	}
	defer func() {
		_ = gz.Close()
	}()

	rows, err := csv.NewReader(gz).ReadAll()
	if err != nil {
		slog.Warn("source list CSV is malformed",
			slog.String("location", l.location),
			slog.Any("error", err))
		return nil
	}
	if len(rows) < 2 {
		return nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		i, ok := header[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var sources []entity.Source
	for _, row := range rows[1:] {
		src := entity.Source{
			ID:          field(row, "id"),
			Name:        field(row, "name"),
			Channel:     entity.ChannelRSS,
			Description: field(row, "description"),
			URL:         field(row, "url"),
			Category:    entity.Category(field(row, "category")),
			Language:    entity.Language(field(row, "language")),
		}
		if src.Name == "" || src.URL == "" {
			continue
		}
		if err := entity.ValidateURL(src.URL); err != nil {
			slog.Warn("skipping catalog row with invalid feed URL",
				slog.String("name", src.Name),
				slog.String("url", src.URL),
				slog.Any("error", err))
			continue
		}
		if src.ID == "" {
			src.ID = text.Slugify(src.Name)
		}
		if opts.Category != "" && src.Category != opts.Category {
			continue
		}
		if opts.Language != "" && src.Language != opts.Language {
			continue
		}
		sources = append(sources, src)
	}
	return sources
}

// fetch obtains the raw gzip bytes from the configured location.
func (l *Loader) fetch(ctx context.Context) []byte {
	if strings.HasPrefix(l.location, "http://") || strings.HasPrefix(l.location, "https://") {
		resp, err := l.sender.Send(ctx, transport.Request{
			Method:  "GET",
			URL:     l.location,
			Headers: map[string]string{"Content-Type": transport.ContentTypeOctet},
		})
		if err != nil {
			slog.Warn("failed to download source list",
				slog.String("url", l.location),
				slog.Any("error", err))
			return nil
		}
		return resp.Raw
	}

	data, err := os.ReadFile(l.location)
	if err != nil {
		slog.Warn("failed to read source list file",
			slog.String("path", l.location),
			slog.Any("error", err))
		return nil
	}
	return data
}
