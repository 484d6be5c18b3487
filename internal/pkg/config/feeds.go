package config

import (
	"fmt"
	"os"

	"newspy/internal/domain/entity"
	"newspy/internal/utils/text"

	"gopkg.in/yaml.v3"
)

// FeedsFile is an explicit YAML list of RSS sources, used instead of
// the remote catalog when the operator pins their own feeds:
//
//	sources:
//	  - id: wsj-markets
//	    name: The Wall Street Journal Markets
//	    url: https://feeds.a.dj.com/rss/RSSMarketsMain.xml
//	    category: business
//	    language: en
type FeedsFile struct {
	Sources []FeedSource `yaml:"sources"`
}

// FeedSource is one pinned RSS source entry.
type FeedSource struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
	Category    string `yaml:"category"`
	Language    string `yaml:"language"`
}

// LoadFeedsFile parses a pinned-feeds YAML file into sources. Entries
// without a name or with an invalid http(s) URL are rejected; a missing
// id defaults to the slugified name, mirroring the catalog loader. The
// catalog loader skips bad rows, but a pinned file is operator intent,
// so a bad entry fails the whole load.
func LoadFeedsFile(path string) ([]entity.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	var file FeedsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse feeds file %s: %w", path, err)
	}

	sources := make([]entity.Source, 0, len(file.Sources))
	for i, fs := range file.Sources {
		if fs.Name == "" || fs.URL == "" {
			return nil, fmt.Errorf("feeds file %s: entry %d is missing name or url", path, i)
		}
		if err := entity.ValidateURL(fs.URL); err != nil {
			return nil, fmt.Errorf("feeds file %s: entry %d: %w", path, i, err)
		}
		src := entity.Source{
			ID:          fs.ID,
			Name:        fs.Name,
			Channel:     entity.ChannelRSS,
			Description: fs.Description,
			URL:         fs.URL,
			Category:    entity.Category(fs.Category),
			Language:    entity.Language(fs.Language),
		}
		if src.ID == "" {
			src.ID = text.Slugify(src.Name)
		}
		sources = append(sources, src)
	}
	return sources, nil
}
