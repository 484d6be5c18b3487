package entity

// Channel identifies the protocol a source is fetched over.
type Channel string

const (
	ChannelNewsorg Channel = "NEWSORG"
	ChannelRSS     Channel = "RSS"
)

// Source identifies a publisher or feed. It is constructed per fetch from a
// provider response or from the static source-list file and is immutable
// after construction.
type Source struct {
	// ID is provider-local. Adapters default it to the slugified name when
	// the provider omits it, so it is never empty after normalization.
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Channel Channel `json:"channel"`

	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Category    Category `json:"category,omitempty"`
	Language    Language `json:"language,omitempty"`
	Country     Country  `json:"country,omitempty"`
}
