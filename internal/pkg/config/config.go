package config

import (
	"time"
)

// Environment variable names.
const (
	EnvNewsorgAPIKey  = "NEWSORG_API_KEY"
	EnvSourceFile     = "NEWSPY_SOURCE_FILE"
	EnvHTTPTimeout    = "NEWSPY_HTTP_TIMEOUT"
	EnvFeedsFile      = "NEWSPY_FEEDS_FILE"
	EnvArchiveBaseURL = "NEWSPY_ARCHIVE_URL"
)

const defaultHTTPTimeout = 5 * time.Second

// Config is the immutable runtime configuration, resolved once at
// startup and passed to constructors. There is no ambient global key
// store; a Client without an API key fails its own calls.
type Config struct {
	// NewsorgAPIKey authenticates against the REST provider. Empty
	// means the provider will reject its own calls before the network.
	NewsorgAPIKey string

	// SourceFile is the RSS catalog location, an http(s) URL or local
	// path. Empty means the published default catalog.
	SourceFile string

	// FeedsFile optionally points at a YAML file of explicit RSS
	// sources that replaces the catalog lookup.
	FeedsFile string

	// ArchiveBaseURL overrides the archive mirror root.
	ArchiveBaseURL string

	// HTTPTimeout is the per-request transport timeout.
	HTTPTimeout time.Duration
}

// Load resolves the configuration from the environment. Bad values
// fall back to defaults; the returned warnings should be logged by the
// caller.
func Load() (Config, []string) {
	var warnings []string

	timeoutRes := LoadEnvDuration(EnvHTTPTimeout, defaultHTTPTimeout, ValidatePositiveDuration)
	warnings = append(warnings, timeoutRes.Warnings...)

	sourceRes := LoadEnvWithFallback(EnvSourceFile, "", ValidateSourceLocation)
	warnings = append(warnings, sourceRes.Warnings...)

	cfg := Config{
		NewsorgAPIKey:  LoadEnvString(EnvNewsorgAPIKey, ""),
		SourceFile:     sourceRes.Value.(string),
		FeedsFile:      LoadEnvString(EnvFeedsFile, ""),
		ArchiveBaseURL: LoadEnvString(EnvArchiveBaseURL, ""),
		HTTPTimeout:    timeoutRes.Value.(time.Duration),
	}
	return cfg, warnings
}
