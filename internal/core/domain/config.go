package domain

import "time"

// DefaultPoolSize is the number of workers used when none is configured.
const DefaultPoolSize = 4

// DefaultBanner is the comment the reference transformer prefixes to every output.
const DefaultBanner = "kiln transformed"

// DefaultResolverCacheSize bounds the resolver memo.
const DefaultResolverCacheSize = 4096

// DefaultDebounce is the default window for coalescing file system events.
const DefaultDebounce = 50 * time.Millisecond

// DefaultExtensions are tried, in order, when resolving extensionless specifiers.
var DefaultExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".json", ".css"}

// DefaultIgnores are directory names never walked or watched.
var DefaultIgnores = []string{".git", ".jj", "node_modules"}

// Config holds the build settings.
type Config struct {
	PoolSize          int
	Banner            string
	Extensions        []string
	Ignore            []string
	ResolverCacheSize int
	Debounce          time.Duration
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		PoolSize:          DefaultPoolSize,
		Banner:            DefaultBanner,
		Extensions:        append([]string(nil), DefaultExtensions...),
		Ignore:            append([]string(nil), DefaultIgnores...),
		ResolverCacheSize: DefaultResolverCacheSize,
		Debounce:          DefaultDebounce,
	}
}
