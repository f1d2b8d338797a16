package config

// Kilnfile represents the structure of the kiln.yaml configuration file.
// Pointer fields distinguish an explicit zero from an absent key.
type Kilnfile struct {
	PoolSize   *int        `yaml:"pool_size"`
	Banner     *string     `yaml:"banner"`
	Extensions []string    `yaml:"extensions"`
	Ignore     []string    `yaml:"ignore"`
	Resolver   ResolverDTO `yaml:"resolver"`
	Watch      WatchDTO    `yaml:"watch"`
}

// ResolverDTO configures the specifier resolver.
type ResolverDTO struct {
	CacheSize *int `yaml:"cache_size"`
}

// WatchDTO configures watch mode.
type WatchDTO struct {
	Debounce string `yaml:"debounce"`
}
