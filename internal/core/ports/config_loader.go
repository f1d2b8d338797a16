package ports

import "go.trai.ch/kiln/internal/core/domain"

// ConfigLoader defines the interface for loading the build configuration.
type ConfigLoader interface {
	// Load reads the configuration from the given working directory.
	// A missing config file yields the defaults.
	Load(cwd string) (*domain.Config, error)
}
