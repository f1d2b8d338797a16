package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrFileReadFailed is returned when a source file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read source file")

	// ErrFileWriteFailed is returned when a transformed output cannot be written.
	ErrFileWriteFailed = zerr.New("failed to write output file")

	// ErrPathNotFound is returned when a path given on the command line does not exist.
	ErrPathNotFound = zerr.New("path not found")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a configuration value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration value")

	// ErrBuildFailed is returned when one or more files in a build could not be processed.
	ErrBuildFailed = zerr.New("build failed")

	// ErrWatchFailed is returned when the file system watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to start watcher")

	// ErrUnresolved is returned by the CLI when a specifier does not resolve.
	ErrUnresolved = zerr.New("specifier could not be resolved")

	// ErrResolverCacheInit is returned when the resolver memo cannot be allocated.
	ErrResolverCacheInit = zerr.New("failed to create resolver cache")
)

// Wrap annotates cause with the sentinel kind. The result reads "<kind>: <cause>"
// and errors.Is matches it against both kind and cause, also after zerr.With
// attaches metadata. A nil cause yields nil.
func Wrap(cause, kind error) error {
	if cause == nil {
		return nil
	}
	return zerr.Wrap(fmt.Errorf("%w: %w", kind, cause), "")
}

// Tag returns kind ready for zerr.With. zerr.With copies a *zerr.Error instead of
// wrapping it, so metadata attached to a bare sentinel would lose its identity.
func Tag(kind error) error {
	return zerr.Wrap(kind, "")
}
