// Package config provides the configuration loader for kiln.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	// Filename is the project config file looked up in the working directory.
	Filename = "kiln.yaml"
	// EnvFilename is the dotenv file looked up next to the config file.
	EnvFilename = ".env"

	// EnvPoolSize overrides pool_size.
	EnvPoolSize = "KILN_POOL_SIZE"
	// EnvBanner overrides banner.
	EnvBanner = "KILN_BANNER"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file plus environment overrides.
type Loader struct {
	Logger   ports.Logger
	Filename string
}

// NewLoader creates a new configuration loader reading kiln.yaml.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{Logger: log, Filename: Filename}
}

// Load reads the configuration from the given working directory.
// Precedence is process environment, then .env, then the YAML file, then defaults.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(cwd, l.filename())
	kf, err := readKilnfile(path)
	if err != nil {
		return nil, err
	}
	if kf == nil {
		l.debug("no config file found, using defaults", "path", path)
	} else if err := applyKilnfile(cfg, kf, path); err != nil {
		return nil, err
	}

	env, err := l.environment(filepath.Join(cwd, EnvFilename))
	if err != nil {
		return nil, err
	}
	if err := applyEnvironment(cfg, env); err != nil {
		return nil, err
	}

	if cfg.PoolSize < 1 {
		return nil, zerr.With(domain.Tag(domain.ErrInvalidConfig), "pool_size", cfg.PoolSize)
	}
	return cfg, nil
}

func (l *Loader) filename() string {
	if l.Filename == "" {
		return Filename
	}
	return l.Filename
}

func (l *Loader) debug(msg string, args ...any) {
	if l.Logger != nil {
		l.Logger.Debug(msg, args...)
	}
}

// environment merges the dotenv file at path with the process environment.
func (l *Loader) environment(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		env = make(map[string]string)
	case err != nil:
		return nil, zerr.With(domain.Wrap(err, domain.ErrConfigParseFailed), "path", path)
	default:
		l.debug("loaded dotenv overrides", "path", path, "keys", len(env))
	}

	for _, key := range []string{EnvPoolSize, EnvBanner} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env, nil
}

func readKilnfile(path string) (*Kilnfile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(domain.Wrap(err, domain.ErrConfigReadFailed), "path", path)
	}

	var kf Kilnfile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, zerr.With(domain.Wrap(err, domain.ErrConfigParseFailed), "path", path)
	}
	return &kf, nil
}

func applyKilnfile(cfg *domain.Config, kf *Kilnfile, path string) error {
	if kf.PoolSize != nil {
		cfg.PoolSize = *kf.PoolSize
	}
	if kf.Banner != nil {
		cfg.Banner = *kf.Banner
	}
	if len(kf.Extensions) > 0 {
		cfg.Extensions = kf.Extensions
	}
	if len(kf.Ignore) > 0 {
		cfg.Ignore = kf.Ignore
	}
	if kf.Resolver.CacheSize != nil {
		if *kf.Resolver.CacheSize < 1 {
			return zerr.With(zerr.With(domain.Tag(domain.ErrInvalidConfig), "resolver.cache_size", *kf.Resolver.CacheSize), "path", path)
		}
		cfg.ResolverCacheSize = *kf.Resolver.CacheSize
	}
	if kf.Watch.Debounce != "" {
		d, err := time.ParseDuration(kf.Watch.Debounce)
		if err != nil || d < 0 {
			return zerr.With(zerr.With(domain.Tag(domain.ErrInvalidConfig), "watch.debounce", kf.Watch.Debounce), "path", path)
		}
		cfg.Debounce = d
	}
	return nil
}

func applyEnvironment(cfg *domain.Config, env map[string]string) error {
	if v, ok := env[EnvPoolSize]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return zerr.With(domain.Wrap(err, domain.ErrInvalidConfig), EnvPoolSize, v)
		}
		cfg.PoolSize = n
	}
	if v, ok := env[EnvBanner]; ok {
		cfg.Banner = v
	}
	return nil
}
