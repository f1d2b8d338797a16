package fs

import (
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Resolver = (*Resolver)(nil)

type resolveKey struct {
	specifier string
	referrer  string
}

type resolution struct {
	path string
	ok   bool
}

// Resolver resolves relative and absolute specifiers against the file system.
//
// Bare specifiers ("react", "@scope/pkg") are left unresolved. Candidates are
// tried as written, then with each extension appended, then as a directory
// index with each extension. Results, including misses, are memoised.
type Resolver struct {
	extensions []string
	memo       *lru.Cache[resolveKey, resolution]
}

// NewResolver creates a Resolver probing the given extensions in order.
// cacheSize bounds the memo; values below 1 use domain.DefaultResolverCacheSize.
func NewResolver(extensions []string, cacheSize int) (*Resolver, error) {
	if cacheSize < 1 {
		cacheSize = domain.DefaultResolverCacheSize
	}
	memo, err := lru.New[resolveKey, resolution](cacheSize)
	if err != nil {
		return nil, zerr.With(domain.Wrap(err, domain.ErrResolverCacheInit), "size", cacheSize)
	}
	return &Resolver{
		extensions: append([]string(nil), extensions...),
		memo:       memo,
	}, nil
}

// Resolve returns the file specifier refers to when imported from referrer.
func (r *Resolver) Resolve(specifier, referrer string) (string, bool) {
	key := resolveKey{specifier: specifier, referrer: referrer}
	if hit, ok := r.memo.Get(key); ok {
		return hit.path, hit.ok
	}

	path, ok := r.resolve(specifier, referrer)
	r.memo.Add(key, resolution{path: path, ok: ok})
	return path, ok
}

// Forget drops memoised resolutions. It is called when files appear or
// disappear, since a miss may have become a hit and vice versa.
func (r *Resolver) Forget() {
	r.memo.Purge()
}

func (r *Resolver) resolve(specifier, referrer string) (string, bool) {
	if specifier == "" {
		return "", false
	}

	var base string
	switch {
	case filepath.IsAbs(specifier):
		base = filepath.Clean(specifier)
	case isRelative(specifier):
		base = filepath.Join(filepath.Dir(referrer), specifier)
	default:
		return "", false
	}

	if isFile(base) {
		return base, true
	}
	for _, ext := range r.extensions {
		if candidate := base + ext; isFile(candidate) {
			return candidate, true
		}
	}
	for _, ext := range r.extensions {
		if candidate := filepath.Join(base, "index"+ext); isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func isRelative(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
