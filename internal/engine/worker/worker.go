// Package worker implements the incremental build orchestrator: it owns the
// asset cache and the dependency graph and drives the transform pipeline over
// a bounded pool of goroutines.
package worker

import (
	"context"
	"os"
	"sync/atomic"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Worker processes source files incrementally.
//
// A file is transformed only when its content digest differs from the cached
// one. The cache and the graph are updated independently; cache validity
// depends on the digest alone, so a reader may briefly see an entry whose
// graph node is not yet registered.
type Worker struct {
	cache       ports.AssetCache
	graph       *domain.DependencyGraph
	hasher      ports.Hasher
	resolver    ports.Resolver
	transformer ports.Transformer
	logger      ports.Logger
	telemetry   ports.Telemetry
	poolSize    atomic.Int64

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates a Worker with an empty graph. A poolSize below 1 uses
// domain.DefaultPoolSize.
func New(
	poolSize int,
	cache ports.AssetCache,
	hasher ports.Hasher,
	resolver ports.Resolver,
	transformer ports.Transformer,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *Worker {
	w := &Worker{
		cache:       cache,
		graph:       domain.NewDependencyGraph(),
		hasher:      hasher,
		resolver:    resolver,
		transformer: transformer,
		logger:      logger,
		telemetry:   telemetry,
	}
	w.SetPoolSize(poolSize)
	return w
}

// PoolSize returns the number of files processed concurrently by ProcessBatch.
func (w *Worker) PoolSize() int {
	return int(w.poolSize.Load())
}

// SetPoolSize changes the pool size used by later batches. A value below 1
// restores domain.DefaultPoolSize.
func (w *Worker) SetPoolSize(n int) {
	if n < 1 {
		n = domain.DefaultPoolSize
	}
	w.poolSize.Store(int64(n))
}

// ProcessFile returns the transformed content of the file at path.
//
// Unchanged content is served from the cache without running the transformer
// or touching the graph. Changed content is transformed, cached and registered
// as a graph node. A read failure is reported in the Result; it never panics.
func (w *Worker) ProcessFile(ctx context.Context, path string) Result {
	vertex := w.telemetry.Record(ctx, path)

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the caller
	if err != nil {
		err = zerr.With(domain.Wrap(err, domain.ErrFileReadFailed), "path", path)
		w.logger.Warn("skipping unreadable file", "path", path, "error", err)
		vertex.Complete(err)
		return Result{Path: path, Err: err}
	}

	digest := w.hasher.Digest(data)
	if entry, ok := w.cache.Get(path); ok && entry.Matches(digest) {
		w.hits.Add(1)
		w.logger.Debug("cache hit", "path", path, "hash", digest)
		vertex.Cached()
		vertex.Complete(nil)
		return Result{Path: path, Content: entry.Content, Cached: true}
	}

	w.misses.Add(1)
	content := w.transformer.Transform(string(data), path)
	w.cache.Insert(path, domain.CacheEntry{Hash: digest, Content: content})
	w.graph.AddNode(path)

	w.logger.Debug("transformed", "path", path, "hash", digest)
	vertex.Log(domain.LogLevelDebug, "transformed "+path)
	vertex.Complete(nil)
	return Result{Path: path, Content: content}
}

// ProcessBatch processes every path on the worker pool and returns the results
// in input order. Failures are reported per file and never stop the batch.
func (w *Worker) ProcessBatch(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))

	var g errgroup.Group
	g.SetLimit(w.PoolSize())
	for i, path := range paths {
		g.Go(func() error {
			results[i] = w.ProcessFile(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Invalidate drops the cached output for path. The graph is left untouched.
func (w *Worker) Invalidate(path string) {
	w.cache.Remove(path)
}

// Rebuild returns path followed by its direct dependents and drops the cached
// output of each dependent. Dependents of dependents are not visited; use
// RebuildTransitive for the full blast radius.
func (w *Worker) Rebuild(path string) []string {
	return w.evict(path, w.graph.Dependents(path))
}

// RebuildTransitive returns path followed by every file that reaches it
// through import edges, in breadth-first order, and drops their cached output.
func (w *Worker) RebuildTransitive(path string) []string {
	return w.evict(path, w.graph.TransitiveDependents(path))
}

func (w *Worker) evict(path string, dependents []string) []string {
	affected := make([]string, 0, len(dependents)+1)
	affected = append(affected, path)
	for _, dep := range dependents {
		w.cache.Remove(dep)
		affected = append(affected, dep)
	}
	return affected
}

// ResolveDependency resolves specifier as imported from the file from.
// It does not record an edge; call AddDependency for that.
func (w *Worker) ResolveDependency(from, specifier string) (string, bool) {
	return w.resolver.Resolve(specifier, from)
}

// AddDependency records that from imports to.
func (w *Worker) AddDependency(from, to string) {
	w.graph.AddDependency(from, to)
}

// Dependents returns the direct importers of id.
func (w *Worker) Dependents(id string) []string {
	return w.graph.Dependents(id)
}

// Dependencies returns the files id imports directly.
func (w *Worker) Dependencies(id string) []string {
	return w.graph.Dependencies(id)
}

// Tracks reports whether id has been registered in the graph.
func (w *Worker) Tracks(id string) bool {
	return w.graph.HasNode(id)
}

// ForgetResolutions drops any memoised resolutions held by the resolver.
// It is a no-op for resolvers without a memo.
func (w *Worker) ForgetResolutions() {
	if f, ok := w.resolver.(interface{ Forget() }); ok {
		f.Forget()
	}
}

// CacheStats returns a snapshot of the cache and graph counters.
func (w *Worker) CacheStats() Stats {
	return Stats{
		Entries:  w.cache.Len(),
		Nodes:    w.graph.NodeCount(),
		Edges:    w.graph.EdgeCount(),
		Hits:     w.hits.Load(),
		Misses:   w.misses.Load(),
		PoolSize: w.PoolSize(),
	}
}

// ClearCache drops every cached output. The graph is kept.
func (w *Worker) ClearCache() {
	w.cache.Clear()
}
