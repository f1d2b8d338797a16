// Package app implements the application layer for kiln.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/worker"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	worker  *worker.Worker
	walker  ports.SourceWalker
	scanner ports.ImportScanner
	watcher ports.Watcher
	logger  ports.Logger
	config  *domain.Config

	// mu serialises change batches in watch mode.
	mu sync.Mutex
}

// New creates a new App instance.
func New(
	w *worker.Worker,
	walker ports.SourceWalker,
	scanner ports.ImportScanner,
	watcher ports.Watcher,
	log ports.Logger,
	cfg *domain.Config,
) *App {
	return &App{
		worker:  w,
		walker:  walker,
		scanner: scanner,
		watcher: watcher,
		logger:  log,
		config:  cfg,
	}
}

// Worker returns the orchestrator the app drives.
func (a *App) Worker() *worker.Worker {
	return a.worker
}

// BuildOptions configures a build.
type BuildOptions struct {
	// Paths are files or directories to build. Empty means ".".
	Paths []string
	// OutDir, when set, receives one output file per input, mirroring the
	// input's path relative to the working directory.
	OutDir string
	// Stdout receives the outputs when OutDir is empty. Nil discards them.
	Stdout io.Writer
}

// Report summarises one processed batch.
type Report struct {
	Results []worker.Result
	Edges   int
	Stats   worker.Stats
}

// Failed returns the results that carry an error.
func (r *Report) Failed() []worker.Result {
	var failed []worker.Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Outcomes counts the results by how each file was handled.
func (r *Report) Outcomes() map[domain.Outcome]int {
	counts := make(map[domain.Outcome]int, 3)
	for _, res := range r.Results {
		counts[res.Outcome()]++
	}
	return counts
}

// Err joins domain.ErrBuildFailed with every per-file error, or returns nil.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failed)+1)
	errs = append(errs, domain.ErrBuildFailed)
	for _, res := range failed {
		errs = append(errs, res.Err)
	}
	return errors.Join(errs...)
}

// Build processes every source file under opts.Paths, records their imports in
// the dependency graph and emits the outputs. Every file is processed even when
// some fail; the returned error then wraps domain.ErrBuildFailed.
func (a *App) Build(ctx context.Context, opts BuildOptions) (*Report, error) {
	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := a.walker.Expand(paths, a.config.Ignore, a.config.Extensions)
	if err != nil {
		return nil, err
	}

	report := a.process(ctx, files)
	outcomes := report.Outcomes()
	a.logger.Info("build finished",
		"files", len(report.Results),
		"transformed", outcomes[domain.OutcomeTransformed],
		"cached", outcomes[domain.OutcomeCached],
		"failed", outcomes[domain.OutcomeFailed],
		"edges", report.Edges,
		"stats", report.Stats.String(),
	)

	if err := a.emit(report, opts); err != nil {
		return report, err
	}
	return report, report.Err()
}

// Rebuild handles a set of changed paths: removed files are invalidated,
// changed or new source files are rebuilt together with their dependents,
// and the affected files are re-processed as one batch.
// With transitive set the whole blast radius is rebuilt instead of one hop.
func (a *App) Rebuild(ctx context.Context, changed []string, transitive bool) *Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	// A file that appeared or vanished may change how specifiers resolve.
	a.worker.ForgetResolutions()

	var affected []string
	seen := make(map[string]bool)
	add := func(p string, process bool) {
		if seen[p] {
			return
		}
		seen[p] = true
		if process {
			affected = append(affected, p)
		}
	}

	for _, path := range changed {
		path = filepath.Clean(path)
		exists := isRegularFile(path)
		if !exists && !a.worker.Tracks(path) {
			continue
		}
		if exists && !a.worker.Tracks(path) && !a.isSource(path) {
			continue
		}

		var blast []string
		if transitive {
			blast = a.worker.RebuildTransitive(path)
		} else {
			blast = a.worker.Rebuild(path)
		}
		if !exists {
			a.worker.Invalidate(path)
			a.logger.Debug("source removed", "path", path)
		}

		add(blast[0], exists)
		for _, dep := range blast[1:] {
			add(dep, isRegularFile(dep))
		}
	}

	report := a.process(ctx, affected)
	outcomes := report.Outcomes()
	a.logger.Info("rebuilt",
		"changed", len(changed),
		"processed", len(report.Results),
		"transformed", outcomes[domain.OutcomeTransformed],
		"cached", outcomes[domain.OutcomeCached],
		"failed", outcomes[domain.OutcomeFailed],
		"stats", report.Stats.String(),
	)
	return report
}

// Resolve resolves specifier as imported from the file from.
func (a *App) Resolve(from, specifier string) (string, error) {
	resolved, ok := a.worker.ResolveDependency(from, specifier)
	if !ok {
		err := zerr.With(domain.Tag(domain.ErrUnresolved), "specifier", specifier)
		return "", zerr.With(err, "from", from)
	}
	return resolved, nil
}

// Stats returns the worker's cache and graph counters.
func (a *App) Stats() worker.Stats {
	return a.worker.CacheStats()
}

// process runs a batch and records the imports of every freshly transformed file.
func (a *App) process(ctx context.Context, files []string) *Report {
	results := a.worker.ProcessBatch(ctx, files)
	edges := 0
	for _, res := range results {
		// A cache hit means unchanged bytes, so its edges are already recorded.
		if res.Err != nil || res.Cached {
			continue
		}
		edges += a.discover(res.Path)
	}
	return &Report{Results: results, Edges: edges, Stats: a.worker.CacheStats()}
}

// discover scans path for imports and records an edge for every specifier
// that resolves. It returns the number of edges recorded.
func (a *App) discover(path string) int {
	data, err := os.ReadFile(path) //nolint:gosec // path was just processed
	if err != nil {
		a.logger.Warn("skipping dependency discovery", "path", path, "error", err)
		return 0
	}

	n := 0
	for _, specifier := range a.scanner.Scan(string(data)) {
		to, ok := a.worker.ResolveDependency(path, specifier)
		if !ok {
			a.logger.Debug("unresolved import", "path", path, "specifier", specifier)
			continue
		}
		a.worker.AddDependency(path, to)
		n++
	}
	a.logger.Debug("dependencies", "path", path, "imports", a.worker.Dependencies(path))
	return n
}

func (a *App) emit(report *Report, opts BuildOptions) error {
	for _, res := range report.Results {
		if res.Err != nil {
			a.logger.Error(res.Err)
			continue
		}

		if opts.OutDir == "" {
			if opts.Stdout == nil {
				continue
			}
			if _, err := fmt.Fprintf(opts.Stdout, "// %s\n%s", res.Path, withTrailingNewline(res.Content)); err != nil {
				return domain.Wrap(err, domain.ErrFileWriteFailed)
			}
			continue
		}

		target := filepath.Join(opts.OutDir, outputPath(res.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return zerr.With(domain.Wrap(err, domain.ErrFileWriteFailed), "path", target)
		}
		if err := os.WriteFile(target, []byte(res.Content), 0o600); err != nil {
			return zerr.With(domain.Wrap(err, domain.ErrFileWriteFailed), "path", target)
		}
	}
	return nil
}

// outputPath maps an input path to its location under the output directory.
// Paths outside the working directory keep only their base name.
func outputPath(path string) string {
	rel := path
	if filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return filepath.Base(path)
		}
		if rel, err = filepath.Rel(cwd, path); err != nil {
			return filepath.Base(path)
		}
	}
	rel = filepath.Clean(rel)
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Base(path)
	}
	return rel
}

func (a *App) isSource(path string) bool {
	return slices.Contains(a.config.Extensions, filepath.Ext(path))
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func withTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
