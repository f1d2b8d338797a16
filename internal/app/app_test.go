package app_test

import (
	"bytes"
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/cas"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/imports"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/adapters/transform"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/worker"
)

// fakeWatcher delivers events pushed by the test and ends the stream when the
// context given to Start is cancelled.
type fakeWatcher struct {
	events chan ports.WatchEvent

	mu      sync.Mutex
	root    string
	stopped bool
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{events: make(chan ports.WatchEvent)}
}

func (f *fakeWatcher) Start(ctx context.Context, root string) error {
	f.mu.Lock()
	f.root = root
	f.mu.Unlock()
	go func() {
		<-ctx.Done()
		close(f.events)
	}()
	return nil
}

func (f *fakeWatcher) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func (f *fakeWatcher) state() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.root, f.stopped
}

func (f *fakeWatcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for ev := range f.events {
			if !yield(ev) {
				return
			}
		}
	}
}

func newApp(t *testing.T, w ports.Watcher) *app.App {
	t.Helper()
	lg := logger.New()
	lg.SetOutput(io.Discard)
	return newAppWithLogger(t, w, lg)
}

func newAppWithLogger(t *testing.T, w ports.Watcher, lg *logger.Logger) *app.App {
	t.Helper()

	cfg := domain.DefaultConfig()
	resolver, err := fs.NewResolver(cfg.Extensions, cfg.ResolverCacheSize)
	require.NoError(t, err)

	wk := worker.New(2, cas.NewStore(), fs.NewHasher(), resolver, transform.Default(cfg.Banner), lg, telemetry.NewNoOp())
	return app.New(wk, fs.NewWalker(), imports.New(), w, lg, cfg)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func resultPaths(results []worker.Result) []string {
	paths := make([]string, len(results))
	for i, res := range results {
		paths[i] = res.Path
	}
	return paths
}

func TestApp_Build_LogsSummaryAndImports(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.ts")
	b := filepath.Join(dir, "b.ts")
	writeFile(t, a, "import './b';\n")
	writeFile(t, b, "export {};\n")

	var logs bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&logs)
	lg.SetVerbose(true)

	_, err := newAppWithLogger(t, newFakeWatcher(), lg).Build(context.Background(), app.BuildOptions{Paths: []string{dir}})
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "msg=dependencies path="+a+" imports=["+b+"]")
	assert.Contains(t, out, "msg=\"build finished\" files=2 transformed=2 cached=0 failed=0")
}

func TestApp_Build_DiscoversDependencies(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "src", "a.ts")
	b := filepath.Join(dir, "src", "b.ts")
	base := filepath.Join(dir, "src", "base.css")
	style := filepath.Join(dir, "src", "style.css")
	writeFile(t, a, "import { b } from './b';\nimport React from 'react';\n")
	writeFile(t, b, "export const b = 1;\n")
	writeFile(t, base, "body {}\n")
	writeFile(t, style, "@import './base.css';\n")
	writeFile(t, filepath.Join(dir, "README.md"), "# not a source\n")
	writeFile(t, filepath.Join(dir, "node_modules", "react", "index.js"), "module.exports = {};\n")

	a1 := newApp(t, newFakeWatcher())
	var out bytes.Buffer

	report, err := a1.Build(context.Background(), app.BuildOptions{Paths: []string{dir}, Stdout: &out})
	require.NoError(t, err)

	assert.Equal(t, []string{a, b, base, style}, resultPaths(report.Results))
	assert.Equal(t, 2, report.Edges)
	assert.Empty(t, report.Failed())
	assert.Equal(t, map[domain.Outcome]int{domain.OutcomeTransformed: 4}, report.Outcomes())
	assert.Equal(t, []string{a}, a1.Worker().Dependents(b))
	assert.Equal(t, []string{style}, a1.Worker().Dependents(base))
	assert.Contains(t, out.String(), "// "+b+"\n/* kiln transformed */\nexport const b = 1;\n")

	stats := a1.Stats()
	assert.Equal(t, 4, stats.Entries)
	assert.Equal(t, 2, stats.Edges)
	assert.Equal(t, uint64(4), stats.Misses)

	// A second build is served from the cache and discovers nothing new.
	report, err = a1.Build(context.Background(), app.BuildOptions{Paths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Edges)
	assert.Equal(t, map[domain.Outcome]int{domain.OutcomeCached: 4}, report.Outcomes())
	for _, res := range report.Results {
		assert.True(t, res.Cached, res.Path)
	}
}

func TestApp_Build_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.ts")
	writeFile(t, good, "export {};\n")
	dangling := filepath.Join(dir, "b.ts")
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing.ts"), dangling))
	other := filepath.Join(dir, "c.ts")
	writeFile(t, other, "export {};\n")

	report, err := newApp(t, newFakeWatcher()).Build(context.Background(), app.BuildOptions{Paths: []string{dir}})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.ErrorIs(t, err, domain.ErrFileReadFailed)
	require.NotNil(t, report)
	require.Len(t, report.Results, 3)
	assert.NoError(t, report.Results[0].Err)
	assert.Error(t, report.Results[1].Err)
	assert.NoError(t, report.Results[2].Err)
	assert.Len(t, report.Failed(), 1)
}

func TestApp_Build_MissingPath(t *testing.T) {
	_, err := newApp(t, newFakeWatcher()).Build(context.Background(), app.BuildOptions{
		Paths: []string{filepath.Join(t.TempDir(), "nope")},
	})

	assert.ErrorIs(t, err, domain.ErrPathNotFound)
}

func TestApp_Build_OutDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "lib", "a.ts"), "a\r\n")
	t.Chdir(dir)

	_, err := newApp(t, newFakeWatcher()).Build(context.Background(), app.BuildOptions{
		Paths:  []string{"src"},
		OutDir: "dist",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "dist", "src", "lib", "a.ts"))
	require.NoError(t, err)
	assert.Equal(t, "/* kiln transformed */\na\n", string(data))
}

func TestApp_Rebuild(t *testing.T) {
	newChain := func(t *testing.T) (*app.App, string, string, string) {
		t.Helper()
		dir := t.TempDir()
		a := filepath.Join(dir, "a.ts")
		b := filepath.Join(dir, "b.ts")
		c := filepath.Join(dir, "c.ts")
		writeFile(t, a, "import './b';\n")
		writeFile(t, b, "import './c';\n")
		writeFile(t, c, "export const c = 1;\n")

		a1 := newApp(t, newFakeWatcher())
		_, err := a1.Build(context.Background(), app.BuildOptions{Paths: []string{dir}})
		require.NoError(t, err)
		return a1, a, b, c
	}

	t.Run("one hop", func(t *testing.T) {
		a1, _, b, c := newChain(t)
		writeFile(t, c, "export const c = 2;\n")

		report := a1.Rebuild(context.Background(), []string{c}, false)

		assert.Equal(t, []string{c, b}, resultPaths(report.Results))
		for _, res := range report.Results {
			assert.False(t, res.Cached, res.Path)
		}
	})

	t.Run("transitive", func(t *testing.T) {
		a1, a, b, c := newChain(t)

		report := a1.Rebuild(context.Background(), []string{c}, true)

		assert.Equal(t, []string{c, b, a}, resultPaths(report.Results))
		assert.True(t, report.Results[0].Cached, "unchanged file is served from cache")
		assert.False(t, report.Results[1].Cached)
		assert.False(t, report.Results[2].Cached)
	})

	t.Run("removed file", func(t *testing.T) {
		a1, a, b, _ := newChain(t)
		require.NoError(t, os.Remove(b))

		report := a1.Rebuild(context.Background(), []string{b}, false)

		assert.Equal(t, []string{a}, resultPaths(report.Results))
		assert.False(t, report.Results[0].Cached)
		assert.Equal(t, 2, a1.Stats().Entries)
	})

	t.Run("new source file", func(t *testing.T) {
		a1, a, _, _ := newChain(t)
		d := filepath.Join(filepath.Dir(a), "d.ts")
		writeFile(t, d, "import './a';\n")

		report := a1.Rebuild(context.Background(), []string{d}, false)

		assert.Equal(t, []string{d}, resultPaths(report.Results))
		assert.Equal(t, 1, report.Edges)
		assert.Equal(t, []string{d}, a1.Worker().Dependents(a))
	})

	t.Run("ignored changes", func(t *testing.T) {
		a1, a, _, _ := newChain(t)
		readme := filepath.Join(filepath.Dir(a), "README.md")
		writeFile(t, readme, "docs")

		report := a1.Rebuild(context.Background(), []string{readme, filepath.Join(filepath.Dir(a), "gone.ts")}, false)

		assert.Empty(t, report.Results)
	})
}

func TestApp_Resolve(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.ts")
	b := filepath.Join(dir, "lib", "index.ts")
	writeFile(t, a, "")
	writeFile(t, b, "")

	a1 := newApp(t, newFakeWatcher())

	got, err := a1.Resolve(a, "./lib")
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = a1.Resolve(a, "react")
	assert.ErrorIs(t, err, domain.ErrUnresolved)
}
