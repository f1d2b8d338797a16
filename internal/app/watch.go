package app

import (
	"context"

	"go.trai.ch/kiln/internal/adapters/watcher" //nolint:depguard // Debouncer is shared with the watcher adapter
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// WatchOptions configures watch mode.
type WatchOptions struct {
	// Root is the directory to build and watch. Empty means ".".
	Root string
	// Transitive rebuilds every file that reaches a change, not only direct importers.
	Transitive bool
	// OnRebuild, when set, is called after every change batch.
	OnRebuild func(*Report)
}

// Watch builds opts.Root and then rebuilds incrementally on every change until
// ctx is cancelled. Per-file failures are logged and never stop the loop.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	root := opts.Root
	if root == "" {
		root = "."
	}

	initial, err := a.Build(ctx, BuildOptions{Paths: []string{root}})
	if initial == nil {
		return err
	}
	if err != nil {
		a.logger.Warn("initial build had failures", "failed", len(initial.Failed()))
	}

	if err := a.watcher.Start(ctx, root); err != nil {
		return zerr.With(domain.Wrap(err, domain.ErrWatchFailed), "root", root)
	}
	defer func() {
		if err := a.watcher.Stop(); err != nil {
			a.logger.Warn("failed to stop watcher", "error", err)
		}
	}()

	a.logger.Info("watching for changes", "root", root, "transitive", opts.Transitive)

	debouncer := watcher.NewDebouncer(a.config.Debounce, func(paths []string) {
		report := a.Rebuild(ctx, paths, opts.Transitive)
		if opts.OnRebuild != nil {
			opts.OnRebuild(report)
		}
	})

	for event := range a.watcher.Events() {
		if ctx.Err() != nil {
			break
		}
		debouncer.Add(event.Path)
	}

	if ctx.Err() != nil {
		debouncer.Stop()
		return nil
	}
	// The event stream ended on its own; finish what is pending.
	debouncer.Flush()
	return nil
}
