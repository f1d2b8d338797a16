package watcher_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/adapters/watcher"
	"go.trai.ch/kiln/internal/core/ports"
)

// waitForEvent returns the first event for path whose operation is one of ops.
func waitForEvent(t *testing.T, events <-chan ports.WatchEvent, path string, ops ...ports.WatchOp) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event stream closed before %s", path)
			if ev.Path == path && (len(ops) == 0 || slices.Contains(ops, ev.Operation)) {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestWatcher_Events(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "node_modules"), 0o750))

	lg := logger.New()
	lg.SetOutput(io.Discard)
	w, err := watcher.NewWatcher([]string{"node_modules"}, lg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))
	defer func() { _ = w.Stop() }()

	events := make(chan ports.WatchEvent, 64)
	go func() {
		defer close(events)
		for ev := range w.Events() {
			events <- ev
		}
	}()

	file := filepath.Join(root, "a.ts")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o600))
	waitForEvent(t, events, file, ports.OpCreate, ports.OpWrite)

	// Directories created after Start are watched too.
	sub := filepath.Join(root, "lib")
	require.NoError(t, os.Mkdir(sub, 0o750))
	waitForEvent(t, events, sub, ports.OpCreate)

	nested := filepath.Join(sub, "b.ts")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(nested, []byte("b"), 0o600)
		select {
		case ev := <-events:
			return ev.Path == nested
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(file))
	ev := waitForEvent(t, events, file, ports.OpRemove)
	assert.Equal(t, file, ev.Path)
}
