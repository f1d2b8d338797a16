// Package watcher implements file system watching for watch mode rebuilds.
package watcher

import (
	"slices"
	"sync"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
)

// Debouncer coalesces rapid file system events into batched rebuilds.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[domain.FileID]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
	inflight sync.WaitGroup
}

// NewDebouncer creates a new debouncer with the given time window and callback.
// The callback receives each batch sorted and without duplicates.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[domain.FileID]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add adds a file path to the pending set and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[domain.NewFileID(path)] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire is called when the debounce window expires.
func (d *Debouncer) fire() {
	d.mu.Lock()
	// Flush may have drained the set already.
	if len(d.pending) == 0 {
		d.timer = nil
		d.mu.Unlock()
		return
	}
	paths := d.drainLocked()
	d.timer = nil
	if d.callback == nil {
		d.mu.Unlock()
		return
	}
	d.inflight.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.inflight.Done()
		d.callback(paths)
	}()
}

// Flush immediately triggers the callback with all pending paths and blocks
// until it and any batch already delivered by the timer have returned. It is
// used on shutdown so no change is lost. Add must not race with Flush.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		// A timer that already fired finds the set drained and does nothing.
		d.timer.Stop()
		d.timer = nil
	}
	paths := d.drainLocked()
	d.mu.Unlock()

	// Earlier batches finish first so rebuilds stay in order.
	d.inflight.Wait()
	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

func (d *Debouncer) drainLocked() []string {
	paths := make([]string, 0, len(d.pending))
	for id := range d.pending {
		paths = append(paths, id.String())
	}
	clear(d.pending)
	slices.Sort(paths)
	return paths
}

// Stop drops any pending paths without delivering them. It still waits for a
// batch the timer already delivered to return.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
	d.mu.Unlock()

	d.inflight.Wait()
}
