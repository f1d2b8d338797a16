package ports

import "go.trai.ch/kiln/internal/core/domain"

// AssetCache maps file identifiers to their last computed output.
//
// Implementations must be safe for concurrent use without external locking and
// must never expose a partially written entry.
type AssetCache interface {
	// Get returns a copy of the entry for key.
	Get(key string) (domain.CacheEntry, bool)
	// Insert replaces any existing entry for key.
	Insert(key string, entry domain.CacheEntry)
	// Remove deletes the entry for key. Removing a missing key is a no-op.
	Remove(key string)
	// Len returns the number of resident entries. Diagnostic only.
	Len() int
	// Clear drops every entry.
	Clear()
}
