// Package cas implements the content addressed asset cache.
package cas

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.AssetCache = (*Store)(nil)

// shardCount must be a power of two.
const shardCount = 64

// Store implements ports.AssetCache in memory.
//
// Keys are spread over independently locked shards by their XXHash, so
// operations on one key only ever wait for operations on keys of the same
// shard. There is no lock over the whole store. Entries are stored by value,
// so readers always receive a complete copy of whatever the last Insert for a
// key wrote.
type Store struct {
	shards [shardCount]shard
}

type shard struct {
	mu    sync.RWMutex
	cache map[string]domain.CacheEntry
}

// NewStore creates an empty Store.
func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i].cache = make(map[string]domain.CacheEntry)
	}
	return s
}

func (s *Store) shardFor(key string) *shard {
	return &s.shards[xxhash.Sum64String(key)&(shardCount-1)]
}

// Get returns the entry for key.
func (s *Store) Get(key string) (domain.CacheEntry, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	entry, ok := sh.cache[key]
	return entry, ok
}

// Insert stores entry under key, replacing any previous entry.
func (s *Store) Insert(key string, entry domain.CacheEntry) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sh.cache[key] = entry
}

// Remove deletes the entry for key.
func (s *Store) Remove(key string) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	delete(sh.cache, key)
}

// Len returns the number of resident entries. Shards are counted one at a
// time, so the total is not a consistent snapshot under concurrent writes.
func (s *Store) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.cache)
		sh.mu.RUnlock()
	}
	return n
}

// Clear drops every entry, one shard at a time.
func (s *Store) Clear() {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		clear(sh.cache)
		sh.mu.Unlock()
	}
}
