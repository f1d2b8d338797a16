package cas

// LockKeyShard write-locks the shard holding key, as a concurrent Insert of
// key would, and returns the matching unlock.
func (s *Store) LockKeyShard(key string) func() {
	sh := s.shardFor(key)
	sh.mu.Lock()
	return sh.mu.Unlock
}

// SameShard reports whether a and b are stored in the same shard.
func (s *Store) SameShard(a, b string) bool {
	return s.shardFor(a) == s.shardFor(b)
}
