package domain

// CacheEntry is the last successfully computed output for one file.
//
// An entry is fresh for a file's current bytes if and only if Hash equals the
// digest of those bytes. There is no other freshness signal.
type CacheEntry struct {
	// Hash is the hex content digest of the raw input at computation time.
	Hash string `json:"hash"`
	// Content is the transformation output.
	Content string `json:"content"`
}

// Matches reports whether the entry was computed from input with the given digest.
func (e CacheEntry) Matches(digest string) bool {
	return e.Hash == digest
}
