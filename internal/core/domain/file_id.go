package domain

import "unique"

// FileID identifies a file in the cache and in the dependency graph.
// It wraps a unique.Handle[string] so that repeated paths share one allocation
// and compare in constant time.
type FileID struct {
	h unique.Handle[string]
}

// NewFileID interns s and returns its FileID.
func NewFileID(s string) FileID {
	return FileID{h: unique.Make(s)}
}

// String returns the identifier. The zero FileID yields "".
func (id FileID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.h.Value()
}

// IsZero reports whether id was never assigned.
func (id FileID) IsZero() bool {
	var zero unique.Handle[string]
	return id.h == zero
}
