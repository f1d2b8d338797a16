package fs

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes XXHash content digests.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Digest returns the 16 character hex XXHash64 of data.
func (h *Hasher) Digest(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
