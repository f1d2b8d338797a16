// Package ports defines the core interfaces for the application.
package ports

// Hasher computes content digests.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Digest returns the fixed-length hex digest of data.
	// Equal inputs always produce equal digests.
	Digest(data []byte) string
}
