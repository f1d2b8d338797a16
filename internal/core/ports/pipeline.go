package ports

// Resolver maps an import specifier written in referrer to a file identifier.
//
//go:generate go run go.uber.org/mock/mockgen -source=pipeline.go -destination=mocks/mock_pipeline.go -package=mocks
type Resolver interface {
	// Resolve returns the identifier the specifier refers to.
	// An unresolvable specifier yields ("", false); it is never an error.
	Resolve(specifier, referrer string) (string, bool)
}

// Transformer turns source text into output text.
//
// Transform must be deterministic: the same source at the same id must always
// produce the same output. The worker's cache relies on this and cannot check it.
type Transformer interface {
	Transform(source, id string) string
}

// ImportScanner extracts the module specifiers a source file refers to.
type ImportScanner interface {
	// Scan returns the specifiers in first-occurrence order without duplicates.
	Scan(source string) []string
}
