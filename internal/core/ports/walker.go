package ports

// SourceWalker expands command line paths into the source files to build.
type SourceWalker interface {
	// Expand returns the files named by paths. Directories are walked, skipping
	// ignored names, and contribute only files with one of the given extensions.
	Expand(paths, ignores, extensions []string) ([]string, error)
}
