// Package fs provides file system adapters for hashing, walking and resolving source files.
package fs

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceWalker = (*Walker)(nil)

// Walker expands command line paths into source files.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file under root, skipping .git, .jj and any
// directory or file whose name matches one of ignores.
// Paths are yielded as filepath.WalkDir produces them, prefixed by root.
// An entry that cannot be read is yielded with its error and the walk goes on
// with its siblings; the consumer decides whether to stop.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(path, err) {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if path != root {
				if skip, action := w.shouldSkip(d, ignores); skip {
					return action
				}
			}

			if d.IsDir() {
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// Expand turns a mix of file and directory paths into a flat file list.
// Files are kept in argument order; directories are expanded in lexical order
// and, when extensions is not empty, only files with one of those extensions
// are taken from them. Duplicates are dropped. A path that does not exist is
// an error, and so is an unreadable entry below a directory: a build never
// runs over a silently partial file set.
func (w *Walker) Expand(paths, ignores, extensions []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, zerr.With(domain.Wrap(err, domain.ErrPathNotFound), "path", p)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		for file, err := range w.WalkFiles(p, ignores) {
			if err != nil {
				return nil, zerr.With(domain.Wrap(err, domain.ErrFileReadFailed), "path", file)
			}
			if len(extensions) == 0 || slices.Contains(extensions, filepath.Ext(file)) {
				add(file)
			}
		}
	}
	return files, nil
}

// shouldSkip reports whether d is excluded and, if so, what WalkDir should do.
func (w *Walker) shouldSkip(d fs.DirEntry, ignores []string) (bool, error) {
	name := d.Name()

	if d.IsDir() && (name == ".git" || name == ".jj") {
		return true, filepath.SkipDir
	}

	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			if d.IsDir() {
				return true, filepath.SkipDir
			}
			return true, nil
		}
	}
	return false, nil
}
