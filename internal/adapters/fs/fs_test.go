package fs_test

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestHasher_Digest(t *testing.T) {
	h := fs.NewHasher()

	a := h.Digest([]byte("export const a = 1;"))
	b := h.Digest([]byte("export const a = 1;"))
	c := h.Digest([]byte("export const a = 2;"))

	assert.Len(t, a, 16)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, h.Digest(nil), 16)
}

func TestWalker_WalkFiles(t *testing.T) {
	// tmp/
	//   .git/config
	//   ignored/file
	//   src/main.ts
	//   src/skip.map
	//   README.md
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".git", "config"), "git config")
	writeFile(t, filepath.Join(tmpDir, "ignored", "file"), "ignored content")
	writeFile(t, filepath.Join(tmpDir, "src", "main.ts"), "main")
	writeFile(t, filepath.Join(tmpDir, "src", "skip.map"), "map")
	writeFile(t, filepath.Join(tmpDir, "README.md"), "# Readme")

	walker := fs.NewWalker()

	files := make(map[string]bool)
	for path, err := range walker.WalkFiles(tmpDir, []string{"ignored", "*.map"}) {
		require.NoError(t, err)
		rel, err := filepath.Rel(tmpDir, path)
		require.NoError(t, err)
		files[filepath.ToSlash(rel)] = true
	}

	assert.False(t, files[".git/config"], "expected .git/config to be skipped")
	assert.False(t, files["ignored/file"], "expected ignored/file to be skipped")
	assert.False(t, files["src/skip.map"], "expected src/skip.map to be skipped")
	assert.True(t, files["src/main.ts"])
	assert.True(t, files["README.md"])
	assert.Len(t, files, 2)
}

func TestWalker_WalkFiles_EarlyStop(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"a.ts", "b.ts", "c.ts"} {
		writeFile(t, filepath.Join(tmpDir, name), name)
	}

	count := 0
	for _, err := range fs.NewWalker().WalkFiles(tmpDir, nil) {
		require.NoError(t, err)
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestWalker_WalkFiles_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "gone")

	var errs []error
	for path, err := range fs.NewWalker().WalkFiles(root, nil) {
		assert.Equal(t, root, path)
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], iofs.ErrNotExist)
}

func TestWalker_UnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	tmpDir := t.TempDir()
	locked := filepath.Join(tmpDir, "a")
	b := filepath.Join(tmpDir, "b", "b.ts")
	writeFile(t, filepath.Join(locked, "a.ts"), "a")
	writeFile(t, b, "b")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o750) })

	walker := fs.NewWalker()

	t.Run("walk reports the directory and continues", func(t *testing.T) {
		var files, failed []string
		for path, err := range walker.WalkFiles(tmpDir, nil) {
			if err != nil {
				failed = append(failed, path)
				continue
			}
			files = append(files, path)
		}
		assert.Equal(t, []string{locked}, failed)
		assert.Equal(t, []string{b}, files)
	})

	t.Run("expand fails instead of returning a partial set", func(t *testing.T) {
		got, err := walker.Expand([]string{tmpDir}, nil, nil)
		require.ErrorIs(t, err, domain.ErrFileReadFailed)
		assert.ErrorIs(t, err, iofs.ErrPermission)
		assert.Nil(t, got)
	})
}

func TestWalker_Expand(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a.ts")
	b := filepath.Join(tmpDir, "lib", "b.ts")
	c := filepath.Join(tmpDir, "lib", "c.ts")
	writeFile(t, a, "a")
	writeFile(t, b, "b")
	writeFile(t, c, "c")

	walker := fs.NewWalker()

	t.Run("files and directories", func(t *testing.T) {
		got, err := walker.Expand([]string{a, filepath.Join(tmpDir, "lib"), b}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{a, b, c}, got)
	})

	t.Run("extension filter applies to directories only", func(t *testing.T) {
		notes := filepath.Join(tmpDir, "lib", "notes.md")
		readme := filepath.Join(tmpDir, "README.md")
		writeFile(t, notes, "notes")
		writeFile(t, readme, "readme")

		got, err := walker.Expand([]string{readme, filepath.Join(tmpDir, "lib")}, nil, []string{".ts"})
		require.NoError(t, err)
		assert.Equal(t, []string{readme, b, c}, got)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := walker.Expand([]string{filepath.Join(tmpDir, "nope")}, nil, nil)
		assert.ErrorIs(t, err, domain.ErrPathNotFound)
	})
}
