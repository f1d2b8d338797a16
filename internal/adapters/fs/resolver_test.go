package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestResolver_Resolve(t *testing.T) {
	tmpDir := t.TempDir()
	main := filepath.Join(tmpDir, "src", "main.ts")
	writeFile(t, main, "")
	writeFile(t, filepath.Join(tmpDir, "src", "util.ts"), "")
	writeFile(t, filepath.Join(tmpDir, "src", "styles.css"), "")
	writeFile(t, filepath.Join(tmpDir, "src", "components", "index.tsx"), "")
	writeFile(t, filepath.Join(tmpDir, "shared", "config.js"), "")

	r, err := fs.NewResolver(domain.DefaultExtensions, 0)
	require.NoError(t, err)

	tests := []struct {
		name      string
		specifier string
		want      string
		ok        bool
	}{
		{"extension probing", "./util", filepath.Join(tmpDir, "src", "util.ts"), true},
		{"exact file", "./styles.css", filepath.Join(tmpDir, "src", "styles.css"), true},
		{"directory index", "./components", filepath.Join(tmpDir, "src", "components", "index.tsx"), true},
		{"parent directory", "../shared/config", filepath.Join(tmpDir, "shared", "config.js"), true},
		{"absolute", filepath.Join(tmpDir, "src", "util.ts"), filepath.Join(tmpDir, "src", "util.ts"), true},
		{"bare specifier", "react", "", false},
		{"missing relative", "./nope", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(tt.specifier, main)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_MemoAndForget(t *testing.T) {
	tmpDir := t.TempDir()
	main := filepath.Join(tmpDir, "main.ts")
	writeFile(t, main, "")

	r, err := fs.NewResolver([]string{".ts"}, 8)
	require.NoError(t, err)

	_, ok := r.Resolve("./late", main)
	require.False(t, ok)

	late := filepath.Join(tmpDir, "late.ts")
	writeFile(t, late, "")

	_, ok = r.Resolve("./late", main)
	assert.False(t, ok, "memoised miss is returned until forgotten")

	r.Forget()
	got, ok := r.Resolve("./late", main)
	assert.True(t, ok)
	assert.Equal(t, late, got)

	require.NoError(t, os.Remove(late))
	got, ok = r.Resolve("./late", main)
	assert.True(t, ok, "memoised hit is returned until forgotten")
	assert.Equal(t, late, got)
}
