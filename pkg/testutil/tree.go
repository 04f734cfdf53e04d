package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
)

// WriteTree creates files below root from a map of slash-separated relative
// path to content. Parent directories are created as needed.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	WriteTreeFS(t, filesystem.NewOS(), root, files)
}

// WriteTreeFS is WriteTree against an arbitrary FS
func WriteTreeFS(t testing.TB, fsys filesystem.FS, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, fsys.WriteFile(path, []byte(content), 0644))
	}
}

// ReadTree returns every regular file below root keyed by slash-separated
// relative path
func ReadTree(t testing.TB, root string) map[string]string {
	t.Helper()
	got := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		got[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return got
}

// AssertTree asserts that root holds exactly the given files
func AssertTree(t testing.TB, root string, want map[string]string) {
	t.Helper()
	assert.Equal(t, want, ReadTree(t, root))
}
