package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TempTextbook creates a temporary textbook layout and returns its root and
// chapters directory.
func TempTextbook(t *testing.T) (root, chapters string) {
	t.Helper()
	root = t.TempDir()
	chapters = filepath.Join(root, "chapters")
	require.NoError(t, os.MkdirAll(chapters, 0o755))
	return root, chapters
}

// WriteChapter writes a chapter file into the chapters directory.
func WriteChapter(t *testing.T, chaptersDir, filename, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(chaptersDir, filename), []byte(content), 0o644))
}

// ReadFile reads content from a file under dir.
func ReadFile(t *testing.T, dir, path string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, path))
	require.NoError(t, err)
	return string(content)
}

// FileExists reports whether path exists.
func FileExists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	return err == nil
}
