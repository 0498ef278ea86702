package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prelude.star")
	require.NoError(t, os.WriteFile(path, []byte("greeting = 'hello'\n"), 0o644))

	t.Run("absolute path", func(t *testing.T) {
		src, err := LoadSource(path)
		require.NoError(t, err)
		assert.Equal(t, "greeting = 'hello'\n", src)
	})

	t.Run("file uri", func(t *testing.T) {
		src, err := LoadSource("file://" + path)
		require.NoError(t, err)
		assert.Contains(t, src, "greeting")
	})

	t.Run("empty uri", func(t *testing.T) {
		_, err := LoadSource("  ")
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSource(filepath.Join(dir, "missing.star"))
		require.Error(t, err)
	})
}
