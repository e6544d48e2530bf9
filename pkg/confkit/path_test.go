package confkit

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	t.Setenv("DATA_DIR", "inputs")

	require.Equal(t, filepath.Join("etc", "aoai.yaml"), ResolvePath("etc", "aoai.yaml"))
	require.Equal(t, filepath.Join("etc", "inputs", "sample.jsonl"), ResolvePath("etc", "$DATA_DIR/sample.jsonl"))

	abs := filepath.Join(t.TempDir(), "sample.jsonl")
	require.Equal(t, abs, ResolvePath("etc", abs))
}

func TestFileExists(t *testing.T) {
	require.False(t, fileExists(""))
	require.False(t, fileExists(filepath.Join(t.TempDir(), "absent")))

	dir := t.TempDir()
	require.True(t, fileExists(dir))
}
