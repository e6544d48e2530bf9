package confkit

import (
	"os"
	"path/filepath"
)

// ResolvePath expands environment variables in file and, when the result is
// relative, joins it onto base. Absolute paths are returned as expanded.
func ResolvePath(base, file string) string {
	file = os.ExpandEnv(file)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	if _, err := os.Stat(p); err == nil {
		return true
	}
	return false
}
