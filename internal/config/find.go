package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindLocal looks upwards from startDir for a .notekeep.yaml file and
// returns its absolute path.
func FindLocal(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if candidate := filepath.Join(dir, LocalFile); isFile(candidate) {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found above %s", LocalFile, abs)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
