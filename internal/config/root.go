package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sitekit-dev/sitekit/internal/defs"
)

// FindProjectRoot walks upward from start looking for a directory that
// holds sitekit.yaml or a templates/ directory, and returns its absolute
// path. ok is false when no ancestor qualifies.
func FindProjectRoot(start string) (root string, ok bool, err error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf("resolve absolute path: %w", err)
	}

	for {
		if isProjectDir(dir) {
			return dir, true, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// FindProjectRootOrCurrent is like FindProjectRoot but falls back to start
// itself when no project is found above it.
func FindProjectRootOrCurrent(start string) (string, error) {
	root, ok, err := FindProjectRoot(start)
	if err != nil {
		return "", err
	}
	if !ok {
		return filepath.Abs(start)
	}
	return root, nil
}

func isProjectDir(dir string) bool {
	if info, err := os.Stat(filepath.Join(dir, defs.ConfigYAML)); err == nil && !info.IsDir() {
		return true
	}
	info, err := os.Stat(filepath.Join(dir, defs.TemplatesDir))
	return err == nil && info.IsDir()
}
