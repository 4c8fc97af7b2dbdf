// Package config handles library layout and global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	LibraryDir = ".bipscrape"
	PapersFile = "papers.jsonl"
	CacheDir   = "cache"
	DBFile     = "papers.db"
)

// LibraryPath returns the path to the .bipscrape directory from a root path.
func LibraryPath(root string) string {
	return filepath.Join(root, LibraryDir)
}

// PapersPath returns the path to papers.jsonl from a root path.
func PapersPath(root string) string {
	return filepath.Join(root, LibraryDir, PapersFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, LibraryDir, CacheDir)
}

// DBPath returns the path to papers.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, LibraryDir, CacheDir, DBFile)
}

// IsLibrary checks if the given path contains a library.
func IsLibrary(root string) bool {
	info, err := os.Stat(LibraryPath(root))
	return err == nil && info.IsDir()
}

// FindLibrary walks up from the given path to find a library.
// Returns the library root path or an error if not found.
func FindLibrary(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsLibrary(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a bipscrape library (no %s directory found)", LibraryDir)
		}
		abs = parent
	}
}

// InitLibrary creates the library layout under root. It is an error if a
// library already exists there.
func InitLibrary(root string) error {
	if IsLibrary(root) {
		return fmt.Errorf("library already exists at %s", LibraryPath(root))
	}
	if err := os.MkdirAll(CachePath(root), 0755); err != nil {
		return fmt.Errorf("creating library directory: %w", err)
	}
	f, err := os.OpenFile(PapersPath(root), os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("creating papers file: %w", err)
	}
	return f.Close()
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
