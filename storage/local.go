package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalBackend serves translation bundles from the local file system.
// Useful in development and for bundles shipped with the application.
type LocalBackend struct {
	basePath string
}

// NewLocal creates a local backend rooted at basePath.
func NewLocal(basePath string) Backend {
	return &LocalBackend{basePath: basePath}
}

// Fetch reads the file at path relative to the base path.
func (l *LocalBackend) Fetch(ctx context.Context, path string) ([]byte, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}
	return data, nil
}

// Exists reports whether the file at path exists.
func (l *LocalBackend) Exists(ctx context.Context, path string) bool {
	full, err := l.resolve(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && !info.IsDir()
}

// List returns all file paths under prefix, relative to the base path.
func (l *LocalBackend) List(ctx context.Context, prefix string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(l.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.basePath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, prefix) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %v", prefix, err)
	}
	return paths, nil
}

// Close is a no-op for local storage.
func (l *LocalBackend) Close() error {
	return nil
}

// resolve joins path onto the base path, rejecting traversal outside it.
func (l *LocalBackend) resolve(path string) (string, error) {
	if strings.Contains(path, "\x00") {
		return "", fmt.Errorf("path contains null byte")
	}
	clean := filepath.Clean("/" + path)
	full := filepath.Join(l.basePath, clean)
	base := filepath.Clean(l.basePath)
	if full != base && !strings.HasPrefix(full, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes storage root: %s", path)
	}
	return full, nil
}
