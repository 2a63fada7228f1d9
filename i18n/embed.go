package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
)

// NewManagerFromFS creates a new i18n manager from a filesystem, typically an
// embed.FS. All .toml files under dir are loaded; the file name (without
// extension) becomes the locale code.
//
// Example:
//
//	//go:embed locales/*.toml
//	var localeFS embed.FS
//
//	manager, err := i18n.NewManagerFromFS(localeFS, "locales")
func NewManagerFromFS(fsys fs.FS, dir string) (*Manager, error) {
	manager := NewManagerEmpty()

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded locales: %v", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		code := strings.TrimSuffix(entry.Name(), ".toml")
		if err := manager.loadLocaleFromFS(fsys, code, path.Join(dir, entry.Name())); err != nil {
			return nil, err
		}
	}

	return manager, nil
}

// loadLocaleFromFS loads a single TOML locale file from a filesystem.
func (m *Manager) loadLocaleFromFS(fsys fs.FS, code, filePath string) error {
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v", filePath, err)
	}

	messages := make(map[string]interface{})
	if err := toml.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("failed to parse %s: %v", filePath, err)
	}

	m.mu.Lock()
	m.locales[code] = &Locale{Code: code, Messages: messages}
	m.mu.Unlock()

	return nil
}
