package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MockBackend implements Backend in memory for testing.
type MockBackend struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// FetchErr, when set, is returned by every Fetch call.
	FetchErr error
}

// NewMock creates an empty in-memory backend.
func NewMock() *MockBackend {
	return &MockBackend{
		objects: make(map[string][]byte),
	}
}

// Put stores an object, replacing any existing content at path.
func (m *MockBackend) Put(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = data
}

// Fetch returns the stored object at path.
func (m *MockBackend) Fetch(ctx context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	data, exists := m.objects[path]
	if !exists {
		return nil, fmt.Errorf("object not found: %s", path)
	}
	return append([]byte(nil), data...), nil
}

// Exists reports whether an object is stored at path.
func (m *MockBackend) Exists(ctx context.Context, path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.objects[path]
	return exists
}

// List returns the sorted paths of all objects under prefix.
func (m *MockBackend) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var paths []string
	for path := range m.objects {
		if strings.HasPrefix(path, prefix) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Close is a no-op for the mock.
func (m *MockBackend) Close() error {
	return nil
}
