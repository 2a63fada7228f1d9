package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalBackend(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "bundles"), 0755); err != nil {
		t.Fatalf("Failed to create bundle dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bundles", "FR.toml"), []byte(`hello = "Bonjour"`), 0644); err != nil {
		t.Fatalf("Failed to write bundle: %v", err)
	}

	backend := NewLocal(dir)
	defer backend.Close()

	ctx := context.Background()

	data, err := backend.Fetch(ctx, "bundles/FR.toml")
	if err != nil {
		t.Fatalf("Expected the fetch to succeed, got %v", err)
	}
	if string(data) != `hello = "Bonjour"` {
		t.Errorf("Expected the bundle content, got %q", data)
	}

	if !backend.Exists(ctx, "bundles/FR.toml") {
		t.Error("Expected the bundle to exist")
	}
	if backend.Exists(ctx, "bundles/DE.toml") {
		t.Error("Expected a missing bundle to not exist")
	}

	paths, err := backend.List(ctx, "bundles/")
	if err != nil {
		t.Fatalf("Expected the list to succeed, got %v", err)
	}
	if len(paths) != 1 || paths[0] != "bundles/FR.toml" {
		t.Errorf("Expected the bundle path listed, got %v", paths)
	}
}

func TestLocalBackendRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	// A sibling file outside the storage root must stay unreachable.
	outside := filepath.Join(filepath.Dir(dir), "outside.toml")
	if err := os.WriteFile(outside, []byte("secret"), 0644); err != nil {
		t.Fatalf("Failed to write sibling file: %v", err)
	}

	backend := NewLocal(dir)
	ctx := context.Background()

	if _, err := backend.Fetch(ctx, "../outside.toml"); err == nil {
		t.Error("Expected a traversal path to not resolve outside the root")
	}
	if backend.Exists(ctx, "../outside.toml") {
		t.Error("Expected a traversal path to not exist")
	}
	if _, err := backend.Fetch(ctx, "bad\x00path"); err == nil {
		t.Error("Expected a null byte in the path to be rejected")
	}
}

func TestMockBackend(t *testing.T) {
	backend := NewMock()
	ctx := context.Background()

	backend.Put("bundles/FR.toml", []byte("french"))
	backend.Put("bundles/DE.toml", []byte("german"))
	backend.Put("other/EN.toml", []byte("english"))

	data, err := backend.Fetch(ctx, "bundles/FR.toml")
	if err != nil {
		t.Fatalf("Expected the fetch to succeed, got %v", err)
	}
	if string(data) != "french" {
		t.Errorf("Expected the stored content, got %q", data)
	}

	if _, err := backend.Fetch(ctx, "bundles/ES.toml"); err == nil {
		t.Error("Expected a missing object to error")
	}

	if !backend.Exists(ctx, "bundles/DE.toml") {
		t.Error("Expected the stored object to exist")
	}

	paths, err := backend.List(ctx, "bundles/")
	if err != nil {
		t.Fatalf("Expected the list to succeed, got %v", err)
	}
	if len(paths) != 2 || paths[0] != "bundles/DE.toml" || paths[1] != "bundles/FR.toml" {
		t.Errorf("Expected the sorted bundle paths, got %v", paths)
	}

	if err := backend.Close(); err != nil {
		t.Errorf("Expected close to succeed, got %v", err)
	}
}

func TestMockBackendFetchReturnsCopy(t *testing.T) {
	backend := NewMock()
	backend.Put("a.toml", []byte("original"))

	data, _ := backend.Fetch(context.Background(), "a.toml")
	data[0] = 'X'

	again, _ := backend.Fetch(context.Background(), "a.toml")
	if string(again) != "original" {
		t.Error("Expected stored content to be immune to caller mutation")
	}
}
