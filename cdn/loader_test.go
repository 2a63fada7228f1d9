package cdn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kdsmith18542/liveedit/storage"
)

const frenchBundle = `greeting = "Bonjour {{.Name}}!"

[home]
title = "Accueil"
`

func TestLoaderStorageTransport(t *testing.T) {
	backend := storage.NewMock()
	backend.Put("bundles/FR.toml", []byte(frenchBundle))

	loader := NewLoader(Config{
		PathTemplate: "bundles/{{lng}}.toml",
		Transport:    NewStorageTransport(backend),
	})

	messages, err := loader.LoadTranslations(context.Background(), "fr")
	if err != nil {
		t.Fatalf("Expected the load to succeed, got %v", err)
	}
	if messages["greeting"] != "Bonjour {{.Name}}!" {
		t.Errorf("Expected the parsed greeting, got %v", messages["greeting"])
	}
	home, ok := messages["home"].(map[string]interface{})
	if !ok || home["title"] != "Accueil" {
		t.Errorf("Expected the nested home table, got %v", messages["home"])
	}
}

func TestLoaderUppercasesLanguage(t *testing.T) {
	backend := storage.NewMock()
	backend.Put("bundles/DE.toml", []byte(`hello = "Hallo"`))

	loader := NewLoader(Config{
		PathTemplate: "bundles/{{lng}}.toml",
		Transport:    NewStorageTransport(backend),
	})

	// The lowercase code resolves to the uppercase bundle path.
	if _, err := loader.LoadTranslations(context.Background(), "de"); err != nil {
		t.Fatalf("Expected the uppercase path to be fetched, got %v", err)
	}
}

func TestLoaderPreserveLanguageCase(t *testing.T) {
	backend := storage.NewMock()
	backend.Put("bundles/de.toml", []byte(`hello = "Hallo"`))

	loader := NewLoader(Config{
		PathTemplate:         "bundles/{{lng}}.toml",
		Transport:            NewStorageTransport(backend),
		PreserveLanguageCase: true,
	})

	if _, err := loader.LoadTranslations(context.Background(), "de"); err != nil {
		t.Fatalf("Expected the as-given path to be fetched, got %v", err)
	}
	if _, err := loader.LoadTranslations(context.Background(), "DE"); err == nil {
		t.Error("Expected a miss for the uppercase code when case is preserved")
	}
}

func TestLoaderCachesPerLanguage(t *testing.T) {
	backend := storage.NewMock()
	backend.Put("bundles/FR.toml", []byte(frenchBundle))

	loader := NewLoader(Config{
		PathTemplate: "bundles/{{lng}}.toml",
		Transport:    NewStorageTransport(backend),
	})

	if _, err := loader.LoadTranslations(context.Background(), "fr"); err != nil {
		t.Fatalf("Expected the first load to succeed, got %v", err)
	}
	if !loader.Cached("fr") {
		t.Error("Expected the bundle to be cached")
	}

	// A failing backend does not affect cached loads.
	backend.FetchErr = context.DeadlineExceeded
	if _, err := loader.LoadTranslations(context.Background(), "fr"); err != nil {
		t.Errorf("Expected the cached bundle to be served, got %v", err)
	}

	loader.ClearCache()
	if loader.Cached("fr") {
		t.Error("Expected the cache to be empty after ClearCache")
	}
}

func TestLoaderHTTPTransport(t *testing.T) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		if r.URL.Path != "/i18n/ES.toml" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`hello = "Hola"`))
	}))
	defer server.Close()

	loader := NewLoader(Config{
		PathTemplate: server.URL + "/i18n/{{lng}}.toml",
	})

	messages, err := loader.LoadTranslations(context.Background(), "es")
	if err != nil {
		t.Fatalf("Expected the HTTP load to succeed, got %v", err)
	}
	if messages["hello"] != "Hola" {
		t.Errorf("Expected the parsed message, got %v", messages["hello"])
	}

	// Second load is served from cache.
	if _, err := loader.LoadTranslations(context.Background(), "es"); err != nil {
		t.Fatalf("Expected the cached load to succeed, got %v", err)
	}
	if n := atomic.LoadInt64(&requests); n != 1 {
		t.Errorf("Expected a single HTTP request, got %d", n)
	}
}

func TestLoaderHTTPTransportBaseURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bundles/IT.toml" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`hello = "Ciao"`))
	}))
	defer server.Close()

	loader := NewLoader(Config{
		PathTemplate: "bundles/{{lng}}.toml",
		Transport:    NewHTTPTransport(server.URL),
	})

	messages, err := loader.LoadTranslations(context.Background(), "it")
	if err != nil {
		t.Fatalf("Expected the load to succeed, got %v", err)
	}
	if messages["hello"] != "Ciao" {
		t.Errorf("Expected the parsed message, got %v", messages["hello"])
	}
}

func TestLoaderErrors(t *testing.T) {
	backend := storage.NewMock()
	loader := NewLoader(Config{
		PathTemplate: "bundles/{{lng}}.toml",
		Transport:    NewStorageTransport(backend),
	})

	if _, err := loader.LoadTranslations(context.Background(), ""); err == nil {
		t.Error("Expected an error for an empty language")
	}
	if _, err := loader.LoadTranslations(context.Background(), "fr"); err == nil {
		t.Error("Expected an error for a missing bundle")
	}

	// Invalid TOML is a parse error, not a cached result.
	backend.Put("bundles/FR.toml", []byte(`not valid = = toml`))
	if _, err := loader.LoadTranslations(context.Background(), "fr"); err == nil {
		t.Error("Expected a parse error for invalid TOML")
	}
	if loader.Cached("fr") {
		t.Error("Expected failed loads to not populate the cache")
	}
}

func TestLoaderHTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	loader := NewLoader(Config{PathTemplate: server.URL + "/{{lng}}.toml"})

	if _, err := loader.LoadTranslations(context.Background(), "fr"); err == nil {
		t.Error("Expected an error for a non-200 response")
	}
}
