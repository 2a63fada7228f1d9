// Package cdn loads translation bundles from a CDN or storage backend.
//
// Features:
//   - Path templating with a {{lng}} language placeholder
//   - Pluggable transports: HTTP (default) or any storage.Backend
//   - TOML bundle parsing into nested message trees
//   - Per-language caching of parsed bundles
//
// Example:
//
//	loader := cdn.NewLoader(cdn.Config{
//		PathTemplate: "https://cdn.example.com/i18n/{{lng}}.toml",
//	})
//	messages, err := loader.LoadTranslations(ctx, "fr")
package cdn

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// languagePlaceholder is replaced with the (normalized) language code
// when resolving PathTemplate.
const languagePlaceholder = "{{lng}}"

// Config configures a Loader.
type Config struct {
	// PathTemplate is the bundle location with a {{lng}} placeholder,
	// e.g. "bundles/{{lng}}.toml" or a full URL.
	PathTemplate string

	// Transport fetches the raw bundle. Defaults to an HTTP transport
	// that treats the resolved path as a full URL.
	Transport Transport

	// PreserveLanguageCase keeps the language code as given. By default
	// the code is uppercased before substitution, matching the common
	// CDN layout of FR.toml, DE.toml and so on.
	PreserveLanguageCase bool
}

// Loader fetches and caches translation bundles per language.
type Loader struct {
	cfg   Config
	mu    sync.RWMutex
	cache map[string]map[string]interface{}
}

// NewLoader creates a Loader. A nil Transport defaults to HTTP.
func NewLoader(cfg Config) *Loader {
	if cfg.Transport == nil {
		cfg.Transport = NewHTTPTransport("")
	}
	return &Loader{
		cfg:   cfg,
		cache: make(map[string]map[string]interface{}),
	}
}

// LoadTranslations returns the parsed message tree for language,
// fetching it through the transport on first use and from cache
// afterwards.
func (l *Loader) LoadTranslations(ctx context.Context, language string) (map[string]interface{}, error) {
	if language == "" {
		return nil, fmt.Errorf("language must not be empty")
	}

	l.mu.RLock()
	cached, ok := l.cache[language]
	l.mu.RUnlock()
	if ok {
		return cached, nil
	}

	path := l.resolvePath(language)
	start := time.Now()

	data, err := l.cfg.Transport.Fetch(ctx, path)
	if err != nil {
		l.notifyFetch(ctx, language, time.Since(start), false)
		return nil, fmt.Errorf("failed to fetch translations for %s: %v", language, err)
	}

	var messages map[string]interface{}
	if err := toml.Unmarshal(data, &messages); err != nil {
		l.notifyFetch(ctx, language, time.Since(start), false)
		return nil, fmt.Errorf("failed to parse translations for %s: %v", language, err)
	}

	l.mu.Lock()
	l.cache[language] = messages
	l.mu.Unlock()

	l.notifyFetch(ctx, language, time.Since(start), true)
	return messages, nil
}

// Cached reports whether a bundle for language is already loaded.
func (l *Loader) Cached(language string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.cache[language]
	return ok
}

// ClearCache drops all cached bundles, forcing refetch on next load.
func (l *Loader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]map[string]interface{})
}

func (l *Loader) resolvePath(language string) string {
	code := language
	if !l.cfg.PreserveLanguageCase {
		code = strings.ToUpper(code)
	}
	return strings.ReplaceAll(l.cfg.PathTemplate, languagePlaceholder, code)
}

func (l *Loader) notifyFetch(ctx context.Context, language string, duration time.Duration, success bool) {
	if obs := getObserver(); obs != nil {
		obs.OnTranslationFetch(ctx, language, l.cfg.Transport.Name(), duration, success)
	}
}
