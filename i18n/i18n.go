// Package i18n provides the host localization layer for liveedit-enabled Go web applications.
//
// Features:
//   - TOML-based message bundles with nested, dot-addressable keys
//   - Automatic locale detection from HTTP headers, cookies, and query parameters
//   - Template interpolation with {{.Param}} placeholders
//   - A single chainable post-translation hook for observers such as the live tracker
//   - Live reloading of message bundles (development mode)
//   - Concurrency-safe for use in HTTP handlers
//
// Example:
//
//	// Initialize manager
//	manager := i18n.NewManager("./locales")
//
//	// In HTTP handler
//	func GreetingHandler(w http.ResponseWriter, r *http.Request) {
//	    translator := manager.Translator(r)
//	    greeting := translator.T("welcome", map[string]interface{}{
//	        "User": "Alex",
//	    })
//	    fmt.Fprint(w, greeting)
//	}
//
// Locale files (e.g., en.toml):
//
//	welcome = "Welcome, {{.User}}!"
//
//	[home]
//	title = "Home Page"
package i18n

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/BurntSushi/toml"
)

// PostTranslationHook observes every resolved translation. It receives the
// resolved value and the key that produced it and must return the value to
// hand back to the caller. Hooks installed via SetPostTranslation are expected
// to delegate to the previously installed hook so multiple consumers can
// coexist.
type PostTranslationHook func(resolved interface{}, key string) interface{}

// Manager holds all translation data and configuration.
// It is safe for concurrent use and should be initialized once at application startup.
type Manager struct {
	locales        map[string]*Locale
	activeLocale   string
	fallbackLocale string
	postHook       PostTranslationHook
	mu             sync.RWMutex
}

// Locale represents a single locale with its message tree.
type Locale struct {
	Code     string
	Messages map[string]interface{}
}

// Translator provides translation methods bound to a specific locale.
type Translator struct {
	locale  *Locale
	manager *Manager
}

// NewManager creates a new i18n manager and loads translation files from the
// specified directory. All .toml files in localesPath are loaded; the file
// name (without extension) becomes the locale code.
// Panics if the locales directory cannot be read or a locale file is invalid.
//
// Example:
//
//	manager := i18n.NewManager("./locales")
func NewManager(localesPath string) *Manager {
	manager := &Manager{
		locales:        make(map[string]*Locale),
		activeLocale:   "en",
		fallbackLocale: "en",
	}

	if err := manager.loadLocales(localesPath); err != nil {
		panic(fmt.Sprintf("Failed to load locales: %v", err))
	}

	return manager
}

// NewManagerEmpty creates a new i18n manager without loading any locale files.
// Useful for testing or when locales are added programmatically.
func NewManagerEmpty() *Manager {
	return &Manager{
		locales:        make(map[string]*Locale),
		activeLocale:   "en",
		fallbackLocale: "en",
	}
}

// SetActiveLocale sets the locale used for translations when no per-request
// detection applies, and the locale the live tracker reports as current.
func (m *Manager) SetActiveLocale(locale string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeLocale = locale
}

// ActiveLocale returns the currently active locale code.
func (m *Manager) ActiveLocale() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeLocale
}

// SetFallbackLocale sets the locale used when a requested locale is not available.
func (m *Manager) SetFallbackLocale(locale string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbackLocale = locale
}

// SetPostTranslation installs hook as the manager's post-translation hook and
// returns the previously installed hook (nil if none). Callers that want to
// observe rather than replace must invoke the returned hook from their own.
func (m *Manager) SetPostTranslation(hook PostTranslationHook) PostTranslationHook {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.postHook
	m.postHook = hook
	return prev
}

// PostTranslation returns the currently installed post-translation hook, or nil.
func (m *Manager) PostTranslation() PostTranslationHook {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.postHook
}

// Translator returns a translator for the current request's locale.
// The locale is detected from the request's query parameter, cookie, or
// Accept-Language header, falling back to the active locale.
func (m *Manager) Translator(r *http.Request) *Translator {
	locale := m.detectLocale(r)
	return &Translator{
		locale:  locale,
		manager: m,
	}
}

// ActiveTranslator returns a translator bound to the manager's active locale,
// for use outside of a request context.
func (m *Manager) ActiveTranslator() *Translator {
	return &Translator{
		locale:  m.getLocale(m.ActiveLocale()),
		manager: m,
	}
}

// T translates a message key with optional parameters.
// Returns the translated message with parameter substitution, or the key
// itself if no translation is found. The resolved value is passed through the
// manager's post-translation hook before being returned.
//
// Parameters are substituted using Go template syntax: {{.ParamName}}
//
// Example:
//
//	message := translator.T("welcome", map[string]interface{}{
//	    "User": "Alex",
//	})
func (t *Translator) T(key string, params map[string]interface{}) string {
	start := time.Now()
	ctx := context.Background()

	if obs := getObserver(); obs != nil {
		obs.OnTranslationStart(ctx, t.LocaleCode(), key)
	}

	message := t.getMessage(key)
	if message == "" {
		message = key
	}

	result := t.substituteParams(message, params)

	if hook := t.manager.PostTranslation(); hook != nil {
		if hooked, ok := hook(result, key).(string); ok {
			result = hooked
		}
	}

	if obs := getObserver(); obs != nil {
		obs.OnTranslationEnd(ctx, t.LocaleCode(), key, time.Since(start))
	}

	return result
}

// Tn translates a message with simple singular/plural selection based on count.
// The count is added to the parameters as "Count".
func (t *Translator) Tn(singular, plural string, count int, params map[string]interface{}) string {
	if params == nil {
		params = make(map[string]interface{})
	}
	params["Count"] = count

	key := plural
	if count == 1 {
		key = singular
	}
	return t.T(key, params)
}

// LocaleCode returns the code of the translator's bound locale, or an empty
// string when no locale is bound.
func (t *Translator) LocaleCode() string {
	if t.locale == nil {
		return ""
	}
	return t.locale.Code
}

// getMessage retrieves a message from the bound locale using dot-separated
// nested lookup.
func (t *Translator) getMessage(key string) string {
	t.manager.mu.RLock()
	defer t.manager.mu.RUnlock()

	if t.locale == nil {
		return ""
	}
	return lookupMessage(t.locale.Messages, key)
}

// LookupMessage walks a nested message tree along a dot-separated key path.
// Returns an empty string when the path does not resolve to a string leaf.
// Exposed for consumers, such as the live tracker, that hold a raw message
// tree and need the same resolution rules the Translator uses.
func LookupMessage(messages map[string]interface{}, key string) string {
	return lookupMessage(messages, key)
}

// lookupMessage walks a nested message tree along a dot-separated key path.
func lookupMessage(messages map[string]interface{}, key string) string {
	keys := strings.Split(key, ".")
	current := messages

	for i, k := range keys {
		val, ok := current[k]
		if !ok {
			return ""
		}
		switch v := val.(type) {
		case string:
			if i == len(keys)-1 {
				return v
			}
			return ""
		case map[string]interface{}:
			current = v
		default:
			return ""
		}
	}

	return ""
}

// substituteParams substitutes parameters in a message template
func (t *Translator) substituteParams(message string, params map[string]interface{}) string {
	if len(params) == 0 {
		return message
	}

	tmpl, err := template.New("message").Parse(message)
	if err != nil {
		return message
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, params); err != nil {
		return message
	}

	return buf.String()
}

// detectLocale detects the locale from the request
func (m *Manager) detectLocale(r *http.Request) *Locale {
	ctx := context.Background()

	// Try query parameter first
	if locale := r.URL.Query().Get("locale"); locale != "" {
		if loc := m.getLocale(locale); loc != nil {
			if obs := getObserver(); obs != nil {
				obs.OnLocaleDetection(ctx, locale, false)
			}
			return loc
		}
	}

	// Try cookie
	if cookie, err := r.Cookie("locale"); err == nil {
		if loc := m.getLocale(cookie.Value); loc != nil {
			if obs := getObserver(); obs != nil {
				obs.OnLocaleDetection(ctx, cookie.Value, false)
			}
			return loc
		}
	}

	// Try Accept-Language header
	if acceptLang := r.Header.Get("Accept-Language"); acceptLang != "" {
		if loc := m.parseAcceptLanguage(acceptLang); loc != nil {
			if obs := getObserver(); obs != nil {
				obs.OnLocaleDetection(ctx, loc.Code, false)
			}
			return loc
		}
	}

	// Fall back to the active locale
	detected := m.ActiveLocale()
	if obs := getObserver(); obs != nil {
		obs.OnLocaleDetection(ctx, detected, true)
	}
	return m.getLocale(detected)
}

// parseAcceptLanguage parses the Accept-Language header
func (m *Manager) parseAcceptLanguage(acceptLang string) *Locale {
	// e.g. "en-US,en;q=0.9,es;q=0.8"
	langs := strings.Split(acceptLang, ",")

	for _, lang := range langs {
		parts := strings.Split(strings.TrimSpace(lang), ";")
		langCode := strings.Split(parts[0], "-")[0]

		if loc := m.getLocale(langCode); loc != nil {
			return loc
		}
	}

	return nil
}

// getLocale retrieves a locale by code, falling back to the fallback locale.
func (m *Manager) getLocale(code string) *Locale {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if locale, exists := m.locales[code]; exists {
		return locale
	}

	if locale, exists := m.locales[m.fallbackLocale]; exists {
		return locale
	}

	return nil
}

// loadLocales loads all locale files from the specified directory
func (m *Manager) loadLocales(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if strings.HasSuffix(entry.Name(), ".toml") {
			localeCode := strings.TrimSuffix(entry.Name(), ".toml")
			localePath := filepath.Join(path, entry.Name())

			if err := m.loadLocaleFile(localeCode, localePath); err != nil {
				return fmt.Errorf("failed to load locale %s: %v", localeCode, err)
			}
		}
	}

	return nil
}

// loadLocaleFile loads a single TOML locale file
func (m *Manager) loadLocaleFile(code, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	messages := make(map[string]interface{})
	if err := toml.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("failed to parse %s: %v", path, err)
	}

	m.mu.Lock()
	m.locales[code] = &Locale{
		Code:     code,
		Messages: messages,
	}
	m.mu.Unlock()

	return nil
}

// AddLocale adds or replaces a locale programmatically.
func (m *Manager) AddLocale(code string, messages map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.locales[code] = &Locale{
		Code:     code,
		Messages: messages,
	}
}

// Messages returns the raw message tree for a locale, or nil if the locale
// does not exist. The returned map is the live tree; callers that only read
// (such as the live tracker's template recovery) must not mutate it.
func (m *Manager) Messages(code string) map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if locale, exists := m.locales[code]; exists {
		return locale.Messages
	}
	return nil
}

// MergeMessages merges a message tree into a locale, creating the locale if
// missing. Existing keys are overwritten by the incoming tree; nested maps
// are merged recursively. Used when translations arrive from a CDN load.
func (m *Manager) MergeMessages(code string, messages map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	locale, exists := m.locales[code]
	if !exists {
		locale = &Locale{Code: code, Messages: make(map[string]interface{})}
		m.locales[code] = locale
	}
	mergeTree(locale.Messages, messages)

	if obs := getObserver(); obs != nil {
		obs.OnMessagesMerged(context.Background(), code, len(messages))
	}
}

// mergeTree merges src into dst recursively.
func mergeTree(dst, src map[string]interface{}) {
	for k, v := range src {
		if srcMap, ok := v.(map[string]interface{}); ok {
			if dstMap, ok := dst[k].(map[string]interface{}); ok {
				mergeTree(dstMap, srcMap)
				continue
			}
		}
		dst[k] = v
	}
}

// GetAvailableLocales returns all available locale codes
func (m *Manager) GetAvailableLocales() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	locales := make([]string, 0, len(m.locales))
	for code := range m.locales {
		locales = append(locales, code)
	}

	return locales
}
