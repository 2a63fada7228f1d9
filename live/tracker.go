// Package live implements live-editor detection and translation tracking.
//
// When a page is rendered inside the visual editor, the editor only sees the
// final interpolated text on screen. To let an operator click rendered text
// and edit the underlying source string, the application needs a runtime
// reverse index from rendered text back to the translation key(s) and
// template that produced it. This package builds and maintains that index.
//
// Features:
//   - Live-editor detection from the page request (framing + URL marker)
//   - A post-translation hook into the i18n manager, chained with any
//     pre-existing hook
//   - Template recovery: the unresolved "Hello {{.Name}}!" pattern is indexed
//     instead of the interpolated "Hello John!"
//   - A bounded, eviction-managed reverse index shared process-wide
//   - Best-effort bootstrap of the editor's companion script
//
// Example:
//
//	func pageHandler(w http.ResponseWriter, r *http.Request) {
//	    tracker := live.New(live.Config{Request: r, ContentKey: "my-app"})
//	    tracker.Attach(manager)
//	    // render the page; every translator.T call is now tracked
//	}
//
// Tracking is observational only: it never transforms translation output and
// its entry points never fail the host application.
package live

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/kdsmith18542/liveedit/i18n"
)

var (
	// ErrLoaderNotConfigured is returned by LoadLanguage when Config.Loader
	// was not set.
	ErrLoaderNotConfigured = errors.New("live: CDN loading requested but Config.Loader is not set")

	// ErrNoHostInstance is returned by LoadLanguage when no i18n manager has
	// been attached or passed.
	ErrNoHostInstance = errors.New("live: no host i18n manager attached")
)

// FlatMessage is one leaf of a flattened message tree: a dot-separated key
// path and the string it resolves to.
type FlatMessage struct {
	Key   string
	Value string
}

// Tracker intercepts translation lookups and feeds the reverse index.
//
// A tracker is constructed per page load; all trackers sharing a registry
// feed the same index. The live flag is fixed at construction: a tracker
// built outside the editor stays inert for its whole life.
type Tracker struct {
	cfg      Config
	live     bool
	registry *Registry

	mu       sync.Mutex
	attached bool
	manager  *i18n.Manager
	locale   string // active locale cached at attach time
}

// New constructs a Tracker, running the environment probe once. If the probe
// reports live mode, the reverse index is initialized, the refresh callback
// is installed, and a best-effort background load of the editor's companion
// script is started. Outside live mode the returned tracker is inert.
func New(cfg Config) *Tracker {
	cfg = cfg.withDefaults()

	t := &Tracker{
		cfg:      cfg,
		registry: cfg.Registry,
		live:     IsLiveEditor(cfg.Request, cfg.MarkerParam, cfg.ForceLive),
	}

	if t.live {
		t.registry.InitIndex()
		t.registry.SetRefresh(func() {
			if index := t.registry.Index(); index != nil {
				removed := index.Clear()
				t.debugf("refresh: cleared %d entries", removed)
			}
		})

		// Outcome does not affect tracking correctness; only click-to-edit
		// activation depends on the companion script.
		go LoadEditorScript(cfg.ScriptRetries, cfg.ScriptRetryDelay, cfg.ScriptURL)
	}

	return t
}

// Live reports whether the tracker was constructed in live-editor mode.
func (t *Tracker) Live() bool {
	return t.live
}

// Attached reports whether the tracker has installed its hook.
func (t *Tracker) Attached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attached
}

// Registry returns the slot registry this tracker feeds.
func (t *Tracker) Registry() *Registry {
	return t.registry
}

// Attach installs the tracker's wrapper around the manager's post-translation
// hook. It is a no-op outside live mode. Re-attachment is a no-op with a
// warning, and a nil manager leaves the tracker unattached with a warning;
// neither is an error.
//
// The installed wrapper observes every resolved translation, recovers the
// template form where possible, records it in the reverse index, delegates to
// whatever hook existed before attachment, and always returns the original
// resolved value unchanged.
func (t *Tracker) Attach(manager *i18n.Manager) {
	if !t.live {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.attached {
		log.Printf("[live] Tracker already attached; ignoring repeated Attach")
		return
	}
	if manager == nil {
		log.Printf("[live] Attach: host i18n manager is nil; tracker left unattached")
		if obs := getObserver(); obs != nil {
			obs.OnTrackerAttach(context.Background(), "", false)
		}
		return
	}

	t.manager = manager
	t.locale = manager.ActiveLocale()

	var prev i18n.PostTranslationHook
	prev = manager.SetPostTranslation(func(resolved interface{}, key string) interface{} {
		t.intercept(resolved, key)
		if prev != nil {
			prev(resolved, key)
		}
		return resolved
	})

	t.attached = true
	if obs := getObserver(); obs != nil {
		obs.OnTrackerAttach(context.Background(), t.locale, true)
	}
	t.debugf("attached to manager (locale %q)", t.locale)

	if t.cfg.Loader != nil && len(t.cfg.PreloadLanguages) > 0 {
		go t.preloadLanguages()
	}
}

// intercept handles one resolved translation. Non-string results (plural-form
// slices and the like) are skipped. Never propagates a failure.
func (t *Tracker) intercept(resolved interface{}, key string) {
	value, ok := resolved.(string)
	if !ok {
		return
	}

	language := t.manager.ActiveLocale()

	template, recovered := t.recoverTemplate(key, language)
	if recovered {
		value = template
	}

	t.registry.Track(value, key, TrackOptions{
		Namespace: t.cfg.ContentKey,
		Language:  language,
	})
	t.registry.SetLanguage(language)

	if index := t.registry.Index(); index != nil {
		index.Evict(t.cfg.MaxIndexSize)
	}

	if obs := getObserver(); obs != nil {
		obs.OnValueTracked(context.Background(), key, language, recovered)
	}
	t.debugf("tracked %q -> %q (template recovered: %t)", key, value, recovered)
}

// recoverTemplate looks up the raw message template for key in the current
// locale's message tree. The editor needs the placeholder-bearing template so
// an operator can edit the source pattern, not a snapshot frozen with one
// interpolation's values. Returns false when the key does not resolve, in
// which case the caller falls back to the resolved value.
func (t *Tracker) recoverTemplate(key, language string) (string, bool) {
	messages := t.manager.Messages(language)
	if messages == nil {
		return "", false
	}
	template := i18n.LookupMessage(messages, key)
	if template == "" {
		return "", false
	}
	return template, true
}

// TrackMessages records every leaf of a nested message tree under the given
// language, e.g. after translations were loaded externally. No-op outside
// live mode; the index budget is enforced once after the batch.
func (t *Tracker) TrackMessages(messages map[string]interface{}, language string) {
	if !t.live {
		return
	}

	for _, msg := range Flatten(messages) {
		t.registry.Track(msg.Value, msg.Key, TrackOptions{
			Namespace: t.cfg.ContentKey,
			Language:  language,
		})
	}
	t.registry.SetLanguage(language)

	if index := t.registry.Index(); index != nil {
		index.Evict(t.cfg.MaxIndexSize)
	}
}

// PreloadMessages tracks the full message tree of the active locale of the
// given manager (or the previously attached one when manager is nil). Used
// when upfront population is preferred over the default lazy-as-rendered
// population.
func (t *Tracker) PreloadMessages(manager *i18n.Manager) {
	if !t.live {
		return
	}

	if manager == nil {
		t.mu.Lock()
		manager = t.manager
		t.mu.Unlock()
	}
	if manager == nil {
		t.debugf("preload: no manager available")
		return
	}

	language := manager.ActiveLocale()
	t.TrackMessages(manager.Messages(language), language)
}

// LoadLanguage fetches translations for language through the configured CDN
// loader, merges them into the attached manager, and tracks them. These are
// the only caller-visible failures in the package: a missing loader and a
// missing host manager are programmer misconfiguration, not runtime
// variability.
func (t *Tracker) LoadLanguage(ctx context.Context, language string) error {
	if t.cfg.Loader == nil {
		return ErrLoaderNotConfigured
	}

	t.mu.Lock()
	manager := t.manager
	t.mu.Unlock()
	if manager == nil {
		return ErrNoHostInstance
	}

	messages, err := t.cfg.Loader.LoadTranslations(ctx, language)
	if err != nil {
		return fmt.Errorf("live: loading language %q: %w", language, err)
	}

	manager.MergeMessages(language, messages)
	t.TrackMessages(messages, language)
	return nil
}

// preloadLanguages loads every configured preload language, logging failures.
func (t *Tracker) preloadLanguages() {
	ctx := context.Background()
	for _, language := range t.cfg.PreloadLanguages {
		if err := t.LoadLanguage(ctx, language); err != nil {
			log.Printf("[live] Preload of language %q failed: %v", language, err)
		}
	}
}

// debugf logs when Config.Debug is set.
func (t *Tracker) debugf(format string, args ...interface{}) {
	if t.cfg.Debug {
		log.Printf("[live] "+format, args...)
	}
}

// Flatten converts a nested message tree into its dot-path leaf pairs,
// sorted by key.
//
// Flatten(map[string]interface{}{"home": map[string]interface{}{"title": "Home Page"}})
// yields [{"home.title", "Home Page"}].
func Flatten(messages map[string]interface{}) []FlatMessage {
	var out []FlatMessage
	flattenInto(&out, "", messages)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func flattenInto(out *[]FlatMessage, prefix string, tree map[string]interface{}) {
	for key, val := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch v := val.(type) {
		case string:
			*out = append(*out, FlatMessage{Key: path, Value: v})
		case map[string]interface{}:
			flattenInto(out, path, v)
		default:
			// Non-string, non-tree leaves (numbers, arrays) are not
			// translatable text and are skipped.
		}
	}
}
