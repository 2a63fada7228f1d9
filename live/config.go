package live

import (
	"net/http"
	"time"

	"github.com/kdsmith18542/liveedit/cdn"
)

const (
	// DefaultMarkerParam is the query parameter the editor appends to the
	// page URL it frames.
	DefaultMarkerParam = "liveedit"

	// DefaultMaxIndexSize bounds the reverse index.
	DefaultMaxIndexSize = 10000

	// DefaultScriptRetries is how many times the bootstrap retries loading
	// the editor's companion script.
	DefaultScriptRetries = 5

	// DefaultScriptRetryDelay is the fixed delay between bootstrap retries.
	DefaultScriptRetryDelay = 3 * time.Second

	// DefaultScriptURL is where the editor's companion script is published.
	DefaultScriptURL = "https://cdn.liveedit.dev/editor/client.min.js"
)

// Config configures a Tracker.
type Config struct {
	// Request is the page request the tracker was constructed for. The
	// environment probe reads its framing headers and query string.
	Request *http.Request

	// ContentKey identifies this application's content space in the editor.
	// Stored as the namespace on tracked entries.
	ContentKey string

	// Debug enables verbose tracking logs.
	Debug bool

	// MaxIndexSize bounds the reverse index; oldest entries are evicted
	// beyond it. Defaults to DefaultMaxIndexSize.
	MaxIndexSize int

	// MarkerParam is the query parameter that marks live-editor page loads.
	// Defaults to DefaultMarkerParam.
	MarkerParam string

	// ForceLive activates live mode unconditionally, bypassing detection.
	ForceLive bool

	// ScriptURL overrides the companion script location.
	ScriptURL string

	// ScriptRetries and ScriptRetryDelay tune the bootstrap retry policy.
	ScriptRetries    int
	ScriptRetryDelay time.Duration

	// PreloadLanguages are loaded through the CDN loader right after attach.
	PreloadLanguages []string

	// Loader fetches translations on demand. Required for LoadLanguage and
	// PreloadLanguages; nil disables CDN loading.
	Loader *cdn.Loader

	// Registry overrides the process-wide slot registry. Defaults to
	// DefaultRegistry, which all trackers share.
	Registry *Registry
}

// withDefaults fills in zero-valued fields.
func (c Config) withDefaults() Config {
	if c.MaxIndexSize == 0 {
		c.MaxIndexSize = DefaultMaxIndexSize
	}
	if c.MarkerParam == "" {
		c.MarkerParam = DefaultMarkerParam
	}
	if c.ScriptURL == "" {
		c.ScriptURL = DefaultScriptURL
	}
	if c.ScriptRetries == 0 {
		c.ScriptRetries = DefaultScriptRetries
	}
	if c.ScriptRetryDelay == 0 {
		c.ScriptRetryDelay = DefaultScriptRetryDelay
	}
	if c.Registry == nil {
		c.Registry = DefaultRegistry()
	}
	return c
}
