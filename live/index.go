package live

import (
	"context"
	"sort"
	"sync"
	"time"
)

// EntryKindText marks reverse index entries produced from plain text
// translations. It is currently the only kind; the discriminator is kept for
// future non-text entries (attributes, rich content).
const EntryKindText = "text"

// Entry is a reverse index record: everything known about one rendered text
// value. Multiple translation keys that resolve to the same text collapse
// into a single entry whose Keys set contains all of them.
type Entry struct {
	Keys      []string               `json:"keys"`
	Kind      string                 `json:"kind"`
	Variables map[string]interface{} `json:"variables,omitempty"`
	Namespace string                 `json:"namespace,omitempty"`
	Language  string                 `json:"language,omitempty"`
	TrackedAt int64                  `json:"trackedAt"`

	// seq preserves insertion order as the eviction tie-break for entries
	// tracked within the same timestamp.
	seq int64
}

// TrackOptions carries the optional metadata for a single track call.
type TrackOptions struct {
	Namespace string
	Language  string
	Variables map[string]interface{}
}

// Index is the bounded reverse mapping from rendered text to the keys and
// metadata that produced it. It is safe for concurrent use; on this runtime
// index reads and writes may come from multiple goroutines, so all access is
// mutex-guarded.
type Index struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	nextSeq int64
}

// NewIndex creates an empty reverse index.
func NewIndex() *Index {
	return &Index{
		entries: make(map[string]*Entry),
	}
}

// normalizeKey prepares a translation key for storage. It is currently an
// identity transform, reserved for future key-format normalization.
func normalizeKey(key string) string {
	return key
}

// Track records that key resolved to value. The entry for value is created if
// missing; key is added to its key set (deduplicated); variables follow the
// merge policy: a new non-empty set replaces the stored one, otherwise the
// stored set is retained. Metadata is stamped with the current time.
func (ix *Index) Track(value, key string, opts TrackOptions) {
	key = normalizeKey(key)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	entry, exists := ix.entries[value]
	if !exists {
		entry = &Entry{
			Kind: EntryKindText,
			seq:  ix.nextSeq,
		}
		ix.nextSeq++
		ix.entries[value] = entry
	}

	found := false
	for _, k := range entry.Keys {
		if k == key {
			found = true
			break
		}
	}
	if !found {
		entry.Keys = append(entry.Keys, key)
	}

	if len(opts.Variables) > 0 {
		entry.Variables = opts.Variables
	}

	entry.Namespace = opts.Namespace
	entry.Language = opts.Language
	entry.TrackedAt = time.Now().UnixNano()
}

// Evict enforces the index size budget. If the index holds more than max
// entries, the oldest entries by TrackedAt are removed until max remain.
// Entries with equal timestamps are evicted in insertion order. Returns the
// number of evicted entries.
func (ix *Index) Evict(max int) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if max < 0 || len(ix.entries) <= max {
		return 0
	}

	type aged struct {
		value string
		entry *Entry
	}
	all := make([]aged, 0, len(ix.entries))
	for value, entry := range ix.entries {
		all = append(all, aged{value, entry})
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].entry.TrackedAt != all[j].entry.TrackedAt {
			return all[i].entry.TrackedAt < all[j].entry.TrackedAt
		}
		return all[i].entry.seq < all[j].entry.seq
	})

	evicted := len(ix.entries) - max
	for _, a := range all[:evicted] {
		delete(ix.entries, a.value)
	}

	if obs := getObserver(); obs != nil {
		obs.OnIndexEviction(context.Background(), evicted, len(ix.entries))
	}
	return evicted
}

// Clear removes all entries. The index object itself survives, so references
// held by external callers remain valid. Returns the number of removed entries.
func (ix *Index) Clear() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	removed := len(ix.entries)
	for value := range ix.entries {
		delete(ix.entries, value)
	}

	if obs := getObserver(); obs != nil {
		obs.OnIndexCleared(context.Background(), removed)
	}
	return removed
}

// Size returns the number of entries currently in the index.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Get returns a copy of the entry for value, if present.
func (ix *Index) Get(value string) (Entry, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	entry, exists := ix.entries[value]
	if !exists {
		return Entry{}, false
	}
	return copyEntry(entry), true
}

// Entries returns a snapshot of the index, keyed by rendered text value.
// The snapshot is a deep copy and safe to retain or serialize.
func (ix *Index) Entries() map[string]Entry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	snapshot := make(map[string]Entry, len(ix.entries))
	for value, entry := range ix.entries {
		snapshot[value] = copyEntry(entry)
	}
	return snapshot
}

func copyEntry(entry *Entry) Entry {
	out := *entry
	out.Keys = append([]string(nil), entry.Keys...)
	if entry.Variables != nil {
		vars := make(map[string]interface{}, len(entry.Variables))
		for k, v := range entry.Variables {
			vars[k] = v
		}
		out.Variables = vars
	}
	return out
}

// Registry holds the process-wide slots the external editor reads: the
// reverse index, the current language, and the refresh callback. One registry
// is shared per page/process; multiple Tracker instances constructed against
// the same registry feed the same index.
type Registry struct {
	mu       sync.RWMutex
	index    *Index
	language string
	refresh  func()
}

var defaultRegistry = NewRegistry()

// NewRegistry creates an empty registry. Most applications use
// DefaultRegistry; separate registries exist for tests and for hosting
// multiple isolated editor sessions in one process.
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry returns the process-wide registry shared by all trackers
// that do not configure their own.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// InitIndex returns the registry's index, allocating an empty one on first
// call. It is idempotent: concurrent and repeated calls observe the same index.
func (r *Registry) InitIndex() *Index {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index == nil {
		r.index = NewIndex()
	}
	return r.index
}

// Index returns the registry's index, or nil if it has never been initialized.
func (r *Registry) Index() *Index {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index
}

// Track records a value/key pair in the registry's index. Tracking on an
// uninitialized index is a deliberate silent no-op: tracking is best-effort
// instrumentation and must never break the host application.
func (r *Registry) Track(value, key string, opts TrackOptions) {
	index := r.Index()
	if index == nil {
		return
	}
	index.Track(value, key, opts)
}

// SetLanguage updates the current-language slot the external editor reads.
func (r *Registry) SetLanguage(language string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.language = language
}

// Language returns the current-language slot.
func (r *Registry) Language() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.language
}

// SetRefresh installs the zero-argument refresh callback the external editor
// invokes to clear the index after a route change re-renders new content.
func (r *Registry) SetRefresh(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refresh = fn
}

// Refresh invokes the installed refresh callback, if any.
func (r *Registry) Refresh() {
	r.mu.RLock()
	fn := r.refresh
	r.mu.RUnlock()

	if fn != nil {
		fn()
	}
}
