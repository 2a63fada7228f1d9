package live

import (
	"context"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// scriptLoader memoizes the one-shot load of the editor's companion script.
// All callers on a page share a single in-flight attempt and its resolved
// outcome, so repeated Tracker construction never injects the script twice.
type scriptLoader struct {
	mu      sync.Mutex
	started bool
	done    chan struct{}

	ok     bool
	script []byte

	// client is swappable for tests.
	client *http.Client
}

var bootstrap = newScriptLoader()

func newScriptLoader() *scriptLoader {
	return &scriptLoader{
		done:   make(chan struct{}),
		client: http.DefaultClient,
	}
}

// LoadEditorScript fetches the editor's companion script and caches its bytes
// for serving to the page. The load is memoized process-wide: the first call
// starts the attempt, concurrent and later calls share its outcome. On
// failure the partial response is discarded and the fetch is retried up to
// retries times with a fixed delay between attempts.
//
// Returns true on any success and false after exhausting retries. It never
// returns an error: a missing companion script only disables click-to-edit
// activation, tracking itself proceeds regardless.
func LoadEditorScript(retries int, delay time.Duration, url string) bool {
	l := bootstrap

	l.mu.Lock()
	if !l.started {
		l.started = true
		go l.run(retries, delay, url)
	}
	l.mu.Unlock()

	<-l.done

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ok
}

// EditorScript returns the cached companion script bytes, or nil if the
// script has not been loaded (yet, or at all).
func EditorScript() []byte {
	bootstrap.mu.Lock()
	defer bootstrap.mu.Unlock()
	return bootstrap.script
}

func (l *scriptLoader) run(retries int, delay time.Duration, url string) {
	attempts := 0
	for attempt := 0; attempt <= retries; attempt++ {
		attempts++
		body, err := l.fetch(url)
		if err == nil {
			l.mu.Lock()
			l.script = body
			l.ok = true
			l.mu.Unlock()
			break
		}

		log.Printf("[live] Editor script load attempt %d failed: %v", attempts, err)
		if attempt < retries {
			time.Sleep(delay)
		}
	}

	if obs := getObserver(); obs != nil {
		obs.OnScriptLoad(context.Background(), url, attempts, l.ok)
	}
	close(l.done)
}

func (l *scriptLoader) fetch(url string) ([]byte, error) {
	resp, err := l.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused across retries.
		io.Copy(io.Discard, resp.Body)
		return nil, &scriptLoadError{url: url, status: resp.Status}
	}

	return io.ReadAll(resp.Body)
}

// scriptLoadError reports a non-200 response during script loading.
type scriptLoadError struct {
	url    string
	status string
}

func (e *scriptLoadError) Error() string {
	return "unexpected status " + e.status + " fetching " + e.url
}

// resetBootstrap discards the memoized load state. Test hook.
func resetBootstrap() {
	bootstrap = newScriptLoader()
}
