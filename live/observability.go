package live

import (
	"context"

	"github.com/kdsmith18542/liveedit/observability"
)

// Observer defines hooks for tracing and metrics in live tracking operations
type Observer interface {
	OnValueTracked(ctx context.Context, key string, language string, templateRecovered bool)
	OnIndexEviction(ctx context.Context, evicted int, remaining int)
	OnIndexCleared(ctx context.Context, removed int)
	OnTrackerAttach(ctx context.Context, locale string, success bool)
	OnScriptLoad(ctx context.Context, url string, attempts int, success bool)
}

var observer Observer

// RegisterObserver sets the global observer for live tracking events
func RegisterObserver(obs Observer) {
	observer = obs
}

// getObserver returns the registered observer (or nil)
func getObserver() Observer {
	return observer
}

// liveObserver implements Observer using the global observability system
type liveObserver struct{}

func (l *liveObserver) OnValueTracked(ctx context.Context, key string, language string, templateRecovered bool) {
	observability.GetObserver().OnValueTracked(ctx, key, language, templateRecovered)
}

func (l *liveObserver) OnIndexEviction(ctx context.Context, evicted int, remaining int) {
	observability.GetObserver().OnIndexEviction(ctx, evicted, remaining)
}

func (l *liveObserver) OnIndexCleared(ctx context.Context, removed int) {
	observability.GetObserver().OnIndexCleared(ctx, removed)
}

func (l *liveObserver) OnTrackerAttach(ctx context.Context, locale string, success bool) {
	observability.GetObserver().OnTrackerAttach(ctx, locale, success)
}

func (l *liveObserver) OnScriptLoad(ctx context.Context, url string, attempts int, success bool) {
	observability.GetObserver().OnScriptLoad(ctx, url, attempts, success)
}

// EnableObservability enables observability integration for the live package
func EnableObservability() {
	RegisterObserver(&liveObserver{})
}
