package cdn

import (
	"context"
	"time"

	"github.com/kdsmith18542/liveedit/observability"
)

// Observer receives CDN loader events.
type Observer interface {
	// OnTranslationFetch is called after every transport fetch attempt.
	OnTranslationFetch(ctx context.Context, language, transport string, duration time.Duration, success bool)
}

var observer Observer

// RegisterObserver sets the global observer for CDN loader events
func RegisterObserver(obs Observer) {
	observer = obs
}

// getObserver returns the registered observer (or nil)
func getObserver() Observer {
	return observer
}

// cdnObserver implements Observer using the global observability system
type cdnObserver struct{}

func (o *cdnObserver) OnTranslationFetch(ctx context.Context, language, transport string, duration time.Duration, success bool) {
	observability.GetObserver().OnTranslationFetch(ctx, language, transport, duration, success)
}

// EnableObservability wires the package to the central observability
// observer configured via observability.Init.
func EnableObservability() {
	RegisterObserver(&cdnObserver{})
}
