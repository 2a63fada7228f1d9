package live

import (
	"net/http"
	"strings"
)

// InHost reports whether the probe has a page context to inspect at all.
// Detection requires both a request and a parsed URL; anything less means the
// code is running outside a page-serving path (CLI, background job) where
// live mode can never apply.
func InHost(r *http.Request) bool {
	return r != nil && r.URL != nil
}

// IsLiveEditor reports whether the page identified by r is being rendered
// inside the visual editor. force bypasses detection entirely (test/override
// escape hatch). Otherwise both independent signals must hold: the page is
// embedded in a frame, and its query string carries the marker parameter.
// Requiring both avoids activating tracking overhead on normal page loads.
func IsLiveEditor(r *http.Request, markerParam string, force bool) bool {
	if force {
		return true
	}
	if !InHost(r) {
		return false
	}
	return isEmbedded(r) && hasMarker(r, markerParam)
}

// isEmbedded reports whether the page request was made for a framed
// rendering context. Any failure while reading the embedding signal is
// treated as "not embedded" rather than propagated; an unreadable signal
// cannot prove same-origin editor framing.
func isEmbedded(r *http.Request) (embedded bool) {
	defer func() {
		if recover() != nil {
			embedded = false
		}
	}()

	switch strings.ToLower(r.Header.Get("Sec-Fetch-Dest")) {
	case "iframe", "frame", "embed":
		return true
	}

	// Fallback for clients that do not send fetch metadata: the editor shell
	// marks its frame requests explicitly.
	return r.Header.Get("X-Liveedit-Embedded") != ""
}

// hasMarker reports whether the request URL's query string carries the
// marker parameter, with or without a value.
func hasMarker(r *http.Request, markerParam string) bool {
	if markerParam == "" {
		return false
	}
	return r.URL.Query().Has(markerParam)
}
