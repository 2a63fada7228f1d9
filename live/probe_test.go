package live

import (
	"net/http"
	"testing"
)

func frameRequest(target string) *http.Request {
	req, _ := http.NewRequest("GET", target, nil)
	req.Header.Set("Sec-Fetch-Dest", "iframe")
	return req
}

func TestInHost(t *testing.T) {
	if InHost(nil) {
		t.Error("Expected InHost to be false for nil request")
	}

	req, _ := http.NewRequest("GET", "/page", nil)
	if !InHost(req) {
		t.Error("Expected InHost to be true for a normal request")
	}

	req.URL = nil
	if InHost(req) {
		t.Error("Expected InHost to be false when the URL is missing")
	}
}

func TestIsLiveEditorRequiresBothSignals(t *testing.T) {
	// Framed and marked: live.
	req := frameRequest("/page?liveedit")
	if !IsLiveEditor(req, "liveedit", false) {
		t.Error("Expected live mode for a framed request with the marker")
	}

	// Framed but no marker.
	req = frameRequest("/page")
	if IsLiveEditor(req, "liveedit", false) {
		t.Error("Expected non-live mode without the marker parameter")
	}

	// Marker but not framed.
	req, _ = http.NewRequest("GET", "/page?liveedit", nil)
	if IsLiveEditor(req, "liveedit", false) {
		t.Error("Expected non-live mode for a top-level navigation")
	}
}

func TestIsLiveEditorForce(t *testing.T) {
	if !IsLiveEditor(nil, "liveedit", true) {
		t.Error("Expected force to activate live mode even without a request")
	}

	req, _ := http.NewRequest("GET", "/page", nil)
	if !IsLiveEditor(req, "liveedit", true) {
		t.Error("Expected force to bypass detection")
	}
}

func TestIsLiveEditorEmbeddingSignals(t *testing.T) {
	for _, dest := range []string{"iframe", "frame", "embed", "IFRAME"} {
		req, _ := http.NewRequest("GET", "/page?liveedit", nil)
		req.Header.Set("Sec-Fetch-Dest", dest)
		if !IsLiveEditor(req, "liveedit", false) {
			t.Errorf("Expected Sec-Fetch-Dest %q to count as embedded", dest)
		}
	}

	req, _ := http.NewRequest("GET", "/page?liveedit", nil)
	req.Header.Set("Sec-Fetch-Dest", "document")
	if IsLiveEditor(req, "liveedit", false) {
		t.Error("Expected Sec-Fetch-Dest document to count as not embedded")
	}

	// Header fallback for clients without fetch metadata.
	req, _ = http.NewRequest("GET", "/page?liveedit", nil)
	req.Header.Set("X-Liveedit-Embedded", "1")
	if !IsLiveEditor(req, "liveedit", false) {
		t.Error("Expected the explicit embed header to count as embedded")
	}
}

func TestIsLiveEditorMarkerValue(t *testing.T) {
	// The marker counts with or without a value.
	req := frameRequest("/page?liveedit=true")
	if !IsLiveEditor(req, "liveedit", false) {
		t.Error("Expected marker with a value to be detected")
	}

	req = frameRequest("/page?edit=1")
	if !IsLiveEditor(req, "edit", false) {
		t.Error("Expected a custom marker parameter to be detected")
	}
	if IsLiveEditor(req, "liveedit", false) {
		t.Error("Expected the default marker to not match a custom parameter")
	}
}

func TestIsLiveEditorEmptyMarker(t *testing.T) {
	req := frameRequest("/page?liveedit")
	if IsLiveEditor(req, "", false) {
		t.Error("Expected an empty marker parameter to never match")
	}
}
