package cdn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kdsmith18542/liveedit/storage"
)

// Transport fetches a raw translation bundle for a resolved path.
type Transport interface {
	// Fetch retrieves the bundle bytes at path.
	Fetch(ctx context.Context, path string) ([]byte, error)

	// Name identifies the transport in logs and observability events.
	Name() string
}

// HTTPTransport fetches bundles over HTTP. The resolved path is
// appended to BaseURL, or used as a full URL when BaseURL is empty.
type HTTPTransport struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPTransport creates an HTTP transport rooted at baseURL.
func NewHTTPTransport(baseURL string) *HTTPTransport {
	return &HTTPTransport{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *HTTPTransport) Name() string {
	return "http"
}

func (t *HTTPTransport) Fetch(ctx context.Context, path string) ([]byte, error) {
	url := path
	if t.BaseURL != "" {
		url = t.BaseURL + "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %v", url, err)
	}

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %v", url, err)
	}
	return data, nil
}

// StorageTransport fetches bundles from a storage backend (S3, GCS,
// Azure, local disk, or an in-memory mock).
type StorageTransport struct {
	backend storage.Backend
}

// NewStorageTransport wraps a storage backend as a Transport.
func NewStorageTransport(backend storage.Backend) *StorageTransport {
	return &StorageTransport{backend: backend}
}

func (t *StorageTransport) Name() string {
	return "storage"
}

func (t *StorageTransport) Fetch(ctx context.Context, path string) ([]byte, error) {
	return t.backend.Fetch(ctx, path)
}
