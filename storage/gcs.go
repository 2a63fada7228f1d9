package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSConfig holds configuration for the Google Cloud Storage backend.
type GCSConfig struct {
	Bucket          string // GCS bucket name (required)
	CredentialsFile string // Path to service account JSON file (optional, uses env if empty)
}

// GCSBackend fetches translation bundles from Google Cloud Storage.
type GCSBackend struct {
	client *storage.Client
	bucket string
}

// NewGCS creates a GCS backend with the specified configuration.
func NewGCS(config GCSConfig) (Backend, error) {
	if config.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	ctx := context.Background()
	if config.CredentialsFile != "" {
		if err := os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", config.CredentialsFile); err != nil {
			return nil, fmt.Errorf("failed to set GOOGLE_APPLICATION_CREDENTIALS: %v", err)
		}
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %v", err)
	}
	return &GCSBackend{
		client: client,
		bucket: config.Bucket,
	}, nil
}

// Fetch reads the object at path from the bucket.
func (g *GCSBackend) Fetch(ctx context.Context, path string) ([]byte, error) {
	key := strings.TrimPrefix(path, "/")
	r, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open gs://%s/%s: %v", g.bucket, key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %v", g.bucket, key, err)
	}
	return data, nil
}

// Exists reports whether the object at path exists in the bucket.
func (g *GCSBackend) Exists(ctx context.Context, path string) bool {
	key := strings.TrimPrefix(path, "/")
	_, err := g.client.Bucket(g.bucket).Object(key).Attrs(ctx)
	return err == nil
}

// List returns the names of all objects under prefix.
func (g *GCSBackend) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{
		Prefix: strings.TrimPrefix(prefix, "/"),
	})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list gs://%s/%s: %v", g.bucket, prefix, err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

// Close releases the underlying GCS client.
func (g *GCSBackend) Close() error {
	return g.client.Close()
}
