// Package storage provides pluggable backends the CDN loader fetches
// translation bundles from.
//
// Features:
//   - Pluggable backends (Local, S3, GCS, Azure Blob)
//   - Consistent fetch-oriented API across all providers
//   - Thread-safe implementations
//
// Supported backends:
//   - Local: File system storage with a configurable base path
//   - S3: Amazon S3 with IAM or access key authentication
//   - GCS: Google Cloud Storage with service account authentication
//   - Azure: Azure Blob Storage with shared key authentication
//   - Mock: In-memory storage for testing
//
// Example:
//
//	backend := storage.NewLocal("./translations")
//	defer backend.Close()
//
//	loader := cdn.NewLoader(cdn.Config{
//	    PathTemplate: "bundles/{{lng}}.toml",
//	    Transport:    cdn.NewStorageTransport(backend),
//	})
package storage

import "context"

// Backend defines the interface for translation bundle sources.
// All implementations must provide these methods for consistent behavior
// across providers.
type Backend interface {
	// Fetch reads the object at path and returns its content.
	// Returns an error if the object does not exist or cannot be read.
	Fetch(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether an object exists at path.
	Exists(ctx context.Context, path string) bool

	// List returns the paths of all objects under prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close performs cleanup for the backend. Should be called when the
	// backend is no longer needed.
	Close() error
}
