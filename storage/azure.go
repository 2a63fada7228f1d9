package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureConfig holds configuration for the Azure Blob Storage backend.
type AzureConfig struct {
	AccountName string // Azure storage account name (required)
	AccountKey  string // Azure storage account key (required)
	Container   string // Blob container name (required)
}

// AzureBackend fetches translation bundles from Azure Blob Storage.
type AzureBackend struct {
	client    *azblob.Client
	container string
}

// NewAzure creates an Azure Blob backend with the specified configuration.
func NewAzure(config AzureConfig) (Backend, error) {
	if config.AccountName == "" || config.AccountKey == "" || config.Container == "" {
		return nil, fmt.Errorf("account name, account key, and container are required")
	}
	cred, err := azblob.NewSharedKeyCredential(config.AccountName, config.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credentials: %v", err)
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", config.AccountName)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure client: %v", err)
	}
	return &AzureBackend{
		client:    client,
		container: config.Container,
	}, nil
}

// Fetch reads the blob at path from the container.
func (a *AzureBackend) Fetch(ctx context.Context, path string) ([]byte, error) {
	key := strings.TrimPrefix(path, "/")
	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob %s: %v", key, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %v", key, err)
	}
	return buf.Bytes(), nil
}

// Exists reports whether the blob at path exists in the container.
func (a *AzureBackend) Exists(ctx context.Context, path string) bool {
	key := strings.TrimPrefix(path, "/")
	// A one-byte ranged download is the cheapest existence probe the
	// azblob client offers without a service client.
	count := int64(1)
	_, err := a.client.DownloadStream(ctx, a.container, key, &azblob.DownloadStreamOptions{
		Range: azblob.HTTPRange{Offset: 0, Count: count},
	})
	return err == nil
}

// List returns the names of all blobs under prefix.
func (a *AzureBackend) List(ctx context.Context, prefix string) ([]string, error) {
	trimmed := strings.TrimPrefix(prefix, "/")
	var names []string
	pager := a.client.NewListBlobsFlatPager(a.container, &azblob.ListBlobsFlatOptions{
		Prefix: &trimmed,
	})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs under %s: %v", prefix, err)
		}
		for _, blob := range page.Segment.BlobItems {
			if blob.Name != nil {
				names = append(names, *blob.Name)
			}
		}
	}
	return names, nil
}

// Close is a no-op for Azure; the underlying HTTP client manages its own
// connections.
func (a *AzureBackend) Close() error {
	return nil
}
