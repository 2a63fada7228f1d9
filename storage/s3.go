package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds configuration for the S3 backend.
// All fields except Bucket are optional and fall back to AWS defaults.
type S3Config struct {
	Bucket          string // S3 bucket name (required)
	Region          string // AWS region (optional, uses default if empty)
	AccessKeyID     string // AWS access key ID (optional, uses environment/default)
	SecretAccessKey string // AWS secret access key (optional, uses environment/default)
	Endpoint        string // Custom S3 endpoint (optional, for S3-compatible services)
	ForcePathStyle  bool   // Use path-style addressing (optional, for S3-compatible services)
}

// S3Backend fetches translation bundles from Amazon S3 or an S3-compatible
// service.
type S3Backend struct {
	client *s3.Client
	bucket string
}

// NewS3 creates an S3 backend with the specified configuration.
// The configuration can use AWS environment variables, IAM roles, or explicit
// credentials.
//
// Example:
//
//	// Using environment variables (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY)
//	backend, err := storage.NewS3(storage.S3Config{
//	    Bucket: "my-translations",
//	    Region: "us-west-2",
//	})
//
//	// Using an S3-compatible service (like MinIO)
//	backend, err := storage.NewS3(storage.S3Config{
//	    Bucket:         "my-translations",
//	    Endpoint:       "http://localhost:9000",
//	    ForcePathStyle: true,
//	})
func NewS3(config S3Config) (Backend, error) {
	if config.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(config.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsConfig.Credentials = aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     config.AccessKeyID,
				SecretAccessKey: config.SecretAccessKey,
			}, nil
		})
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
		o.UsePathStyle = config.ForcePathStyle
	})

	return &S3Backend{
		client: client,
		bucket: config.Bucket,
	}, nil
}

// Fetch reads the object at path from the bucket.
func (b *S3Backend) Fetch(ctx context.Context, path string) ([]byte, error) {
	key := strings.TrimPrefix(path, "/")
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %v", b.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %v", b.bucket, key, err)
	}
	return data, nil
}

// Exists reports whether the object at path exists in the bucket.
func (b *S3Backend) Exists(ctx context.Context, path string) bool {
	key := strings.TrimPrefix(path, "/")
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

// List returns the keys of all objects under prefix.
func (b *S3Backend) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(strings.TrimPrefix(prefix, "/")),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list s3://%s/%s: %v", b.bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// Close is a no-op for S3; the underlying HTTP client manages its own
// connections.
func (b *S3Backend) Close() error {
	return nil
}
