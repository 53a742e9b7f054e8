package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/zonetrack/apiserver/config"
)

// ObjectStorage is the subset of bucket operations used for report archives.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Bucket() string
}

// NewFromConfig builds the backend named by cfg.Provider and makes sure its
// bucket exists. It returns nil, nil when no provider is configured.
func NewFromConfig(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	var (
		backend ObjectStorage
		err     error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "":
		return nil, nil
	case "minio":
		backend, err = NewMinioStore(cfg.Minio)
	case "gcs":
		backend, err = NewGCSStore(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Provider, err)
	}
	if err := backend.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", backend.Bucket(), err)
	}
	return backend, nil
}
