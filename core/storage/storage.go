package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotFound is returned by Open for keys that do not exist, regardless of
// backend.
var ErrNotFound = errors.New("storage: object not found")

// BlobStore is the opaque key-value blob collaborator. Keys are
// slash-separated paths namespaced by the caller (resumes/{user}/{id}/...).
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	ResolveURI(key string) string
}

type StorageConfig struct {
	Backend     string
	LocalRoot   string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

var instance BlobStore

func Get() BlobStore {
	return instance
}

func Init(config StorageConfig) (BlobStore, error) {
	var (
		store BlobStore
		err   error
	)
	switch strings.ToLower(strings.TrimSpace(config.Backend)) {
	case "", "local":
		store, err = NewLocalStore(config.LocalRoot)
	case "s3":
		store, err = NewS3Store(config)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", config.Backend)
	}
	if err != nil {
		return nil, err
	}
	instance = store
	return store, nil
}

// KeyFromURI strips the scheme from a stored URI, recovering the blob key.
// s3 URIs carry the bucket as their first path element.
func KeyFromURI(uri string) string {
	i := strings.Index(uri, "://")
	if i < 0 {
		return strings.TrimPrefix(uri, "/")
	}
	scheme, rest := uri[:i], uri[i+3:]
	if scheme == "s3" {
		if j := strings.Index(rest, "/"); j >= 0 {
			rest = rest[j+1:]
		}
	}
	return strings.TrimPrefix(rest, "/")
}

func normalizeKey(key string) (string, error) {
	normalized := strings.TrimPrefix(strings.TrimSpace(key), "/")
	if normalized == "" {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	for _, part := range strings.Split(normalized, "/") {
		if part == "" || part == ".." {
			return "", fmt.Errorf("invalid storage key: %q", key)
		}
	}
	return normalized, nil
}
