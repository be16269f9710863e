package storage

import (
	"context"
	"fmt"
	"io"

	"message_wall/internal/platform/config"
)

// Storage persists uploaded files and returns the URL clients fetch them from.
type Storage interface {
	Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// New picks the backend named by cfg.StorageBackend.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.StorageBackend {
	case "", "local":
		return NewLocalStorage(cfg.UploadDir, "/uploads")
	case "s3":
		return NewS3Storage(S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		}), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
