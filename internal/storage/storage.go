package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/USA-RedDragon/obs-remote/internal/config"
	"github.com/go-errors/errors"
)

var ErrNotFound = errors.New("object not found")

// Storage keeps screenshot images under flat keys.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (int64, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

func NewStorage(ctx context.Context, cfg *config.Config) (Storage, error) {
	screenshots := cfg.Persistence.Screenshots
	switch screenshots.Driver {
	case config.ScreenshotsDriverFilesystem:
		root := screenshots.Directory
		err := os.MkdirAll(root, 0755)
		if err != nil {
			return nil, fmt.Errorf("failed to create screenshots directory: %w", err)
		}
		return NewFilesystem(root)
	case config.ScreenshotsDriverS3:
		client, err := newS3Client(ctx, screenshots.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		return NewS3(screenshots.S3.Bucket, client), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", screenshots.Driver)
	}
}
