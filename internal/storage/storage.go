package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/BruksfildServices01/asset-tracker/internal/config"
)

var ErrNotFound = errors.New("object not found")

// Storage persists generated media such as barcode images.
type Storage interface {
	// Save writes data under key and returns the public URL of the object.
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL reverses Save's URL; ok is false for URLs this storage did not produce.
	KeyFromURL(url string) (key string, ok bool)
}

func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case config.StorageLocal:
		return NewLocal(cfg.MediaRoot, cfg.MediaURL)
	case config.StorageS3:
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
