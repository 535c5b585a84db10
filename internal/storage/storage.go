// Package storage hosts user-uploaded images and hands back public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hirely-app/hirely-api/internal/config"
)

// Uploader stores an object under key and returns the URL it is served from.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// New builds the uploader selected by STORAGE_DRIVER.
func New(cfg config.StorageConfig) (Uploader, error) {
	switch cfg.Driver {
	case config.StorageS3:
		return NewS3Storage(cfg)
	case config.StorageLocal:
		return NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func publicURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(key, "/")
}
