package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/linesmerrill/telehealth-api/config"
)

var (
	// ErrObjectNotFound is returned when the path does not exist in the zone
	ErrObjectNotFound = errors.New("object not found")
	// ErrNotSupported is returned by backends that cannot serve an operation
	ErrNotSupported = errors.New("operation not supported by storage backend")
)

// Object is a downloaded object. The caller closes Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Store is an object store addressed by slash separated paths
type Store interface {
	Upload(ctx context.Context, path, contentType, checksum string, data []byte) (string, error)
	Download(ctx context.Context, path string) (*Object, error)
	Delete(ctx context.Context, path string) error
}

// APIError is the error body returned by the storage API
type APIError struct {
	HTTPCode int    `json:"HttpCode"`
	Message  string `json:"Message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storage responded %d: %s", e.HTTPCode, e.Message)
}

// New builds the backend named by conf.Backend
func New(conf config.StorageConfig) (Store, error) {
	switch strings.ToLower(conf.Backend) {
	case "", "bunny":
		if conf.Zone == "" || conf.AccessKey == "" {
			return nil, fmt.Errorf("storage zone and access key are required for the bunny backend")
		}
		return NewBunny(conf, nil), nil
	case "cloudinary":
		return NewCloudinary(conf.CloudinaryURL)
	}
	return nil, fmt.Errorf("unknown storage backend %q", conf.Backend)
}
