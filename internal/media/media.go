// Package media stores uploaded property images and serves them back by key.
package media

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrNotFound is returned when no object exists under a key.
var ErrNotFound = errors.New("media: object not found")

// Upload is one image to persist.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Object is an opened stored image. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
}

// Store persists images under opaque keys.
type Store interface {
	Put(ctx context.Context, u Upload) (string, error)
	Open(ctx context.Context, key string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// URL is the public address of key under baseURL.
func URL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/media/" + key
}
