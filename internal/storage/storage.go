// Package storage is the device-local key/value store the session survives
// restarts in.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

// Store persists string values under string keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
