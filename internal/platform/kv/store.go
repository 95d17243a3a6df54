// Package kv abstracts the key-value document store backing the storefront.
// Two implementations exist: an in-process memory store used by tests and
// single-node deployments, and a Redis store for anything shared.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is the minimal document contract entity repositories build on.
// Values are opaque byte slices; callers own the encoding.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
