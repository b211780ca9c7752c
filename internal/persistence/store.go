package persistence

import (
	"context"

	"github.com/petrijr/canvas/pkg/api"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = api.ErrNotFound

// ByteStore is the persistence medium for serialized workflows. Values are
// opaque bytes; a Put replaces the whole value under a key.
type ByteStore interface {
	// Get returns the bytes stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every stored key in sorted order.
	Keys(ctx context.Context) ([]string, error)
}
