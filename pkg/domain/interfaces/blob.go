package interfaces

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// ErrBlobNotFound is returned by BlobStore.Get when nothing is stored under the key
var ErrBlobNotFound = goerr.New("blob not found")

// BlobStore persists opaque values under fixed keys. A Put overwrites the
// whole value; backends must not expose a partially written value.
type BlobStore interface {
	// Get returns the value stored under key, or an error wrapping ErrBlobNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key
	Put(ctx context.Context, key string, data []byte) error

	Close() error
}
