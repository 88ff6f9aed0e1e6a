// Package storage contains the blob backends. Catalog rows reference blobs by
// the path value returned from Allocate; derivatives live at sibling paths
// built by suffixing the original path.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a blob path has no content behind it.
var ErrNotFound = errors.New("blob not found")

// BlobStore reads and writes raw file bytes outside the catalog.
type BlobStore interface {
	// Allocate returns a new unique path a blob can be written to.
	Allocate() string
	// Write stores data at path, overwriting any previous content.
	Write(ctx context.Context, path string, data []byte) error
	// Read returns the content at path or ErrNotFound.
	Read(ctx context.Context, path string) ([]byte, error)
	// Exists reports whether path has content.
	Exists(ctx context.Context, path string) (bool, error)
}
