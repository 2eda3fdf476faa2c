package ports

import (
	"context"
	"io"
)

// StoredBlob identifies an uploaded file and the stable URL it is served from.
type StoredBlob struct {
	ID  string
	URL string
}

// BlobStore stores opaque image files.
type BlobStore interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (StoredBlob, error)
	// Open returns the file contents and its content type. Returns
	// domain.ErrBlobNotFound when id is unknown.
	Open(ctx context.Context, id string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, id string) error
}
