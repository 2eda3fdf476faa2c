package mongo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

const bucketImages = "images"

// GridFSBlobStore implements ports.BlobStore on a GridFS bucket. Stored files
// are served by the API under baseURL + "/uploads/<id>".
type GridFSBlobStore struct {
	db      *mongo.Database
	baseURL string
}

func NewGridFSBlobStore(db *mongo.Database, baseURL string) (*GridFSBlobStore, error) {
	if db == nil {
		return nil, errors.New("gridfs bucket: nil database")
	}
	return &GridFSBlobStore{db: db, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// bucket returns a bucket owned by a single call. gridfs.Bucket keeps its
// deadlines and buffers in unsynchronized fields, so it is never shared.
func (s *GridFSBlobStore) bucket() (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(bucketImages))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return b, nil
}

// URLFor returns the public URL of a stored blob.
func (s *GridFSBlobStore) URLFor(id string) string {
	return s.baseURL + "/uploads/" + id
}

func (s *GridFSBlobStore) Upload(ctx context.Context, filename, contentType string, data []byte) (ports.StoredBlob, error) {
	bucket, err := s.bucket()
	if err != nil {
		return ports.StoredBlob{}, err
	}
	if err := bucket.SetWriteDeadline(deadline(ctx)); err != nil {
		return ports.StoredBlob{}, err
	}
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "content_type", Value: contentType}})
	id, err := bucket.UploadFromStream(filename, bytes.NewReader(data), opts)
	if err != nil {
		return ports.StoredBlob{}, fmt.Errorf("upload blob: %w", err)
	}
	return ports.StoredBlob{ID: id.Hex(), URL: s.URLFor(id.Hex())}, nil
}

func (s *GridFSBlobStore) Open(ctx context.Context, id string) (io.ReadCloser, string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, "", domain.ErrBlobNotFound
	}
	bucket, err := s.bucket()
	if err != nil {
		return nil, "", err
	}
	if err := bucket.SetReadDeadline(deadline(ctx)); err != nil {
		return nil, "", err
	}

	stream, err := bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, "", domain.ErrBlobNotFound
		}
		return nil, "", fmt.Errorf("open blob: %w", err)
	}

	contentType := "application/octet-stream"
	if meta := stream.GetFile().Metadata; meta != nil {
		if v, ok := meta.Lookup("content_type").StringValueOK(); ok && v != "" {
			contentType = v
		}
	}
	return stream, contentType, nil
}

func (s *GridFSBlobStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBlobNotFound
	}
	bucket, err := s.bucket()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithDeadline(ctx, deadline(ctx))
	defer cancel()
	if err := bucket.DeleteContext(ctx, oid); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return domain.ErrBlobNotFound
		}
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// deadline bounds GridFS calls, which take deadlines rather than contexts.
func deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Now().Add(defaultTimeout)
}
