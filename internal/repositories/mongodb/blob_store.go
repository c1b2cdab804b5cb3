package mongodb

import (
	"context"
	"io"

	"github.com/ArowuTest/scratchcard-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.BlobStore = (*BlobStore)(nil)

// BlobStore keeps uploaded CNIC images in a GridFS bucket
type BlobStore struct {
	db     *mongo.Database
	bucket string
}

// NewBlobStore creates a BlobStore over the named bucket
func NewBlobStore(db *mongo.Database, bucket string) *BlobStore {
	return &BlobStore{db: db, bucket: bucket}
}

// open returns a bucket that honours the deadline of ctx.
// Deadlines are per bucket value, so each call gets its own.
func (s *BlobStore) open(ctx context.Context) (*gridfs.Bucket, error) {
	bucket, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(s.bucket))
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := bucket.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
		if err := bucket.SetWriteDeadline(deadline); err != nil {
			return nil, err
		}
	}
	return bucket, nil
}

// Put streams r into the bucket and returns the file id
func (s *BlobStore) Put(ctx context.Context, filename, contentType string, r io.Reader) (primitive.ObjectID, error) {
	bucket, err := s.open(ctx)
	if err != nil {
		return primitive.NilObjectID, err
	}
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	id, err := bucket.UploadFromStream(filename, r, opts)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return id, nil
}

// Open returns a reader over a stored file
func (s *BlobStore) Open(ctx context.Context, id primitive.ObjectID) (*repositories.Blob, error) {
	bucket, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	stream, err := bucket.OpenDownloadStream(id)
	if err != nil {
		return nil, mapError(err)
	}

	file := stream.GetFile()
	contentType := "application/octet-stream"
	if len(file.Metadata) > 0 {
		if value, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok && value != "" {
			contentType = value
		}
	}
	return &repositories.Blob{
		ReadCloser:  stream,
		ContentType: contentType,
		Length:      file.Length,
	}, nil
}

// Delete removes a stored file and its chunks
func (s *BlobStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	bucket, err := s.open(ctx)
	if err != nil {
		return err
	}
	return mapError(bucket.Delete(id))
}
