package storage

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
)

// GridFS keeps objects in a MongoDB GridFS bucket. Refs are ObjectID hex
// strings; URLs point at the HTTP route that streams them back.
type GridFS struct {
	bucket  *gridfs.Bucket
	BaseURL string
}

// ConnectMongo dials and pings MongoDB.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func NewGridFS(db *mongo.Database, baseURL string) (*GridFS, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("listing_images"))
	if err != nil {
		return nil, err
	}
	return &GridFS{bucket: bucket, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *GridFS) Put(ctx context.Context, folder, name, contentType string, data []byte) (Object, error) {
	if dl, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(dl); err != nil {
			return Object{}, err
		}
	}
	filename := cleanFolder(folder) + "/" + objectName(name, contentType)
	opts := options.GridFSUpload().SetMetadata(bson.D{
		{Key: "folder", Value: cleanFolder(folder)},
		{Key: "content_type", Value: contentType},
	})
	id, err := s.bucket.UploadFromStream(filename, bytes.NewReader(data), opts)
	if err != nil {
		return Object{}, fmt.Errorf("gridfs upload: %w", err)
	}
	ref := id.Hex()
	return Object{URL: s.BaseURL + "/" + ref, Ref: ref}, nil
}

func (s *GridFS) Delete(ctx context.Context, ref string) error {
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return fmt.Errorf("delete %q: %w", ref, ErrNotFound)
	}
	if dl, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(dl); err != nil {
			return err
		}
	}
	if err := s.bucket.Delete(id); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("delete %q: %w", ref, ErrNotFound)
		}
		return fmt.Errorf("gridfs delete: %w", err)
	}
	return nil
}

// Open streams an object back with its recorded content type.
func (s *GridFS) Open(ctx context.Context, ref string) (io.ReadCloser, string, error) {
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil, "", ErrNotFound
	}
	if dl, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetReadDeadline(dl); err != nil {
			return nil, "", err
		}
	}
	stream, err := s.bucket.OpenDownloadStream(id)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("gridfs open: %w", err)
	}
	contentType := "application/octet-stream"
	if f := stream.GetFile(); f != nil && f.Metadata != nil {
		if ct, ok := f.Metadata.Lookup("content_type").StringValueOK(); ok && ct != "" {
			contentType = ct
		}
	}
	return stream, contentType, nil
}
