package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ Store = (*GridFSStore)(nil)

// NewMongoClient connects to uri and pings the deployment.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Println("connected to MongoDB")
	return client, nil
}

// GridFSStore keeps images in a MongoDB GridFS bucket. Keys are ObjectID hex strings.
type GridFSStore struct {
	bucket *gridfs.Bucket
}

// NewGridFSStore opens the default "fs" bucket in database.
func NewGridFSStore(client *mongo.Client, database string) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(client.Database(database))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &GridFSStore{bucket: bucket}, nil
}

func (s *GridFSStore) Put(ctx context.Context, u Upload) (string, error) {
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: u.ContentType}})
	stream, err := s.bucket.OpenUploadStream(u.Filename, opts)
	if err != nil {
		return "", fmt.Errorf("open upload stream: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		stream.SetWriteDeadline(deadline)
	}
	if _, err := io.Copy(stream, u.Body); err != nil {
		stream.Abort()
		return "", fmt.Errorf("upload image: %w", err)
	}
	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return stream.FileID.(primitive.ObjectID).Hex(), nil
}

func (s *GridFSStore) Open(ctx context.Context, key string) (Object, error) {
	id, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		return Object{}, ErrNotFound
	}
	stream, err := s.bucket.OpenDownloadStream(id)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return Object{}, ErrNotFound
		}
		return Object{}, fmt.Errorf("open download stream: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		stream.SetReadDeadline(deadline)
	}
	ct := "application/octet-stream"
	if file := stream.GetFile(); file != nil && file.Metadata != nil {
		if v, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok && v != "" {
			ct = v
		}
	}
	return Object{Body: stream, ContentType: ct}, nil
}

func (s *GridFSStore) Delete(ctx context.Context, key string) error {
	id, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		return ErrNotFound
	}
	if err := s.bucket.DeleteContext(ctx, id); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}
