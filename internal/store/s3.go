package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds S3/MinIO backend configuration.
type S3Config struct {
	Endpoint        string // "localhost:9000" for MinIO
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// S3 stores one JSON object per identifier under the agents/ prefix.
type S3 struct {
	client *minio.Client
	bucket string
}

const s3Prefix = "agents/"

// NewS3 creates the S3/MinIO backend.
func NewS3(config S3Config) (*S3, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &S3{client: client, bucket: config.Bucket}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (s *S3) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func (s *S3) object(id string) string {
	return path.Join(s3Prefix, id+".json")
}

// notFound reports whether a minio error means the object is absent.
func notFound(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
	}
	return false
}

func (s *S3) Put(ctx context.Context, id string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.object(id), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to put record: %w", err)
	}
	return nil
}

func (s *S3) Get(ctx context.Context, id string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, s.object(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	return data, nil
}

func (s *S3) Delete(ctx context.Context, id string) error {
	// RemoveObject succeeds on absent keys; stat first so deletes of
	// unknown identifiers report ErrNotFound.
	if _, err := s.client.StatObject(ctx, s.bucket, s.object(id), minio.StatObjectOptions{}); err != nil {
		if notFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to stat record: %w", err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, s.object(id), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

func (s *S3) List(ctx context.Context) ([]string, error) {
	var ids []string
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s3Prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list records: %w", object.Err)
		}
		name := path.Base(object.Key)
		if strings.HasSuffix(name, ".json") {
			ids = append(ids, strings.TrimSuffix(name, ".json"))
		}
	}
	return ids, nil
}
