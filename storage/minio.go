package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"distr/config"
	"distr/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectInfo is the subset of object metadata the handlers need.
type ObjectInfo struct {
	Size        int64
	ContentType string
}

// Store wraps the MinIO client with the two catalog buckets.
type Store struct {
	client       *minio.Client
	CoversBucket string
	SongsBucket  string
}

// Connect initializes the MinIO client and, when configured, creates the
// covers and songs buckets.
func Connect(cfg *config.Config) (*Store, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store := &Store{
		client:       client,
		CoversBucket: cfg.MinioCoversBucket,
		SongsBucket:  cfg.MinioSongsBucket,
	}

	if cfg.MinioAutoCreate {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, bucket := range []string{store.CoversBucket, store.SongsBucket} {
			if err := store.ensureBucket(ctx, bucket, cfg.MinioRegion); err != nil {
				return nil, err
			}
		}
	}

	logger.Info("MinIO store initialized",
		logger.String("coversBucket", store.CoversBucket),
		logger.String("songsBucket", store.SongsBucket))
	return store, nil
}

func (s *Store) ensureBucket(ctx context.Context, bucket, region string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	logger.Info("bucket created", logger.String("bucket", bucket))
	return nil
}

// Put uploads an object.
func (s *Store) Put(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Get returns a streaming reader for an object. The caller must close it.
func (s *Store) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s/%s: %w", bucket, key, err)
	}
	return object, nil
}

// Stat returns size and content type of an object.
func (s *Store) Stat(ctx context.Context, bucket, key string) (ObjectInfo, error) {
	stat, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("failed to stat %s/%s: %w", bucket, key, err)
	}
	return ObjectInfo{Size: stat.Size, ContentType: stat.ContentType}, nil
}

// Move copies an object to another bucket and removes the original.
func (s *Store) Move(ctx context.Context, srcBucket, dstBucket, key string) error {
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: dstBucket, Object: key},
		minio.CopySrcOptions{Bucket: srcBucket, Object: key},
	)
	if err != nil {
		return fmt.Errorf("failed to copy %s from %s to %s: %w", key, srcBucket, dstBucket, err)
	}

	if err := s.client.RemoveObject(ctx, srcBucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s/%s after copy: %w", srcBucket, key, err)
	}
	return nil
}

// Remove deletes an object.
func (s *Store) Remove(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", bucket, key, err)
	}
	return nil
}
