// Package storage persists uploaded profile images.
package storage

import (
	"context"
	"fmt"
	"net/http"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

// BucketStore writes assets to a gocloud blob bucket. The bucket URL selects
// the backend, e.g. file:///var/lib/blog/images or mem://.
type BucketStore struct {
	bucket *blob.Bucket
}

// OpenBucket opens the bucket addressed by url.
func OpenBucket(ctx context.Context, url string) (*BucketStore, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open bucket %q: %w", url, err)
	}
	return &BucketStore{bucket: bucket}, nil
}

// NewBucketStore wraps an already opened bucket.
func NewBucketStore(bucket *blob.Bucket) *BucketStore {
	return &BucketStore{bucket: bucket}
}

// WriteBytes stores data under name, replacing any existing object.
func (s *BucketStore) WriteBytes(ctx context.Context, name string, data []byte) error {
	opts := &blob.WriterOptions{ContentType: http.DetectContentType(data)}
	if err := s.bucket.WriteAll(ctx, name, data, opts); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Ping checks that the bucket is reachable.
func (s *BucketStore) Ping(ctx context.Context) error {
	ok, err := s.bucket.IsAccessible(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket not accessible")
	}
	return nil
}

func (s *BucketStore) Close() error {
	return s.bucket.Close()
}
