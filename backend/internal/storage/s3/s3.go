// Package s3 keeps uploaded files in an S3 compatible bucket.
package s3

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/itchan-dev/modcore/backend/internal/service"
	"github.com/itchan-dev/modcore/shared/config"
	"github.com/itchan-dev/modcore/shared/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectClient is the part of *minio.Client the storage needs.
type objectClient interface {
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type Storage struct {
	client objectClient
	bucket string
	prefix string
}

var _ service.MediaStorage = (*Storage)(nil)

// New connects to the bucket and fails when it does not exist. Without keys
// the IAM role of the host is used.
func New(ctx context.Context, media config.Media, keys config.S3) (*Storage, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(media.Endpoint, "https://"), "http://")

	var creds *credentials.Credentials
	if keys.AccessKey == "" || keys.SecretKey == "" {
		creds = credentials.NewIAM("")
	} else {
		creds = credentials.NewStaticV4(keys.AccessKey, keys.SecretKey, "")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: media.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, media.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", media.Bucket)
	}
	logger.Log.Info("using s3 media storage", "endpoint", endpoint, "bucket", media.Bucket)

	return newWithClient(client, media.Bucket, media.Root), nil
}

func newWithClient(client objectClient, bucket, prefix string) *Storage {
	return &Storage{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// key maps a stored path like /b/src/1.png to an object key.
func (s *Storage) key(filePath string) string {
	clean := strings.TrimPrefix(path.Clean("/"+filePath), "/")
	if s.prefix == "" {
		return clean
	}
	return s.prefix + "/" + clean
}

// DeleteFile removes an object. RemoveObject succeeds for missing keys, so the
// object is looked up first and a missing one is reported.
func (s *Storage) DeleteFile(ctx context.Context, filePath string) error {
	key := s.key(filePath)
	if key == "" || strings.HasSuffix(key, "/") {
		return fmt.Errorf("invalid media path %q", filePath)
	}

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return fmt.Errorf("failed to stat object %s: %w", key, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}
