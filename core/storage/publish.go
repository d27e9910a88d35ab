package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ErrNoBucket is returned when no bucket name is configured.
var ErrNoBucket = errors.New("storage: bucket name is empty")

var contentTypes = map[string]string{
	".csv":     "text/csv",
	".json":    "application/json",
	".parquet": "application/vnd.apache.parquet",
	".sql":     "application/sql",
	".xlsx":    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ContentType returns the upload content type for a file name.
func ContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ObjectKey returns "<prefix>/<base name of file>".
func ObjectKey(prefix, file string) string {
	return strings.TrimPrefix(path.Join(prefix, filepath.Base(file)), "/")
}

// EnsureBucket creates bucket if it does not exist yet.
func EnsureBucket(ctx context.Context, client Client, bucket, region string) error {
	if bucket == "" {
		return ErrNoBucket
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}

// Publish uploads every file to bucket under prefix and returns the object
// keys in input order. It stops at the first failed upload.
func Publish(ctx context.Context, client Client, cfg Config, files []string, logger *zap.Logger) ([]string, error) {
	if err := EnsureBucket(ctx, client, cfg.Bucket, cfg.Region); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(files))
	for _, file := range files {
		key, err := putFile(ctx, client, cfg.Bucket, ObjectKey(cfg.Prefix, file), file, logger)
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func putFile(ctx context.Context, client Client, bucket, key, file string, logger *zap.Logger) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", file, err)
	}

	contentType := ContentType(file)
	if _, err := client.PutObject(ctx, bucket, key, f, info.Size(), minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", file, err)
	}

	logger.Info("Uploaded artifact",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.String("size", humanize.Bytes(uint64(info.Size()))),
	)
	return key, nil
}
