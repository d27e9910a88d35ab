package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"country-pipeline/core/storage"
	"country-pipeline/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "raw/outputs/countries_20240101T000000Z.csv", storage.ObjectKey("raw/outputs", "/tmp/out/countries_20240101T000000Z.csv"))
	assert.Equal(t, "raw/outputs/a.sql", storage.ObjectKey("raw/outputs/", "a.sql"))
	assert.Equal(t, "a.sql", storage.ObjectKey("", "sql/a.sql"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", storage.ContentType("x.CSV"))
	assert.Equal(t, "application/vnd.apache.parquet", storage.ContentType("x.parquet"))
	assert.Equal(t, "application/sql", storage.ContentType("countries_upsert.sql"))
	assert.Equal(t, "application/octet-stream", storage.ContentType("noext"))
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "b").Return(true, nil)

		require.NoError(t, storage.EnsureBucket(ctx, m, "b", ""))
		m.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "b").Return(false, nil)
		m.On("MakeBucket", ctx, "b", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		require.NoError(t, storage.EnsureBucket(ctx, m, "b", "eu-west-1"))
		m.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		m := new(mocks.Client)
		boom := errors.New("unreachable")
		m.On("BucketExists", ctx, "b").Return(false, boom)

		assert.ErrorIs(t, storage.EnsureBucket(ctx, m, "b", ""), boom)
	})

	t.Run("NoBucket", func(t *testing.T) {
		assert.ErrorIs(t, storage.EnsureBucket(ctx, new(mocks.Client), "", ""), storage.ErrNoBucket)
	})
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "countries_20240101T000000Z.csv")
	sqlPath := filepath.Join(dir, "countries_upsert.sql")
	require.NoError(t, os.WriteFile(csvPath, []byte("cca3\nUSA\n"), 0o644))
	require.NoError(t, os.WriteFile(sqlPath, []byte("INSERT;"), 0o644))

	cfg := storage.Config{Bucket: "countries", Prefix: "raw/outputs"}

	m := new(mocks.Client)
	m.On("BucketExists", ctx, "countries").Return(true, nil)
	m.On("PutObject", ctx, "countries", "raw/outputs/countries_20240101T000000Z.csv", mock.Anything, int64(9),
		minio.PutObjectOptions{ContentType: "text/csv"}).Return(minio.UploadInfo{}, nil)
	m.On("PutObject", ctx, "countries", "raw/outputs/countries_upsert.sql", mock.Anything, int64(7),
		minio.PutObjectOptions{ContentType: "application/sql"}).Return(minio.UploadInfo{}, nil)

	keys, err := storage.Publish(ctx, m, cfg, []string{csvPath, sqlPath}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"raw/outputs/countries_20240101T000000Z.csv",
		"raw/outputs/countries_upsert.sql",
	}, keys)
	m.AssertExpectations(t)
}

func TestPublish_StopsOnFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	good := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(good, []byte("x"), 0o644))

	m := new(mocks.Client)
	m.On("BucketExists", ctx, "countries").Return(true, nil)
	m.On("PutObject", ctx, "countries", "a.csv", mock.Anything, int64(1), mock.Anything).Return(minio.UploadInfo{}, nil)

	keys, err := storage.Publish(ctx, m, storage.Config{Bucket: "countries"}, []string{good, filepath.Join(dir, "missing.csv")}, zap.NewNop())
	assert.Error(t, err)
	assert.Equal(t, []string{"a.csv"}, keys)
}
