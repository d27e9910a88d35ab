// Package storage publishes pipeline artifacts to object storage.
//
// It wraps the MinIO Go client, which speaks to both AWS S3 and self-hosted
// MinIO instances.
//
// # Client Interface
//
// The Client interface is the subset of *minio.Client the pipeline needs,
// making it easy to mock storage interactions for unit testing (as seen in
// core/storage/mocks).
//
// # Operations
//
//   - EnsureBucket: creates the target bucket on first use.
//   - Publish: uploads files under "<prefix>/<file name>" with a content
//     type derived from the extension.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	keys, err := storage.Publish(ctx, client, cfg.Storage, paths, logger)
package storage
