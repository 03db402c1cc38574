// Package storage wraps the MinIO client for S3-compatible object storage.
//
// The Client interface carries only what the CSV sheet backend needs, so tests
// can substitute core/storage/mocks.
//
//	client, err := storage.NewClient(cfg)
//	err = storage.EnsureBucket(ctx, client, cfg.Bucket)
package storage
