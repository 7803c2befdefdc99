package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/hupe1980/fpgold/blobstore"
	miniostore "github.com/hupe1980/fpgold/blobstore/minio"
	s3store "github.com/hupe1980/fpgold/blobstore/s3"
)

// openStore opens a blob store from a URI:
//
//	s3://bucket/prefix      AWS S3 (default credential chain, FPGOLD_S3_ENDPOINT)
//	minio://bucket/prefix   MinIO (FPGOLD_MINIO_ENDPOINT, _ACCESS_KEY, _SECRET_KEY, _SECURE, _REGION)
//	file:///path, /path     local directory
func openStore(ctx context.Context, uri string) (blobstore.BlobStore, error) {
	switch {
	case uri == "":
		return nil, errors.New("no store configured (-store)")
	case strings.HasPrefix(uri, "s3://"):
		bucket, prefix := splitBucket(strings.TrimPrefix(uri, "s3://"))
		opts := []s3store.Option{s3store.WithPrefix(prefix)}
		if ep := os.Getenv("FPGOLD_S3_ENDPOINT"); ep != "" {
			opts = append(opts, s3store.WithEndpoint(ep))
		}
		if region := os.Getenv("FPGOLD_S3_REGION"); region != "" {
			opts = append(opts, s3store.WithRegion(region))
		}
		return s3store.New(ctx, bucket, opts...)
	case strings.HasPrefix(uri, "minio://"):
		bucket, prefix := splitBucket(strings.TrimPrefix(uri, "minio://"))
		return miniostore.Dial(ctx, miniostore.Config{
			Endpoint:     getenv("FPGOLD_MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:    os.Getenv("FPGOLD_MINIO_ACCESS_KEY"),
			SecretKey:    os.Getenv("FPGOLD_MINIO_SECRET_KEY"),
			Secure:       os.Getenv("FPGOLD_MINIO_SECURE") == "true",
			Region:       os.Getenv("FPGOLD_MINIO_REGION"),
			Bucket:       bucket,
			Prefix:       prefix,
			CreateBucket: true,
		})
	}
	return blobstore.NewLocalStore(strings.TrimPrefix(uri, "file://")), nil
}

func splitBucket(s string) (bucket, prefix string) {
	bucket, prefix, _ = strings.Cut(s, "/")
	return bucket, prefix
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
