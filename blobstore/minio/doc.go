// Package minio stores vector sets and reports on MinIO or another
// S3-compatible server (Ceph, Garage, SeaweedFS) through the MinIO client.
//
//	store, err := minio.Dial(ctx, minio.Config{
//	    Endpoint:     "localhost:9000",
//	    AccessKey:    "minioadmin",
//	    SecretKey:    "minioadmin",
//	    Bucket:       "fpgold",
//	    Prefix:       "nightly/",
//	    CreateBucket: true,
//	})
//
// It needs no AWS configuration, which suits air-gapped verification labs.
package minio
