// Package blobstore abstracts where vector sets, check reports and other run
// artifacts are kept.
//
// # Implementations
//
//   - LocalStore: files under a root directory, read through mmap
//   - MemoryStore: in-process map, for tests and dry runs
//   - CachingStore: read-through LRU in front of any other store
//   - s3.Store: Amazon S3 with CRC32C-checked puts and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// Blobs are immutable once published. Put and WritableBlob.Close make a blob
// visible atomically; readers never see a partial object.
//
//	store := blobstore.NewLocalStore("./artifacts")
//	if err := store.Put(ctx, "vectors/fp16-1a2b.fpgv", data); err != nil { ... }
//	data, err := blobstore.ReadAll(ctx, store, "vectors/fp16-1a2b.fpgv")
package blobstore
