// Package cache provides the byte-bounded LRU behind blobstore.CachingStore.
//
// A check run reads the same vector sets once per rounding mode; keeping the
// decoded bytes in memory avoids refetching them from object storage.
package cache
