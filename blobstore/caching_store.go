package blobstore

import (
	"context"

	"github.com/hupe1980/fpgold/internal/cache"
	"golang.org/x/sync/singleflight"
)

// CachingStore is a read-through cache of whole blobs in front of another
// store. Writes and deletes go straight through and invalidate the entry.
type CachingStore struct {
	inner BlobStore
	lru   *cache.LRU
	group singleflight.Group
}

// NewCachingStore wraps inner with an LRU of capacity bytes.
func NewCachingStore(inner BlobStore, capacity int64) *CachingStore {
	return &CachingStore{inner: inner, lru: cache.NewLRU(capacity)}
}

// Stats returns the cache hit and miss counts.
func (s *CachingStore) Stats() (hits, misses int64) { return s.lru.Stats() }

// Open serves the blob from the cache, fetching it whole on a miss.
// Concurrent misses for the same name share one fetch.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.lru.Get(name); ok {
		return &memoryBlob{data: data}, nil
	}
	v, err, _ := s.group.Do(name, func() (any, error) {
		data, err := ReadAll(ctx, s.inner, name)
		if err != nil {
			return nil, err
		}
		s.lru.Set(name, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return &memoryBlob{data: v.([]byte)}, nil
}

func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.lru.Remove(name)
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &invalidatingBlob{WritableBlob: w, lru: s.lru, name: name}, nil
}

func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	defer s.lru.Remove(name)
	return s.inner.Put(ctx, name, data)
}

func (s *CachingStore) Delete(ctx context.Context, name string) error {
	defer s.lru.Remove(name)
	return s.inner.Delete(ctx, name)
}

func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

type invalidatingBlob struct {
	WritableBlob
	lru  *cache.LRU
	name string
}

func (w *invalidatingBlob) Close() error {
	defer w.lru.Remove(w.name)
	return w.WritableBlob.Close()
}
