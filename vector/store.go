package vector

import (
	"context"
	"fmt"

	"github.com/hupe1980/fpgold/blobstore"
)

// Save encodes the set and stores it under its content-addressed name.
// It returns the name and the number of bytes written.
func Save(ctx context.Context, store blobstore.BlobStore, s Set, opts WriterOptions) (string, int, error) {
	data, err := s.Encode(opts)
	if err != nil {
		return "", 0, err
	}
	name := s.Name()

	w, err := store.Create(ctx, name)
	if err != nil {
		return "", 0, fmt.Errorf("vector: create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", 0, fmt.Errorf("vector: write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", 0, fmt.Errorf("vector: close %s: %w", name, err)
	}
	return name, len(data), nil
}

// Load reads and decodes the named set.
func Load(ctx context.Context, store blobstore.BlobStore, name string) (Set, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return Set{}, fmt.Errorf("vector: read %s: %w", name, err)
	}
	s, err := Decode(data)
	if err != nil {
		return Set{}, fmt.Errorf("vector: %s: %w", name, err)
	}
	return s, nil
}

// List returns the names of the stored sets.
func List(ctx context.Context, store blobstore.BlobStore) ([]string, error) {
	return store.List(ctx, "vectors/")
}
