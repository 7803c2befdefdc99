// Package mmap maps vector-set files read-only so a local blob store can
// serve them without copying.
//
//	m, err := mmap.Open("vectors/fp16-1a2b.fpgv")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// On Unix the mapping uses mmap(2) and madvise(2); on Windows it uses
// CreateFileMapping and MapViewOfFile, and Advise is a no-op.
package mmap
