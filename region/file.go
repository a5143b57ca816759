// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import (
	"fmt"
	"os"
)

// File is a heap.Provider backed by an *os.File: Extend grows the file
// with Truncate, and reads/writes go straight through os.File's ReaderAt/
// WriterAt. It gives a heap a disk-backed region instead of process
// memory, useful for heaps larger than comfortably fits in RAM or for
// inspecting a heap's layout with an external tool after the fact.
//
// Adapted from lldb.OSFiler, dropping its BeginUpdate/EndUpdate/Rollback
// transaction nesting: a File only ever grows, there is nothing to commit
// or roll back.
type File struct {
	f    *os.File
	size int64
}

// NewFile returns a File over f, which must be empty. f's size is read via
// Stat; f is not truncated to 0 on the caller's behalf.
func NewFile(f *os.File) (*File, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() != 0 {
		return nil, fmt.Errorf("region: NewFile: %s is not empty (%d bytes)", f.Name(), fi.Size())
	}
	return &File{f: f}, nil
}

// Extend grows the file by delta bytes via Truncate.
func (r *File) Extend(delta int64) (oldEnd int64, err error) {
	if delta < 0 {
		return 0, fmt.Errorf("region: File.Extend: negative delta %d", delta)
	}
	oldEnd = r.size
	newSize := r.size + delta
	if err := r.f.Truncate(newSize); err != nil {
		return 0, err
	}
	r.size = newSize
	return oldEnd, nil
}

// Lo implements heap.Provider.
func (r *File) Lo() int64 { return 0 }

// Hi implements heap.Provider.
func (r *File) Hi() int64 { return r.size }

// Size implements heap.Provider.
func (r *File) Size() int64 { return r.size }

// Close syncs and closes the underlying file.
func (r *File) Close() error {
	if err := r.f.Sync(); err != nil {
		return err
	}
	return r.f.Close()
}

// ReadAt implements heap.Provider.
func (r *File) ReadAt(b []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(b)) > r.size {
		return 0, fmt.Errorf("region: File.ReadAt: read [%d, %d) exceeds size %d", off, off+int64(len(b)), r.size)
	}
	return r.f.ReadAt(b, off)
}

// WriteAt implements heap.Provider.
func (r *File) WriteAt(b []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(b)) > r.size {
		return 0, fmt.Errorf("region: File.WriteAt: write [%d, %d) exceeds size %d", off, off+int64(len(b)), r.size)
	}
	return r.f.WriteAt(b, off)
}
