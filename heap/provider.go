// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

// A Provider is a []byte-like model of an external brk-style heap-region
// extender: it maps a large, contiguous, monotonically growing region and
// exposes a one-directional grow primitive plus lo/hi/size introspection
// and byte-granular access.
//
// Provider is not safe for concurrent use, same as lldb.Filer upstream: a
// Provider is designed for consumption by a single Heap from one goroutine,
// or under an external mutex.
//
// Shrinking is not supported: Extend must never be called with a negative
// delta, and no method of this interface ever reduces Size().
type Provider interface {
	// Extend grows the usable span by delta bytes (delta >= 0) and returns
	// the address the span used to end at, the start of the newly usable
	// region. Extend(0) is a no-op read of the current end. Extend returns
	// a non-nil error, and must leave Size() unchanged, if the region
	// cannot grow (out of memory, address space exhausted, ...).
	Extend(delta int64) (oldEnd int64, err error)

	// Lo returns the address of the start of the region.
	Lo() int64

	// Hi returns the address one past the end of the region (Lo()+Size()).
	Hi() int64

	// Size returns Hi()-Lo().
	Size() int64

	// ReadAt reads len(b) bytes starting at off, 0 <= off, off+len(b) <= Size().
	ReadAt(b []byte, off int64) (int, error)

	// WriteAt writes len(b) bytes starting at off, 0 <= off, off+len(b) <= Size().
	WriteAt(b []byte, off int64) (int, error)

	// Close releases any resources held by the Provider. It does not
	// shrink or unmap already-committed pages except as a side effect of
	// final teardown.
	Close() error
}
