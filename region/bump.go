// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package region provides heap.Provider implementations: Bump, a
// memory-backed growable region, File, one backed by an *os.File, and
// Mmap, one backed by an anonymous mmap mapping.
package region

import (
	"fmt"
	"io"

	"github.com/cznic/mathutil"
)

const (
	pgBits = 12
	pgSize = 1 << pgBits
	pgMask = pgSize - 1
)

type pageMap map[int64]*[pgSize]byte

// Bump is an in-memory, paged, monotonically growing heap.Provider. It
// never shrinks: Extend is the only way its size changes. Bump is the
// paged-map twin of lldb.MemFiler, generalized from a random-access file
// emulator into a brk-style region that only ever grows from its high end.
type Bump struct {
	m    pageMap
	size int64
}

// NewBump returns an empty Bump, ready for heap.New.
func NewBump() *Bump {
	return &Bump{m: pageMap{}}
}

var zeroPage [pgSize]byte

// Extend grows the region by delta bytes (delta must be >= 0) and returns
// the size the region had before growing, i.e. the address at which the
// newly available bytes begin.
func (b *Bump) Extend(delta int64) (oldEnd int64, err error) {
	if delta < 0 {
		return 0, fmt.Errorf("region: Bump.Extend: negative delta %d", delta)
	}
	oldEnd = b.size
	b.size += delta
	return oldEnd, nil
}

// Lo implements heap.Provider: a Bump always starts at offset 0.
func (b *Bump) Lo() int64 { return 0 }

// Hi implements heap.Provider.
func (b *Bump) Hi() int64 { return b.size }

// Size implements heap.Provider.
func (b *Bump) Size() int64 { return b.size }

// Close implements heap.Provider. Bump holds no external resources, so
// Close only releases the backing pages for the garbage collector.
func (b *Bump) Close() error {
	b.m = nil
	return nil
}

// ReadAt implements heap.Provider.
func (b *Bump) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 || off > b.size {
		return 0, fmt.Errorf("region: Bump.ReadAt: offset %d out of range [0, %d]", off, b.size)
	}

	avail := b.size - off
	pgI := off >> pgBits
	pgO := int(off & pgMask)
	rem := len(p)
	if int64(rem) > avail {
		rem = int(avail)
		err = io.EOF
	}
	for rem != 0 {
		pg := b.m[pgI]
		if pg == nil {
			pg = &zeroPage
		}
		nc := copy(p[:mathutil.Min(rem, pgSize-pgO)], pg[pgO:])
		pgI++
		pgO = 0
		rem -= nc
		n += nc
		p = p[nc:]
	}
	return n, err
}

// WriteAt implements heap.Provider. Writing past the current size is
// rejected: callers must Extend first, matching the append-only contract
// of a brk-style region.
func (b *Bump) WriteAt(p []byte, off int64) (n int, err error) {
	if off < 0 || off+int64(len(p)) > b.size {
		return 0, fmt.Errorf("region: Bump.WriteAt: write [%d, %d) exceeds size %d", off, off+int64(len(p)), b.size)
	}

	pgI := off >> pgBits
	pgO := int(off & pgMask)
	n = len(p)
	rem := n
	for rem != 0 {
		pg := b.m[pgI]
		if pg == nil {
			pg = new([pgSize]byte)
			b.m[pgI] = pg
		}
		nc := copy((*pg)[pgO:], p)
		pgI++
		pgO = 0
		rem -= nc
		p = p[nc:]
	}
	return n, nil
}
