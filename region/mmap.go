// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Mmap is a heap.Provider backed by a single anonymous mmap mapping,
// reserved up front at some capacity and grown logically from there:
// Extend never calls mmap again, it only advances the in-use length
// within the already-mapped pages. This avoids the address instability a
// realloc-style mmap(MAP_FIXED) remap would introduce.
//
// Grounded on the mmap(2)-via-syscall pattern used to back a file-mapped
// region elsewhere in the example pack, adapted here to an anonymous,
// private mapping with no backing file.
type Mmap struct {
	data []byte
	size int64
}

// NewMmap reserves capacity bytes of anonymous memory and returns an empty
// Mmap region over it. capacity bounds the total the region can ever grow
// to via Extend.
func NewMmap(capacity int64) (*Mmap, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("region: NewMmap: capacity must be positive, got %d", capacity)
	}

	data, err := unix.Mmap(-1, 0, int(capacity), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("region: NewMmap: %w", err)
	}
	return &Mmap{data: data}, nil
}

// Extend grows the region by delta bytes, failing if doing so would
// exceed the capacity reserved by NewMmap.
func (m *Mmap) Extend(delta int64) (oldEnd int64, err error) {
	if delta < 0 {
		return 0, fmt.Errorf("region: Mmap.Extend: negative delta %d", delta)
	}
	if m.size+delta > int64(len(m.data)) {
		return 0, fmt.Errorf("region: Mmap.Extend: reserved capacity %d exhausted (have %d, want %d more)", len(m.data), m.size, delta)
	}
	oldEnd = m.size
	m.size += delta
	return oldEnd, nil
}

// Lo implements heap.Provider.
func (m *Mmap) Lo() int64 { return 0 }

// Hi implements heap.Provider.
func (m *Mmap) Hi() int64 { return m.size }

// Size implements heap.Provider.
func (m *Mmap) Size() int64 { return m.size }

// Close unmaps the region. The Mmap must not be used afterwards.
func (m *Mmap) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}

// ReadAt implements heap.Provider.
func (m *Mmap) ReadAt(b []byte, off int64) (int, error) {
	if off < 0 || off > m.size {
		return 0, fmt.Errorf("region: Mmap.ReadAt: offset %d out of range [0, %d]", off, m.size)
	}
	n := copy(b, m.data[off:m.size])
	var err error
	if int64(n) < int64(len(b)) {
		err = fmt.Errorf("region: Mmap.ReadAt: short read at %d", off)
	}
	return n, err
}

// WriteAt implements heap.Provider.
func (m *Mmap) WriteAt(b []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(b)) > m.size {
		return 0, fmt.Errorf("region: Mmap.WriteAt: write [%d, %d) exceeds size %d", off, off+int64(len(b)), m.size)
	}
	return copy(m.data[off:], b), nil
}
