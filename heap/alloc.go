// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "math"

// Heap is the public surface of the allocator: Acquire, Release,
// GrowOrMove and ZeroAcquire, built atop a Provider-backed growable byte
// region. A Heap is a single opaque context value, with no package-level
// mutable state, so a process may run several independent Heaps, each
// owning its own Provider.
//
// A Heap is single-threaded and synchronous: it is not safe for
// concurrent use without an external mutex, same as lldb.Filer upstream.
type Heap struct {
	p          Provider
	freeHeads  [numClasses]Addr
	extensions int64
}

// New initializes a Heap over p, which must be a freshly created, zero
// sized Provider. It writes the prologue and epilogue sentinels and
// extends the heap once by DefaultChunk bytes, exactly mirroring
// mm_init's "two sentinel words, then one extend_heap(chunksize)" sequence.
func New(p Provider) (*Heap, error) {
	if p.Size() != 0 {
		return nil, &ErrInvalidArgument{Msg: "heap.New requires a zero-sized Provider", Arg: p.Size()}
	}

	h := &Heap{p: p}
	if _, err := p.Extend(2 * wordSize); err != nil {
		return nil, err
	}

	if err := h.writeHeader(p.Lo(), 0, true); err != nil { // prologue
		return nil, err
	}
	if err := h.writeHeader(p.Hi()-wordSize, 0, true); err != nil { // epilogue
		return nil, err
	}

	if _, err := h.extend(DefaultChunk); err != nil {
		return nil, err
	}
	return h, nil
}

// placeAt removes the free block at addr (of known size csize) from the
// free index and converts it into an allocated block of asize bytes,
// returning the payload address.
func (h *Heap) placeAt(addr, csize, asize int64) (Addr, error) {
	if err := h.remove(addr); err != nil {
		return 0, err
	}
	if err := h.place(addr, csize, asize); err != nil {
		return 0, err
	}
	return addr + wordSize, nil
}

// Acquire allocates at least n bytes and returns the address of the
// payload, or (0, nil) if n == 0, or (0, err) if the heap is out of
// memory (the Provider refused to grow further). Checking addr == 0 is
// this package's equivalent of a null return.
func (h *Heap) Acquire(n int64) (Addr, error) {
	if n == 0 {
		return 0, nil
	}

	asize := adjustedSize(n)

	fit, err := h.findFit(asize)
	if err != nil {
		return 0, err
	}
	if fit != noBlock {
		size, _, err := h.readHeader(fit)
		if err != nil {
			return 0, err
		}
		return h.placeAt(fit, size, asize)
	}

	grown, err := h.extend(maxInt64(asize, DefaultChunk))
	if err != nil {
		return 0, err
	}

	size, _, err := h.readHeader(grown)
	if err != nil {
		return 0, err
	}
	return h.placeAt(grown, size, asize)
}

// Release deallocates the block at payload. Releasing the zero address is
// a no-op, matching Acquire's null-payload convention. Releasing an
// address not obtained from Acquire/GrowOrMove, or already released, is
// undefined behavior per the Non-goals; this implementation detects the
// common case of a payload whose block is already marked free and reports
// it as ErrInvalidArgument on a best-effort basis, not as a guarantee.
func (h *Heap) Release(payload Addr) error {
	if payload == 0 {
		return nil
	}

	addr := payload - wordSize
	size, alloc, err := h.readHeader(addr)
	if err != nil {
		return err
	}
	if !alloc {
		return &ErrInvalidArgument{Msg: "Release of an already-free block", Arg: payload}
	}

	if err := h.writeBlock(addr, size, false); err != nil {
		return err
	}
	_, err = h.coalesce(addr)
	return err
}

// GrowOrMove resizes the allocation at payload to n bytes, preserving the
// first min(n, old payload size) bytes, and returns the (possibly new)
// payload address. A null payload behaves like Acquire(n); n == 0 behaves
// like Release(payload) followed by returning (0, nil). If the new
// allocation cannot be satisfied, the original block is left untouched and
// (0, err) is returned.
//
// This implementation always allocates new and copies, as the reference
// does; an in-place grow into a free right neighbour, or an in-place
// shrink, are legitimate optimizations this core does not implement.
func (h *Heap) GrowOrMove(payload Addr, n int64) (Addr, error) {
	if payload == 0 {
		return h.Acquire(n)
	}
	if n == 0 {
		return 0, h.Release(payload)
	}

	oldAddr := payload - wordSize
	oldSize, _, err := h.readHeader(oldAddr)
	if err != nil {
		return 0, err
	}
	oldPayloadSize := oldSize - wordSize

	newPayload, err := h.Acquire(n)
	if err != nil || newPayload == 0 {
		return 0, err
	}

	copyLen := minInt64(n, oldPayloadSize)
	buf := make([]byte, copyLen)
	if _, err := h.p.ReadAt(buf, payload); err != nil {
		return 0, err
	}
	if _, err := h.p.WriteAt(buf, newPayload); err != nil {
		return 0, err
	}

	if err := h.Release(payload); err != nil {
		return 0, err
	}
	return newPayload, nil
}

// ZeroAcquire allocates space for count objects of size n each, zeroes the
// resulting payload, and returns its address. It returns (0, nil), not an
// error, if count*n overflows: an invalid argument is folded into the
// out-of-memory case here rather than given a separate error path.
func (h *Heap) ZeroAcquire(count, n int64) (Addr, error) {
	if count != 0 && n > math.MaxInt64/count {
		return 0, nil
	}

	total := count * n
	addr, err := h.Acquire(total)
	if err != nil || addr == 0 {
		return addr, err
	}

	if total > 0 {
		zeros := make([]byte, total)
		if _, err := h.p.WriteAt(zeros, addr); err != nil {
			return 0, err
		}
	}
	return addr, nil
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
