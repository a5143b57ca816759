// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "fmt"

// validBlockSize reports whether size could plausibly be a real block's
// size: at least MinBlockSize and 16-aligned. coalesce uses this as a tag check before
// trusting a neighbour's size as a navigation distance, since a free
// neighbour's size is read from its own header/footer rather than derived
// from addr the way an allocated neighbour's is.
func validBlockSize(size int64) bool {
	return size >= MinBlockSize && size%Alignment == 0
}

// coalesce fuses a just-freed block (its header/footer already written as
// free by the caller) with any free physical neighbours and inserts the
// resulting block into the free index.
//
// Correctness relies on invariant 3: at entry, addr is the only
// contiguous free span whose identity is "in flux", every other
// adjacency in the heap is already normalized, so each neighbour
// encountered here is examined exactly once.
func (h *Heap) coalesce(addr Addr) (Addr, error) {
	size, _, err := h.readHeader(addr)
	if err != nil {
		return 0, err
	}
	if !validBlockSize(size) {
		return 0, &ErrCorruption{Msg: fmt.Sprintf("invalid size %d", size), At: addr}
	}

	prevWord, err := h.prevWord(addr)
	if err != nil {
		return 0, err
	}
	prevAddr := addr - sizeOf(prevWord)
	prevAlloc := allocOf(prevWord) || prevAddr == addr
	if !prevAlloc && !validBlockSize(sizeOf(prevWord)) {
		return 0, &ErrCorruption{Msg: fmt.Sprintf("left neighbour has invalid size %d", sizeOf(prevWord)), At: prevAddr}
	}

	nextAddr := addr + size
	nextSize, nextAlloc, err := h.readHeader(nextAddr)
	if err != nil {
		return 0, err
	}
	if !nextAlloc && !validBlockSize(nextSize) {
		return 0, &ErrCorruption{Msg: fmt.Sprintf("right neighbour has invalid size %d", nextSize), At: nextAddr}
	}

	switch {
	case prevAlloc && nextAlloc:
		return addr, h.insert(addr)

	case !prevAlloc && nextAlloc:
		prevSize := sizeOf(prevWord)
		if err := h.remove(prevAddr); err != nil {
			return 0, err
		}
		merged := prevSize + size
		if err := h.writeBlock(prevAddr, merged, false); err != nil {
			return 0, err
		}
		return prevAddr, h.insert(prevAddr)

	case prevAlloc && !nextAlloc:
		if err := h.remove(nextAddr); err != nil {
			return 0, err
		}
		merged := size + nextSize
		if err := h.writeBlock(addr, merged, false); err != nil {
			return 0, err
		}
		return addr, h.insert(addr)

	default: // both free
		prevSize := sizeOf(prevWord)
		if err := h.remove(prevAddr); err != nil {
			return 0, err
		}
		if err := h.remove(nextAddr); err != nil {
			return 0, err
		}
		merged := prevSize + size + nextSize
		if err := h.writeBlock(prevAddr, merged, false); err != nil {
			return 0, err
		}
		return prevAddr, h.insert(prevAddr)
	}
}
