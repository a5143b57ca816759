// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

// The segregated free index. Each of the numClasses buckets is a
// head Addr into a doubly linked list of free blocks of that size class;
// the links themselves are intrusive, stored inside the free block's body
// at offsets 8 (next) and 16 (prev) from its header, exactly where an
// allocated block's payload would start. The discriminator between the
// two interpretations is the header's alloc bit.
//
// Addr(0) means "no block", mirroring the handle-0-means-nil convention of
// lldb's free list table: no real block ever starts at offset 0 since the
// prologue sentinel always occupies the heap's first word.

const noBlock Addr = 0

func (h *Heap) nextFreeAddr(addr Addr) (Addr, error) { return h.readWord(addr + wordSize) }
func (h *Heap) prevFreeAddr(addr Addr) (Addr, error) { return h.readWord(addr + 2*wordSize) }

func (h *Heap) setNextFreeAddr(addr, next Addr) error { return h.writeWord(addr+wordSize, next) }
func (h *Heap) setPrevFreeAddr(addr, prev Addr) error { return h.writeWord(addr+2*wordSize, prev) }

// insert pushes addr onto the head of its size class's list (LIFO, O(1)).
// addr's header/footer must already be written as free before calling
// insert.
func (h *Heap) insert(addr Addr) error {
	size, _, err := h.readHeader(addr)
	if err != nil {
		return err
	}
	class := classOf(size)
	oldHead := h.freeHeads[class]

	if err := h.setPrevFreeAddr(addr, noBlock); err != nil {
		return err
	}
	if err := h.setNextFreeAddr(addr, oldHead); err != nil {
		return err
	}
	if oldHead != noBlock {
		if err := h.setPrevFreeAddr(oldHead, addr); err != nil {
			return err
		}
	}
	h.freeHeads[class] = addr
	return nil
}

// remove unlinks addr from its size class's list (O(1)). addr must
// currently be a free block registered in the index (invariant 4).
func (h *Heap) remove(addr Addr) error {
	size, _, err := h.readHeader(addr)
	if err != nil {
		return err
	}
	class := classOf(size)

	prev, err := h.prevFreeAddr(addr)
	if err != nil {
		return err
	}
	next, err := h.nextFreeAddr(addr)
	if err != nil {
		return err
	}

	switch {
	case prev == noBlock:
		h.freeHeads[class] = next
	default:
		if err := h.setNextFreeAddr(prev, next); err != nil {
			return err
		}
	}

	if next != noBlock {
		if err := h.setPrevFreeAddr(next, prev); err != nil {
			return err
		}
	}
	return nil
}

// scanFrom walks buckets [class, numClasses) in ascending order, invoking
// visit for every free block encountered, stopping early if visit returns
// false. Used by find-fit.
func (h *Heap) scanFrom(class int, visit func(addr Addr, size int64) (keepGoing bool, err error)) error {
	for c := class; c < numClasses; c++ {
		addr := h.freeHeads[c]
		for addr != noBlock {
			size, _, err := h.readHeader(addr)
			if err != nil {
				return err
			}
			next, err := h.nextFreeAddr(addr)
			if err != nil {
				return err
			}
			keepGoing, err := visit(addr, size)
			if err != nil {
				return err
			}
			if !keepGoing {
				return nil
			}
			addr = next
		}
	}
	return nil
}
