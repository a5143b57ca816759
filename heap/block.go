// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

// Addr identifies a block by its byte offset from the heap's base, per the
// "Pointer graph" design note: blocks are not Go pointers, since the
// backing Provider may relocate its storage when it grows.
type Addr = int64

// next returns the address of addr's physical right neighbour, computed
// purely from addr's own header size.
func (h *Heap) next(addr Addr) (Addr, error) {
	size, _, err := h.readHeader(addr)
	if err != nil {
		return 0, err
	}
	return addr + size, nil
}

// prev returns the address of addr's physical left neighbour, read from
// the word immediately preceding addr (addr's "previous footer"). At the
// heap's low edge that word is the zero-sized prologue header, so
// prev(addr) == addr: the deliberate self-loop signalling "no previous".
//
// adjustedSize reserves two words of overhead beyond every payload it
// sizes, so this word always falls at or past the caller's last
// contractually-writable payload byte: a caller can never overwrite it,
// whether the left neighbour is free (a maintained footer) or allocated
// (the footer writeBlock wrote at placement time and never touches
// again). Both decode correctly as a result.
func (h *Heap) prev(addr Addr) (Addr, error) {
	w, err := h.readWord(addr - wordSize)
	if err != nil {
		return 0, err
	}
	return addr - sizeOf(w), nil
}

// prevWord returns the raw word immediately preceding addr, addr's
// previous footer slot, without interpreting it.
func (h *Heap) prevWord(addr Addr) (int64, error) {
	return h.readWord(addr - wordSize)
}
