// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

// extend grows the heap by at least nbytes (rounded up to Alignment) by
// asking the Provider for more storage, relocating the epilogue sentinel
// to the new end and turning the reclaimed space into one new free block,
// which is then coalesced with whatever free block used to end the heap.
//
// The arithmetic here exploits a cancellation: the new free block reclaims
// the old epilogue's word on its low side and gives up a word to the new
// epilogue on its high side, so its size is exactly delta, not delta plus
// or minus a word.
func (h *Heap) extend(nbytes int64) (Addr, error) {
	delta := roundUp(nbytes, Alignment)

	oldHi, err := h.p.Extend(delta)
	if err != nil {
		return 0, err
	}

	blockAddr := oldHi - wordSize
	if err := h.writeBlock(blockAddr, delta, false); err != nil {
		return 0, err
	}

	newEpilogue := h.p.Hi() - wordSize
	if err := h.writeHeader(newEpilogue, 0, true); err != nil {
		return 0, err
	}

	h.extensions++
	return h.coalesce(blockAddr)
}
