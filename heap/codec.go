// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "encoding/binary"

// Tunables. These are compile-time constants in this implementation; a
// reimplementation may expose them as init-time values instead.
const (
	wordSize     = 8
	Alignment    = 16
	MinBlockSize = 32
	DefaultChunk = 4096
	numClasses   = 10
	findFitBound = 12

	allocBit = 1
	sizeMask = ^int64(0xF)
)

// classBoundary[i] is the upper-inclusive size, in bytes, of size class i.
// The last class catches everything above classBoundary[numClasses-2].
var classBoundary = [numClasses]int64{
	64, 128, 256, 512, 1024, 2048, 4096, 8192, 16384, 1<<62 - 1,
}

// pack returns size|alloc. size must already be 16-aligned.
func pack(size int64, alloc bool) int64 {
	w := size
	if alloc {
		w |= allocBit
	}
	return w
}

// sizeOf decodes the size field of a header/footer word.
func sizeOf(word int64) int64 { return word & sizeMask }

// allocOf decodes the allocated-bit of a header/footer word.
func allocOf(word int64) bool { return word&allocBit != 0 }

func getWord(b []byte) int64 { return int64(binary.BigEndian.Uint64(b)) }

func putWord(b []byte, w int64) { binary.BigEndian.PutUint64(b, uint64(w)) }

// readWord reads the word at addr.
func (h *Heap) readWord(addr Addr) (int64, error) {
	var b [wordSize]byte
	if _, err := h.p.ReadAt(b[:], addr); err != nil {
		return 0, err
	}
	return getWord(b[:]), nil
}

// writeWord writes w at addr.
func (h *Heap) writeWord(addr Addr, w int64) error {
	var b [wordSize]byte
	putWord(b[:], w)
	_, err := h.p.WriteAt(b[:], addr)
	return err
}

// writeHeader writes the packed header word for a block starting at addr.
func (h *Heap) writeHeader(addr Addr, size int64, alloc bool) error {
	return h.writeWord(addr, pack(size, alloc))
}

// footerAddr returns the address of block addr's footer word.
func footerAddr(addr Addr, size int64) Addr { return addr + size - wordSize }

// writeFooter writes the packed footer word for a block starting at addr
// with the given size. Footers are written at placement time for both
// free and allocated blocks and, for allocated blocks, are never touched
// again while the block is live: adjustedSize reserves a full header+footer
// pair of overhead beyond every payload it sizes, so the footer slot always
// sits at or past the caller's last writable payload byte and stays a
// reliable boundary tag for whichever neighbour later reads it.
func (h *Heap) writeFooter(addr Addr, size int64, alloc bool) error {
	return h.writeWord(footerAddr(addr, size), pack(size, alloc))
}

// readHeader returns the (size, alloc) pair decoded from addr's header.
func (h *Heap) readHeader(addr Addr) (size int64, alloc bool, err error) {
	w, err := h.readWord(addr)
	if err != nil {
		return 0, false, err
	}
	return sizeOf(w), allocOf(w), nil
}

// writeBlock writes matching header and footer for a block. A footer is
// written unconditionally, for allocated blocks as well as free ones; an
// allocated block's footer lies beyond the caller's writable payload and
// stays valid while the block is live; see writeFooter's doc.
func (h *Heap) writeBlock(addr Addr, size int64, alloc bool) error {
	if err := h.writeHeader(addr, size, alloc); err != nil {
		return err
	}
	return h.writeFooter(addr, size, alloc)
}

func roundUp(n, mult int64) int64 { return (n + mult - 1) &^ (mult - 1) }

// classOf returns the size-class bucket index for a block of the given
// size, using the boundary table above.
func classOf(size int64) int {
	for i, b := range classBoundary {
		if size <= b {
			return i
		}
	}
	return numClasses - 1
}
