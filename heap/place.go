// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "github.com/cznic/mathutil"

// findFit performs a bounded best-fit search: starting at
// classOf(asize), it walks buckets in ascending order and, within each,
// the free list, tracking the smallest-surplus candidate with size >=
// asize. The total number of candidates inspected is capped at
// findFitBound; once that many have been looked at, the current best (if
// any) is returned immediately rather than continuing the scan.
func (h *Heap) findFit(asize int64) (best Addr, err error) {
	var (
		bestSurplus int64 = -1
		inspected   int
	)
	start := classOf(asize)
	scanErr := h.scanFrom(start, func(addr Addr, size int64) (bool, error) {
		if size >= asize {
			inspected++
			surplus := size - asize
			if bestSurplus < 0 || surplus < bestSurplus {
				best, bestSurplus = addr, surplus
			}
			if inspected >= findFitBound {
				return false, nil
			}
		}
		return true, nil
	})
	if scanErr != nil {
		return 0, scanErr
	}
	return best, nil
}

// place converts a free block at addr (already known to have size csize)
// into an allocated block of asize bytes, splitting off a free remainder
// when the leftover is at least MinBlockSize. addr must already
// have been removed from the free index by the caller.
func (h *Heap) place(addr Addr, csize, asize int64) error {
	if remaining := csize - asize; remaining >= MinBlockSize {
		if err := h.writeBlock(addr, asize, true); err != nil {
			return err
		}
		remainderAddr := addr + asize
		if err := h.writeBlock(remainderAddr, remaining, false); err != nil {
			return err
		}
		return h.insert(remainderAddr)
	}

	return h.writeBlock(addr, csize, true)
}

// adjustedSize converts a caller-requested payload size n into the
// block size carrying it: round_up(n+2*wordSize, Alignment), floored
// explicitly at MinBlockSize rather than relying on rounding to produce
// that floor incidentally.
//
// The two words of overhead are the header and the footer, not the header
// alone: an allocated block's footer word is only ever read by a left
// neighbour during that neighbour's coalesce. Reserving just one word
// would let a tightly-sized request's legitimate payload reach all the
// way to the footer slot, so an ordinary full-payload write could
// overwrite it, and a neighbour's coalesce would then decode caller data
// as a boundary tag. Reserving the full pair keeps the footer word
// strictly beyond byte n of the payload, mirroring the reference
// allocator's round_up(size+dsize, dsize) (dsize = 2*wsize).
func adjustedSize(n int64) int64 {
	return mathutil.MaxInt64(roundUp(n+2*wordSize, Alignment), MinBlockSize)
}
