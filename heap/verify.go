// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "fmt"

// CheckInvariants walks the heap and the free index looking for structural
// corruption against the allocator's universal invariants. Every problem found is reported
// to log; if log returns false, or a read from the Provider itself fails,
// the walk stops early. CheckInvariants returns true only if it completed
// the walk and log was never called. Passing a nil log is equivalent to a
// log that always returns false, i.e. stop at the first problem.
//
// This mirrors lldb.Allocator.Verify's shape: problems in the structure are
// reported through the callback, while I/O errors reading the Provider are
// returned directly, since CheckInvariants cannot meaningfully continue
// past those.
func (h *Heap) CheckInvariants(log func(error) bool) (ok bool, err error) {
	if log == nil {
		log = func(error) bool { return false }
	}

	ok = true
	report := func(at Addr, format string, args ...interface{}) bool {
		ok = false
		return log(&ErrCorruption{Msg: fmt.Sprintf(format, args...), At: at})
	}

	lo, hi := h.p.Lo(), h.p.Hi()

	// Walk the block sequence, checking per-block invariants 1, 2, 7 and
	// the no-two-adjacent-free rule (invariant 3), and collecting the set
	// of blocks the free index ought to agree with.
	seenFree := map[Addr]int64{}
	var sum int64
	prevAlloc := true // the prologue counts as allocated
	addr := lo + wordSize
	epilogue := hi - wordSize
	for addr < epilogue {
		size, alloc, err := h.readHeader(addr)
		if err != nil {
			return false, err
		}

		if size%Alignment != 0 || size < MinBlockSize {
			if !report(addr, "invalid size %d", size) {
				return false, nil
			}
		}
		if payload := addr + wordSize; payload%Alignment != 0 {
			if !report(addr, "misaligned payload %d", payload) {
				return false, nil
			}
		}

		if !alloc {
			if !prevAlloc {
				if !report(addr, "block and its left neighbour are both free") {
					return false, nil
				}
			}
			foot, err := h.readWord(footerAddr(addr, size))
			if err != nil {
				return false, err
			}
			if sizeOf(foot) != size || allocOf(foot) {
				if !report(addr, "mismatched footer") {
					return false, nil
				}
			}
			seenFree[addr] = size
		}

		sum += size
		prevAlloc = alloc
		if size <= 0 {
			// A non-positive size would loop forever; bail out rather
			// than spin, treating it as a fatal structural problem.
			return false, nil
		}
		addr += size
	}

	if span := epilogue - (lo + wordSize); sum != span {
		if !report(epilogue, "block sizes sum to %d, want %d", sum, span) {
			return false, nil
		}
	}

	// Walk the free index, checking invariants 4, 5, 6 against the set
	// collected above.
	indexed := map[Addr]bool{}
	for class := 0; class < numClasses; class++ {
		visited := map[Addr]bool{}
		addr := h.freeHeads[class]
		var prev Addr = noBlock
		for addr != noBlock {
			if visited[addr] {
				if !report(addr, "free list %d cycles back here", class) {
					return false, nil
				}
				break
			}
			visited[addr] = true

			size, alloc, err := h.readHeader(addr)
			if err != nil {
				return false, err
			}
			if alloc {
				if !report(addr, "allocated block is present in free index") {
					return false, nil
				}
			}
			if got := classOf(size); got != class {
				if !report(addr, "size %d sits in bucket %d, wants %d", size, class, got) {
					return false, nil
				}
			}

			gotPrev, err := h.prevFreeAddr(addr)
			if err != nil {
				return false, err
			}
			if gotPrev != prev {
				if !report(addr, "prev link is %d, want %d", gotPrev, prev) {
					return false, nil
				}
			}

			indexed[addr] = true
			prev = addr
			next, err := h.nextFreeAddr(addr)
			if err != nil {
				return false, err
			}
			addr = next
		}
	}

	for addr, size := range seenFree {
		if !indexed[addr] {
			if !report(addr, "free block of size %d is missing from the free index", size) {
				return false, nil
			}
		}
	}
	for addr := range indexed {
		if _, ok := seenFree[addr]; !ok {
			if !report(addr, "referenced by free index but not a free block in the heap") {
				return false, nil
			}
		}
	}

	return ok, nil
}
