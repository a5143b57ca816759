// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

// Stats is a point-in-time snapshot of heap utilization, computed by a
// single pass over the block sequence.
type Stats struct {
	LiveBytes  int64 // header-inclusive size of allocated blocks
	LiveBlocks int64
	FreeBytes  int64 // header-inclusive size of free blocks
	FreeBlocks int64
	Span       int64 // hi - lo - 2*wordSize
	Extensions int64 // number of times extend() grew the heap
}

// Stats walks the block sequence once and reports utilization. It does not
// touch the free index, so it remains cheap to call often; cmd/heapdemo
// calls it once its workload has finished.
func (h *Heap) Stats() (Stats, error) {
	var s Stats
	lo, hi := h.p.Lo(), h.p.Hi()
	epilogue := hi - wordSize

	for addr := lo + wordSize; addr < epilogue; {
		size, alloc, err := h.readHeader(addr)
		if err != nil {
			return Stats{}, err
		}
		if alloc {
			s.LiveBytes += size
			s.LiveBlocks++
		} else {
			s.FreeBytes += size
			s.FreeBlocks++
		}
		addr += size
	}

	s.Span = epilogue - (lo + wordSize)
	s.Extensions = h.extensions
	return s, nil
}
