// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package heap implements "raw" dynamic memory allocation: acquire, release,
grow-or-move and zero-initialized acquire, over a single, contiguous,
monotonically growing region of bytes supplied by a Provider (package
region).

The terms MUST or MUST NOT, where used in this documentation, describe a
requirement any alternative implementation aiming for wire/layout
compatibility with this one has to satisfy.

Word

A word is an unsigned 8 byte quantity. Every header and footer occupies
exactly one word.

Alignment

Payloads are aligned to 16 bytes. Consequently every block size is a
multiple of 16 and the low 4 bits of a size are always zero; those bits are
reused to carry the allocated flag.

Block layout

	 offset  field
	 0       header  -- size | allocated-bit, bit 0 set when allocated
	 8       payload (allocated) or {next, prev} free-list links (free)
	 ...
	 size-8  footer  -- duplicate of header, written for free and allocated blocks

A block's header and footer are boundary tags: given any block address it
is possible to find both physical neighbours in O(1), the right neighbour
from this block's own header size, the left neighbour from the word
immediately preceding this block (the left neighbour's footer). A block's
size always reserves room for a header and a footer beyond its payload, so
this trailing word sits at or past the last byte a caller is entitled to
write, whether the left neighbour is free or allocated; it is safe to
decode in either case.

Minimum block size is 32 bytes: header + two link words + footer. Requests
smaller than that are rounded up.

Heap layout at rest, low to high address:

	prologue (zero-size, allocated header; a left sentinel)
	block, block, block, ...
	epilogue (zero-size, allocated header; a right sentinel)

Addresses

A block is identified by an Addr, a non-negative byte offset from the
heap's base. Package heap never holds a raw Go pointer into the backing
store: all reads and writes are routed through a Provider (see package
region), because the backing store may be grown (and, depending on the
Provider, relocated) between calls. This also makes the core trivially
portable to a bounds-checked representation of a block as an offset rather
than a pointer, as suggested for implementations that cannot freely alias
raw bytes.
*/
package heap
