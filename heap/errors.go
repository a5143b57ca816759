// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "fmt"

// ErrInvalidArgument is returned when a caller passes an argument that
// violates a documented precondition of a method: New given a Provider
// that is not empty, or Release given an Addr whose block is already
// marked free. An Addr that was never returned by Acquire/GrowOrMove is
// not detected.
type ErrInvalidArgument struct {
	Msg string
	Arg interface{}
}

func (e *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("heap: invalid argument: %s (%v)", e.Msg, e.Arg)
}

// ErrCorruption is returned when a structural invariant of the heap is
// found violated while navigating or coalescing blocks. The allocator
// does not attempt repair; ErrCorruption exists so a caller can fail
// loudly during development and testing rather than silently corrupt
// further state. Detection is best-effort, not a guarantee.
type ErrCorruption struct {
	Msg string
	At  int64
}

func (e *ErrCorruption) Error() string {
	return fmt.Sprintf("heap: corruption at %#x: %s", e.At, e.Msg)
}
