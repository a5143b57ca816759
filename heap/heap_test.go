// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testProvider is the smallest Provider sufficient for these tests: a
// plain growable byte slice, with no paging.
type testProvider struct {
	b []byte
}

func (p *testProvider) Extend(delta int64) (int64, error) {
	old := int64(len(p.b))
	p.b = append(p.b, make([]byte, delta)...)
	return old, nil
}

func (p *testProvider) Lo() int64   { return 0 }
func (p *testProvider) Hi() int64   { return int64(len(p.b)) }
func (p *testProvider) Size() int64 { return int64(len(p.b)) }
func (p *testProvider) Close() error { return nil }

func (p *testProvider) ReadAt(b []byte, off int64) (int, error) {
	return copy(b, p.b[off:]), nil
}

func (p *testProvider) WriteAt(b []byte, off int64) (int, error) {
	return copy(p.b[off:], b), nil
}

func newTestHeap(t *testing.T) *Heap {
	t.Helper()
	h, err := New(&testProvider{})
	require.NoError(t, err)
	return h
}

func assertClean(t *testing.T, h *Heap) {
	t.Helper()
	var problems []error
	ok, err := h.CheckInvariants(func(e error) bool {
		problems = append(problems, e)
		return true
	})
	require.NoError(t, err)
	assert.True(t, ok, "invariants violated: %v", problems)
}

func TestAcquireAlignedAndRelease(t *testing.T) {
	h := newTestHeap(t)

	p1, err := h.Acquire(24)
	require.NoError(t, err)
	assert.NotZero(t, p1)
	assert.Equal(t, int64(0), p1%Alignment)

	require.NoError(t, h.Release(p1))
	assertClean(t, h)
}

func TestAdjacentAcquiresCoalesceOnRelease(t *testing.T) {
	h := newTestHeap(t)

	p1, err := h.Acquire(24)
	require.NoError(t, err)
	p2, err := h.Acquire(24)
	require.NoError(t, err)

	if got, want := p2-p1, adjustedSize(24); got != want {
		t.Fatalf("p2-p1 = %d, want %d", got, want)
	}

	require.NoError(t, h.Release(p1))
	require.NoError(t, h.Release(p2))
	assertClean(t, h)

	stats, err := h.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.FreeBlocks)
}

func TestThreeBlockReleaseCoalescesToOne(t *testing.T) {
	h := newTestHeap(t)

	p1, err := h.Acquire(40)
	require.NoError(t, err)
	p2, err := h.Acquire(40)
	require.NoError(t, err)
	p3, err := h.Acquire(40)
	require.NoError(t, err)

	require.NoError(t, h.Release(p1))
	require.NoError(t, h.Release(p3))
	require.NoError(t, h.Release(p2))
	assertClean(t, h)

	stats, err := h.Stats()
	require.NoError(t, err)
	want := 3 * adjustedSize(40)
	if stats.FreeBlocks != 1 || stats.FreeBytes < want {
		t.Fatalf("got %d free blocks totalling %d bytes, want 1 block >= %d bytes", stats.FreeBlocks, stats.FreeBytes, want)
	}
}

func TestHoleReuseMatchesFreedAddresses(t *testing.T) {
	h := newTestHeap(t)

	const n = 256
	ptrs := make([]int64, n)
	for i := range ptrs {
		p, err := h.Acquire(128)
		require.NoError(t, err)
		ptrs[i] = p
	}

	freed := map[int64]bool{}
	for i := 0; i < n; i += 2 {
		require.NoError(t, h.Release(ptrs[i]))
		freed[ptrs[i]] = true
	}

	for i := 0; i < n; i += 2 {
		p, err := h.Acquire(128)
		require.NoError(t, err)
		if !freed[p] {
			t.Fatalf("reused address %#x was not among the freed set", p)
		}
		delete(freed, p)
	}
	assertClean(t, h)
}

func TestGrowOrMovePreservesPrefix(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Acquire(10)
	require.NoError(t, err)

	pattern := make([]byte, 10)
	for i := range pattern {
		pattern[i] = 0xAB
	}
	_, err = h.p.WriteAt(pattern, p)
	require.NoError(t, err)

	moved, err := h.GrowOrMove(p, 100)
	require.NoError(t, err)

	got := make([]byte, 10)
	_, err = h.p.ReadAt(got, moved)
	require.NoError(t, err)
	assert.Equal(t, pattern, got)
	assertClean(t, h)
}

func TestAcquireForcesExtension(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Acquire(DefaultChunk * 4)
	require.NoError(t, err)
	assert.NotZero(t, p)
	assertClean(t, h)
}

func TestAcquireZeroReturnsNullWithoutSideEffects(t *testing.T) {
	h := newTestHeap(t)
	before, err := h.Stats()
	require.NoError(t, err)

	p, err := h.Acquire(0)
	require.NoError(t, err)
	assert.Zero(t, p)

	after, err := h.Stats()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReleaseNullIsNoOp(t *testing.T) {
	h := newTestHeap(t)
	require.NoError(t, h.Release(0))
	assertClean(t, h)
}

func TestGrowOrMoveNullActsLikeAcquire(t *testing.T) {
	h := newTestHeap(t)
	p, err := h.GrowOrMove(0, 32)
	require.NoError(t, err)
	assert.NotZero(t, p)
}

func TestGrowOrMoveZeroReleases(t *testing.T) {
	h := newTestHeap(t)
	p, err := h.Acquire(32)
	require.NoError(t, err)

	moved, err := h.GrowOrMove(p, 0)
	require.NoError(t, err)
	assert.Zero(t, moved)
	assertClean(t, h)
}

func TestZeroAcquireZeroesPayload(t *testing.T) {
	h := newTestHeap(t)
	p, err := h.ZeroAcquire(8, 16)
	require.NoError(t, err)
	require.NotZero(t, p)

	buf := make([]byte, 8*16)
	_, err = h.p.ReadAt(buf, p)
	require.NoError(t, err)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: %#x", i, b)
		}
	}
}

func TestZeroAcquireOverflowReturnsNull(t *testing.T) {
	h := newTestHeap(t)
	p, err := h.ZeroAcquire(math.MaxInt64, 2)
	require.NoError(t, err)
	assert.Zero(t, p)
}

func TestRandomizedWorkloadKeepsInvariants(t *testing.T) {
	h := newTestHeap(t)
	rng := rand.New(rand.NewSource(1))
	live := map[int64]bool{}

	for i := 0; i < 2000; i++ {
		switch {
		case len(live) == 0 || rng.Intn(3) != 0:
			n := int64(rng.Intn(512) + 1)
			p, err := h.Acquire(n)
			require.NoError(t, err)
			require.NotZero(t, p)
			live[p] = true
		default:
			var victim int64
			for k := range live {
				victim = k
				break
			}
			delete(live, victim)
			require.NoError(t, h.Release(victim))
		}
		if i%97 == 0 {
			assertClean(t, h)
		}
	}
	assertClean(t, h)
}
