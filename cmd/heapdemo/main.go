// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command heapdemo drives a heap.Heap through a randomized mix of
// Acquire/Release/GrowOrMove calls, printing utilization stats and
// checking invariants periodically. It is a smoke driver, not a
// benchmark: timing is incidental.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/cznic-contrib/blockheap/heap"
	"github.com/cznic-contrib/blockheap/region"
)

var (
	iterations = flag.Int("n", 20000, "number of operations to perform")
	maxSize    = flag.Int("max", 1<<14, "maximum single allocation size")
	seed       = flag.Int64("seed", 42, "PRNG seed")
	everyCheck = flag.Int("check-every", 500, "run the invariant checker every N operations")
)

func main() {
	flag.Parse()

	p := region.NewBump()
	h, err := heap.New(p)
	if err != nil {
		log.Fatal(err)
	}

	rng := rand.New(rand.NewSource(*seed))
	live := map[int64]int64{} // payload addr -> requested size

	checkNow := func(step int) {
		ok, err := h.CheckInvariants(func(err error) bool {
			log.Printf("step %d: %v", step, err)
			return true // keep collecting, for a more complete report
		})
		if err != nil {
			log.Fatalf("step %d: provider error during check: %v", step, err)
		}
		if !ok {
			log.Fatalf("step %d: invariants violated, see above", step)
		}
	}

	t0 := time.Now()
	for i := 0; i < *iterations; i++ {
		switch {
		case len(live) == 0 || rng.Intn(3) != 0:
			n := int64(rng.Intn(*maxSize) + 1)
			addr, err := h.Acquire(n)
			if err != nil {
				log.Fatalf("step %d: Acquire(%d): %v", i, n, err)
			}
			if addr == 0 {
				log.Fatalf("step %d: Acquire(%d) returned null", i, n)
			}
			live[addr] = n

		case rng.Intn(2) == 0:
			addr := pickKey(live, rng)
			delete(live, addr)
			if err := h.Release(addr); err != nil {
				log.Fatalf("step %d: Release(%#x): %v", i, addr, err)
			}

		default:
			addr := pickKey(live, rng)
			n := int64(rng.Intn(*maxSize) + 1)
			delete(live, addr)
			moved, err := h.GrowOrMove(addr, n)
			if err != nil {
				log.Fatalf("step %d: GrowOrMove(%#x, %d): %v", i, addr, n, err)
			}
			live[moved] = n
		}

		if *everyCheck > 0 && i%*everyCheck == 0 {
			checkNow(i)
		}
	}
	checkNow(*iterations)

	stats, err := h.Stats()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%d operations in %s\n", *iterations, time.Since(t0))
	fmt.Printf("live: %d blocks, %d bytes\n", stats.LiveBlocks, stats.LiveBytes)
	fmt.Printf("free: %d blocks, %d bytes\n", stats.FreeBlocks, stats.FreeBytes)
	fmt.Printf("span: %d bytes, %d extensions\n", stats.Span, stats.Extensions)
}

func pickKey(m map[int64]int64, rng *rand.Rand) int64 {
	i, target := 0, rng.Intn(len(m))
	for k := range m {
		if i == target {
			return k
		}
		i++
	}
	panic("unreachable")
}
