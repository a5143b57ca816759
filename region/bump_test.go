// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import (
	"bytes"
	"testing"
)

func TestBumpExtendAndReadWrite(t *testing.T) {
	b := NewBump()

	if b.Lo() != 0 || b.Hi() != 0 || b.Size() != 0 {
		t.Fatalf("fresh Bump is not empty: lo=%d hi=%d size=%d", b.Lo(), b.Hi(), b.Size())
	}

	old, err := b.Extend(4096)
	if err != nil {
		t.Fatal(err)
	}
	if old != 0 {
		t.Fatalf("Extend returned old end %d, want 0", old)
	}
	if b.Size() != 4096 {
		t.Fatalf("Size() = %d, want 4096", b.Size())
	}

	want := []byte("the quick brown fox")
	if _, err := b.WriteAt(want, 100); err != nil {
		t.Fatal(err)
	}

	got := make([]byte, len(want))
	if _, err := b.ReadAt(got, 100); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("ReadAt = %q, want %q", got, want)
	}
}

func TestBumpReadAtUnwrittenIsZero(t *testing.T) {
	b := NewBump()
	if _, err := b.Extend(pgSize * 3); err != nil {
		t.Fatal(err)
	}

	got := make([]byte, pgSize)
	if _, err := b.ReadAt(got, pgSize); err != nil {
		t.Fatal(err)
	}
	for i, c := range got {
		if c != 0 {
			t.Fatalf("byte %d = %#x, want 0", i, c)
		}
	}
}

func TestBumpWriteAtSpanningPages(t *testing.T) {
	b := NewBump()
	if _, err := b.Extend(pgSize * 2); err != nil {
		t.Fatal(err)
	}

	want := bytes.Repeat([]byte{0x5a}, 64)
	off := int64(pgSize - 32)
	if _, err := b.WriteAt(want, off); err != nil {
		t.Fatal(err)
	}

	got := make([]byte, len(want))
	if _, err := b.ReadAt(got, off); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("ReadAt across page boundary = %v, want %v", got, want)
	}
}

func TestBumpWriteBeyondSizeFails(t *testing.T) {
	b := NewBump()
	if _, err := b.Extend(16); err != nil {
		t.Fatal(err)
	}
	if _, err := b.WriteAt([]byte{1, 2, 3}, 15); err == nil {
		t.Fatal("expected an error writing past the region's size")
	}
}
