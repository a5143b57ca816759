// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package region

import (
	"bytes"
	"testing"
)

func TestMmapExtendAndReadWrite(t *testing.T) {
	m, err := NewMmap(4096)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if m.Lo() != 0 || m.Hi() != 0 || m.Size() != 0 {
		t.Fatalf("fresh Mmap is not empty: lo=%d hi=%d size=%d", m.Lo(), m.Hi(), m.Size())
	}

	old, err := m.Extend(64)
	if err != nil {
		t.Fatal(err)
	}
	if old != 0 {
		t.Fatalf("Extend returned old end %d, want 0", old)
	}
	if m.Size() != 64 {
		t.Fatalf("Size() = %d, want 64", m.Size())
	}

	want := []byte("anonymous mapping")
	if _, err := m.WriteAt(want, 8); err != nil {
		t.Fatal(err)
	}

	got := make([]byte, len(want))
	if _, err := m.ReadAt(got, 8); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("ReadAt = %q, want %q", got, want)
	}
}

func TestMmapExtendBeyondCapacityFails(t *testing.T) {
	m, err := NewMmap(16)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if _, err := m.Extend(16); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Extend(1); err == nil {
		t.Fatal("expected an error extending past the reserved capacity")
	}
}

func TestMmapWriteBeyondSizeFails(t *testing.T) {
	m, err := NewMmap(64)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if _, err := m.Extend(16); err != nil {
		t.Fatal(err)
	}
	if _, err := m.WriteAt([]byte{1, 2, 3}, 15); err == nil {
		t.Fatal("expected an error writing past the region's size")
	}
}

func TestMmapCloseIsIdempotent(t *testing.T) {
	m, err := NewMmap(4096)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close returned %v, want nil", err)
	}
}
