// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64core

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// Record is the set of fixed-size types a Table can be made of.
type Record interface {
	ELF64SectionHeader | ELF64ProgramHeader | ELF64Symbol | ELF64Rela |
		ELF64Rel | ELF64Dyn | uint8 | uint16 | uint32 | uint64
}

// recordSize returns the on-disk size of T.
func recordSize[T Record]() int {
	var zero T
	return binary.Size(zero)
}

// Table is a read-only view of count records laid out every stride bytes
// from offset in a caller-owned buffer. The buffer must outlive the table.
//
// The range is checked once when the table is built; At only checks the
// index.
type Table[T Record] struct {
	raw    []byte
	offset uint64
	count  int
	stride int
	order  binary.ByteOrder
}

// checkRange verifies that [offset, offset+length) lies inside a buffer of
// size bufLen, without overflowing.
func checkRange(offset, length uint64, bufLen int) error {
	end, carry := bits.Add64(offset, length, 0)
	if carry != 0 || end > uint64(bufLen) {
		return fmt.Errorf("[0x%x, +0x%x) in %d bytes: %w", offset, length, bufLen, ErrOutOfBounds)
	}
	return nil
}

// newTable builds a table after checking that every record fits in raw.
func newTable[T Record](raw []byte, order binary.ByteOrder, offset, count uint64, stride int) (Table[T], error) {
	if count == 0 {
		return Table[T]{raw: raw, offset: offset, stride: stride, order: order}, nil
	}
	size := recordSize[T]()
	if stride < size {
		return Table[T]{}, fmt.Errorf("stride %d smaller than record size %d: %w", stride, size, ErrEntrySize)
	}
	hi, span := bits.Mul64(count-1, uint64(stride))
	if hi != 0 {
		return Table[T]{}, fmt.Errorf("%d entries of %d bytes: %w", count, stride, ErrOutOfBounds)
	}
	span, carry := bits.Add64(span, uint64(size), 0)
	if carry != 0 {
		return Table[T]{}, fmt.Errorf("%d entries of %d bytes: %w", count, stride, ErrOutOfBounds)
	}
	if err := checkRange(offset, span, len(raw)); err != nil {
		return Table[T]{}, err
	}
	return Table[T]{raw: raw, offset: offset, count: int(count), stride: stride, order: order}, nil
}

// Len returns the number of records.
func (t Table[T]) Len() int {
	return t.count
}

// Stride returns the distance in bytes between two records.
func (t Table[T]) Stride() int {
	return t.stride
}

// Bytes returns the raw bytes of record i.
func (t Table[T]) Bytes(i int) []byte {
	if i < 0 || i >= t.count {
		panic(fmt.Sprintf("elf64core: index %d out of range [0:%d]", i, t.count))
	}
	start := t.offset + uint64(i)*uint64(t.stride)
	return t.raw[start : start+uint64(recordSize[T]())]
}

// At decodes record i. It panics if i is outside [0, Len()).
func (t Table[T]) At(i int) T {
	var v T
	if _, err := binary.Decode(t.Bytes(i), t.order, &v); err != nil {
		// Bytes always returns exactly recordSize bytes.
		panic(err)
	}
	return v
}

// All decodes every record in order.
func (t Table[T]) All() []T {
	out := make([]T, t.count)
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}
