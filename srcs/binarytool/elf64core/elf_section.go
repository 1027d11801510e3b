// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64core

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// ELF64SectionHeader is the on-disk section header.
type ELF64SectionHeader struct {
	Name           Word
	Type           SectionType
	Flags          SectionFlag
	VirtualAddress Addr
	FileOffset     Off
	Size           Xword
	LinkedIndex    Word
	Info           Word
	Align          Xword
	EntrySize      Xword
}

// Section is a section header bound to the file it was read from.
type Section struct {
	ELF64SectionHeader
	Index int

	file *ELF64File
}

// SectionsTable is the ordered section header table of a file.
type SectionsTable struct {
	file    *ELF64File
	entries Table[ELF64SectionHeader]
}

// Len returns the number of section headers.
func (t SectionsTable) Len() int {
	return t.entries.Len()
}

// Section returns section i. It panics if i is outside [0, Len()).
func (t SectionsTable) Section(i int) *Section {
	return &Section{ELF64SectionHeader: t.entries.At(i), Index: i, file: t.file}
}

// Lookup returns section i, or ErrSectionIndex if there is no such section.
func (t SectionsTable) Lookup(i int) (*Section, error) {
	if i < 0 || i >= t.Len() {
		return nil, fmt.Errorf("section %d of %d: %w", i, t.Len(), ErrSectionIndex)
	}
	return t.Section(i), nil
}

// All returns every section in index order.
func (t SectionsTable) All() []*Section {
	sections := make([]*Section, t.Len())
	for i := range sections {
		sections[i] = t.Section(i)
	}
	return sections
}

// Data returns the bytes [sh_offset, sh_offset+sh_size) of s. SHT_NOBITS
// sections occupy no file space and yield an empty slice.
func (s *Section) Data() ([]byte, error) {
	if s.Type == SHT_NOBITS {
		return nil, nil
	}
	if err := checkRange(s.FileOffset, s.Size, len(s.file.Raw)); err != nil {
		return nil, fmt.Errorf("bad range for section %d: %w", s.Index, err)
	}
	end := s.FileOffset + s.Size
	return s.file.Raw[s.FileOffset:end:end], nil
}

// ResolveName returns the zero-terminated string starting at offset in the
// string table s. A string running into the end of the section is cut
// there. The offset one past the last byte names the empty string.
func (s *Section) ResolveName(offset Word) (string, error) {
	if s.Type != SHT_STRTAB {
		return "", fmt.Errorf("section %d is %s: %w", s.Index, s.Type, ErrNotStringTable)
	}
	content, err := s.Data()
	if err != nil {
		return "", err
	}
	if uint64(offset) > uint64(len(content)) {
		return "", fmt.Errorf("name offset %d past string table of %d bytes: %w",
			offset, len(content), ErrOutOfBounds)
	}

	name := content[offset:]
	if end := bytes.IndexByte(name, 0); end >= 0 {
		name = name[:end]
	}
	if !utf8.Valid(name) {
		return "", fmt.Errorf("name at offset %d: %w", offset, ErrInvalidText)
	}
	return string(name), nil
}

// TypedView reinterprets the bytes of s as records of type T, using the
// size of T as the stride. The section size must be a multiple of it.
func TypedView[T Record](s *Section) (Table[T], error) {
	size := recordSize[T]()
	if s.Type == SHT_NOBITS {
		return Table[T]{stride: size, order: s.file.Endianness}, nil
	}
	if s.Size%uint64(size) != 0 {
		return Table[T]{}, fmt.Errorf("section %d: %d bytes for %d-byte records: %w",
			s.Index, s.Size, size, ErrSizeNotMultiple)
	}
	return sectionTable[T](s, s.Size/uint64(size), size)
}

// EntryTable is TypedView for sections that declare an entry size, such as
// symbol and relocation tables. It fails unless sh_entsize equals the size
// of T, so a zero or foreign entry size never reaches the count.
func EntryTable[T Record](s *Section) (Table[T], error) {
	size := recordSize[T]()
	if s.EntrySize != uint64(size) {
		return Table[T]{}, fmt.Errorf("section %d declares %d-byte entries, want %d: %w",
			s.Index, s.EntrySize, size, ErrEntrySize)
	}
	if s.Type == SHT_NOBITS {
		return Table[T]{stride: size, order: s.file.Endianness}, nil
	}
	if s.Size%s.EntrySize != 0 {
		return Table[T]{}, fmt.Errorf("section %d: %d bytes for %d-byte entries: %w",
			s.Index, s.Size, s.EntrySize, ErrSizeNotMultiple)
	}
	return sectionTable[T](s, s.Size/s.EntrySize, size)
}

func sectionTable[T Record](s *Section, count uint64, stride int) (Table[T], error) {
	t, err := newTable[T](s.file.Raw, s.file.Endianness, s.FileOffset, count, stride)
	if err != nil {
		return Table[T]{}, fmt.Errorf("section %d: %w", s.Index, err)
	}
	return t, nil
}
