// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64core

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ELF64Header is the on-disk file header.
type ELF64Header struct {
	Ident                  [EI_NIDENT]byte
	Type                   Half
	Machine                Half
	Version                Word
	EntryPoint             Addr
	ProgramHeaderOffset    Off
	SectionHeaderOffset    Off
	Flags                  Word
	HeaderSize             Half
	ProgramHeaderEntrySize Half
	ProgramHeaderEntries   Half
	SectionHeaderEntrySize Half
	SectionHeaderEntries   Half
	SectionNamesTable      Half
}

// ELF64File is a validated ELF64 image held in Raw. Raw is owned by the
// caller and must not be modified while the file or any view derived from
// it is in use. Nothing is cached: every table is decoded from Raw on
// demand.
type ELF64File struct {
	Name       string
	Raw        []byte
	Header     ELF64Header
	Endianness binary.ByteOrder
}

// ValidateIdent checks the identification block of raw: the signature,
// the 64-bit class and a known data encoding. It returns the byte order
// the rest of the file is encoded with.
func ValidateIdent(raw []byte) (binary.ByteOrder, error) {
	if len(raw) < len(ELFMAG) || !bytes.Equal(raw[:len(ELFMAG)], ELFMAG[:]) {
		return nil, ErrBadMagic
	}
	if len(raw) < HeaderSize {
		return nil, fmt.Errorf("%d bytes: %w", len(raw), ErrTruncated)
	}
	if raw[EI_CLASS] != ELFCLASS64 {
		return nil, fmt.Errorf("class %d: %w", raw[EI_CLASS], ErrBadClass)
	}
	switch raw[EI_DATA] {
	case ELFDATA2LSB:
		return binary.LittleEndian, nil
	case ELFDATA2MSB:
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("encoding %d: %w", raw[EI_DATA], ErrBadEncoding)
}

// ParseELF64File validates raw and decodes its file header. This is the
// only place the signature is checked; every accessor on the returned file
// trusts it.
func ParseELF64File(raw []byte) (*ELF64File, error) {
	order, err := ValidateIdent(raw)
	if err != nil {
		return nil, err
	}

	elfFile := &ELF64File{Raw: raw, Endianness: order}
	if _, err := binary.Decode(raw[:HeaderSize], order, &elfFile.Header); err != nil {
		return nil, fmt.Errorf("failed reading elf64 header: %w", err)
	}
	return elfFile, nil
}

// firstSection decodes section header 0, which holds the extended section
// count and name table index.
func (elfFile *ELF64File) firstSection() (ELF64SectionHeader, error) {
	t, err := newTable[ELF64SectionHeader](elfFile.Raw, elfFile.Endianness,
		elfFile.Header.SectionHeaderOffset, 1, int(elfFile.Header.SectionHeaderEntrySize))
	if err != nil {
		return ELF64SectionHeader{}, fmt.Errorf("section header 0: %w", err)
	}
	return t.At(0), nil
}

// sectionCount returns e_shnum, or the extended count from section 0 when
// e_shnum is zero.
func (elfFile *ELF64File) sectionCount() (uint64, error) {
	h := elfFile.Header
	if h.SectionHeaderEntries != 0 || h.SectionHeaderOffset == 0 {
		return uint64(h.SectionHeaderEntries), nil
	}
	first, err := elfFile.firstSection()
	if err != nil {
		return 0, err
	}
	return first.Size, nil
}

// SectionsTable returns the section header table located at e_shoff.
func (elfFile *ELF64File) SectionsTable() (SectionsTable, error) {
	count, err := elfFile.sectionCount()
	if err != nil {
		return SectionsTable{}, err
	}
	entries, err := newTable[ELF64SectionHeader](elfFile.Raw, elfFile.Endianness,
		elfFile.Header.SectionHeaderOffset, count, int(elfFile.Header.SectionHeaderEntrySize))
	if err != nil {
		return SectionsTable{}, fmt.Errorf("invalid section header table: %w", err)
	}
	return SectionsTable{file: elfFile, entries: entries}, nil
}

// SegmentsTable is the program header table.
type SegmentsTable = Table[ELF64ProgramHeader]

// SegmentsTable returns the program header table located at e_phoff.
func (elfFile *ELF64File) SegmentsTable() (SegmentsTable, error) {
	h := elfFile.Header
	t, err := newTable[ELF64ProgramHeader](elfFile.Raw, elfFile.Endianness,
		h.ProgramHeaderOffset, uint64(h.ProgramHeaderEntries), int(h.ProgramHeaderEntrySize))
	if err != nil {
		return SegmentsTable{}, fmt.Errorf("invalid program header table: %w", err)
	}
	return t, nil
}

// SectionNamesTable returns the section at e_shstrndx, the string table
// holding every section name.
func (elfFile *ELF64File) SectionNamesTable() (*Section, error) {
	index := elfFile.Header.SectionNamesTable
	if index == SHN_XINDEX {
		first, err := elfFile.firstSection()
		if err != nil {
			return nil, err
		}
		if first.LinkedIndex > 0xffff {
			return nil, fmt.Errorf("extended name table index %d: %w", first.LinkedIndex, ErrSectionIndex)
		}
		index = SectionIndex(first.LinkedIndex)
	}
	if index == SHN_UNDEF {
		return nil, ErrNoSectionNames
	}

	sections, err := elfFile.SectionsTable()
	if err != nil {
		return nil, err
	}
	return sections.Lookup(int(index))
}

// SectionName resolves the name of s through the section name table.
func (elfFile *ELF64File) SectionName(s *Section) (string, error) {
	names, err := elfFile.SectionNamesTable()
	if err != nil {
		return "", err
	}
	return names.ResolveName(s.Name)
}

// FindSection returns the first section, by index, whose name is name.
// It returns ErrSectionNotFound when no section matches.
func (elfFile *ELF64File) FindSection(name string) (*Section, error) {
	sections, err := elfFile.SectionsTable()
	if err != nil {
		return nil, err
	}
	names, err := elfFile.SectionNamesTable()
	if err != nil {
		return nil, err
	}

	for i := 0; i < sections.Len(); i++ {
		s := sections.Section(i)
		sectionName, err := names.ResolveName(s.Name)
		if err != nil {
			return nil, fmt.Errorf("name of section %d: %w", i, err)
		}
		if sectionName == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrSectionNotFound)
}

// SegmentContent returns the file bytes of p, [p_offset, p_offset+p_filesz).
func (elfFile *ELF64File) SegmentContent(p ELF64ProgramHeader) ([]byte, error) {
	if err := checkRange(p.FileOffset, p.FileSize, len(elfFile.Raw)); err != nil {
		return nil, fmt.Errorf("bad segment range: %w", err)
	}
	end := p.FileOffset + p.FileSize
	return elfFile.Raw[p.FileOffset:end:end], nil
}
