// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

// Package elftest lays out small ELF64 images in memory for tests.
package elftest

import (
	"bytes"
	"encoding/binary"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
)

// Byte offsets of file header fields, for tests that corrupt them.
const (
	OffPhoff     = 0x20
	OffShoff     = 0x28
	OffPhentsize = 0x36
	OffPhnum     = 0x38
	OffShentsize = 0x3a
	OffShnum     = 0x3c
	OffShstrndx  = 0x3e
)

// Section describes one section to lay out. Size is only used for
// SHT_NOBITS sections; other sections take the length of Data.
type Section struct {
	Name       string
	NameOffset uint32
	Type       elf64core.SectionType
	Flags      elf64core.SectionFlag
	Addr       uint64
	Link       uint32
	Info       uint32
	Align      uint64
	EntSize    uint64
	Data       []byte
	Size       uint64
}

// Segment describes a program header covering the listed section indices.
type Segment struct {
	Type     elf64core.ProgType
	Flags    elf64core.ProgFlag
	Align    uint64
	Sections []int
}

// Builder accumulates sections and segments. Section 0 is the null section
// and the section name table is appended last.
type Builder struct {
	Order   binary.ByteOrder
	Type    uint16
	Machine uint16
	Entry   uint64

	// Names, when set, is used verbatim as the section name table and
	// every section is named by its NameOffset.
	Names []byte

	sections []Section
	segments []Segment
}

// New returns a little-endian builder for an x86-64 executable.
func New() *Builder {
	return &Builder{Order: binary.LittleEndian, Type: 2, Machine: 62}
}

// AddSection appends s and returns its section index.
func (b *Builder) AddSection(s Section) int {
	b.sections = append(b.sections, s)
	return len(b.sections)
}

// AddSegment appends a program header.
func (b *Builder) AddSegment(p Segment) {
	b.segments = append(b.segments, p)
}

func alignUp(n, a uint64) uint64 {
	if a <= 1 {
		return n
	}
	return (n + a - 1) / a * a
}

// Bytes lays out the image: header, program headers, section contents,
// the name table and finally the section header table.
func (b *Builder) Bytes() []byte {
	names := b.Names
	offsets := make(map[string]uint32)
	nameOf := func(s Section) uint32 { return s.NameOffset }
	if names == nil {
		names = []byte{0}
		intern := func(name string) uint32 {
			if off, ok := offsets[name]; ok {
				return off
			}
			off := uint32(len(names))
			names = append(append(names, name...), 0)
			offsets[name] = off
			return off
		}
		for _, s := range b.sections {
			intern(s.Name)
		}
		intern(elf64core.ShstrtabSection)
		nameOf = func(s Section) uint32 { return offsets[s.Name] }
	}

	all := append([]Section{{}}, b.sections...)
	all = append(all, Section{
		Name:       elf64core.ShstrtabSection,
		NameOffset: uint32(len(names)) - 1,
		Type:       elf64core.SHT_STRTAB,
		Align:      1,
		Data:       names,
	})

	headers := make([]elf64core.ELF64SectionHeader, len(all))
	pos := uint64(elf64core.HeaderSize + elf64core.ProgramHeaderSize*len(b.segments))
	var body bytes.Buffer
	base := pos
	for i := 1; i < len(all); i++ {
		s := all[i]
		pos = alignUp(pos, s.Align)
		size := uint64(len(s.Data))
		if s.Type == elf64core.SHT_NOBITS {
			size = s.Size
		}
		headers[i] = elf64core.ELF64SectionHeader{
			Name:           nameOf(s),
			Type:           s.Type,
			Flags:          s.Flags,
			VirtualAddress: s.Addr,
			FileOffset:     pos,
			Size:           size,
			LinkedIndex:    s.Link,
			Info:           s.Info,
			Align:          s.Align,
			EntrySize:      s.EntSize,
		}
		if s.Type != elf64core.SHT_NOBITS {
			body.Write(make([]byte, pos-base-uint64(body.Len())))
			body.Write(s.Data)
			pos += size
		}
	}
	pos = alignUp(base+uint64(body.Len()), 8)
	body.Write(make([]byte, pos-base-uint64(body.Len())))
	shoff := pos

	header := elf64core.ELF64Header{
		Type:                   b.Type,
		Machine:                b.Machine,
		Version:                1,
		EntryPoint:             b.Entry,
		SectionHeaderOffset:    shoff,
		HeaderSize:             elf64core.HeaderSize,
		SectionHeaderEntrySize: elf64core.SectionHeaderSize,
		SectionHeaderEntries:   uint16(len(all)),
		SectionNamesTable:      uint16(len(all) - 1),
	}
	copy(header.Ident[:], elf64core.ELFMAG[:])
	header.Ident[elf64core.EI_CLASS] = elf64core.ELFCLASS64
	header.Ident[elf64core.EI_DATA] = elf64core.ELFDATA2LSB
	if b.Order == binary.BigEndian {
		header.Ident[elf64core.EI_DATA] = elf64core.ELFDATA2MSB
	}
	header.Ident[elf64core.EI_VERSION] = 1
	if len(b.segments) > 0 {
		header.ProgramHeaderOffset = elf64core.HeaderSize
		header.ProgramHeaderEntrySize = elf64core.ProgramHeaderSize
		header.ProgramHeaderEntries = uint16(len(b.segments))
	}

	var out bytes.Buffer
	write(&out, b.Order, header)
	for _, p := range b.segments {
		write(&out, b.Order, b.programHeader(p, headers))
	}
	out.Write(body.Bytes())
	for _, h := range headers {
		write(&out, b.Order, h)
	}
	return out.Bytes()
}

func (b *Builder) programHeader(p Segment, headers []elf64core.ELF64SectionHeader) elf64core.ELF64ProgramHeader {
	ph := elf64core.ELF64ProgramHeader{Type: p.Type, Flags: p.Flags, Align: p.Align}
	for i, idx := range p.Sections {
		h := headers[idx]
		fileEnd := h.FileOffset
		if h.Type != elf64core.SHT_NOBITS {
			fileEnd += h.Size
		}
		if i == 0 {
			ph.FileOffset, ph.VirtualAddress = h.FileOffset, h.VirtualAddress
		}
		if h.FileOffset < ph.FileOffset {
			ph.FileOffset = h.FileOffset
		}
		if h.VirtualAddress < ph.VirtualAddress {
			ph.VirtualAddress = h.VirtualAddress
		}
		if fileEnd-ph.FileOffset > ph.FileSize {
			ph.FileSize = fileEnd - ph.FileOffset
		}
		if h.VirtualAddress+h.Size-ph.VirtualAddress > ph.MemorySize {
			ph.MemorySize = h.VirtualAddress + h.Size - ph.VirtualAddress
		}
	}
	ph.PhysicalAddress = ph.VirtualAddress
	return ph
}

func write(buf *bytes.Buffer, order binary.ByteOrder, v interface{}) {
	if err := binary.Write(buf, order, v); err != nil {
		panic(err)
	}
}

// Encode serialises records back to back.
func Encode(order binary.ByteOrder, records ...interface{}) []byte {
	var buf bytes.Buffer
	for _, r := range records {
		write(&buf, order, r)
	}
	return buf.Bytes()
}

// StringTable returns a string table holding strs after the leading empty
// string, and the offset of each string.
func StringTable(strs ...string) ([]byte, map[string]uint32) {
	table := []byte{0}
	offsets := map[string]uint32{"": 0}
	for _, s := range strs {
		if _, ok := offsets[s]; ok {
			continue
		}
		offsets[s] = uint32(len(table))
		table = append(append(table, s...), 0)
	}
	return table, offsets
}
