// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64core

// On-disk field widths of the ELF64 format.
type (
	Half         = uint16
	Word         = uint32
	Sword        = int32
	Xword        = uint64
	Sxword       = int64
	Addr         = uint64
	Off          = uint64
	SectionIndex = uint16
	Versym       = Half
)

const (
	EI_NIDENT = 16

	EI_MAG0       = 0
	EI_MAG1       = 1
	EI_MAG2       = 2
	EI_MAG3       = 3
	EI_CLASS      = 4
	EI_DATA       = 5
	EI_VERSION    = 6
	EI_OSABI      = 7
	EI_ABIVERSION = 8

	ELFCLASS64  = 2
	ELFDATA2LSB = 1
	ELFDATA2MSB = 2
)

// ELFMAG is the signature every ELF image starts with.
var ELFMAG = [4]byte{0x7f, 'E', 'L', 'F'}

// Fixed record sizes in bytes.
const (
	HeaderSize        = 64
	SectionHeaderSize = 64
	ProgramHeaderSize = 56
	SymbolSize        = 24
	RelaSize          = 24
	RelSize           = 16
	DynSize           = 16
)

// Special section indices.
const (
	SHN_UNDEF     SectionIndex = 0
	SHN_LORESERVE SectionIndex = 0xff00
	SHN_LOPROC    SectionIndex = 0xff00
	SHN_HIPROC    SectionIndex = 0xff1f
	SHN_LOOS      SectionIndex = 0xff20
	SHN_HIOS      SectionIndex = 0xff3f
	SHN_ABS       SectionIndex = 0xfff1
	SHN_COMMON    SectionIndex = 0xfff2
	SHN_XINDEX    SectionIndex = 0xffff
)

// Common section names.
const (
	TextSection     = ".text"
	DataSection     = ".data"
	RodataSection   = ".rodata"
	BssSection      = ".bss"
	ShstrtabSection = ".shstrtab"
	StrtabSection   = ".strtab"
	SymtabSection   = ".symtab"
)
