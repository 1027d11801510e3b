// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64core

import (
	"fmt"
	"strconv"
	"strings"
)

// band is an inclusive range of reserved values sharing a prefix.
type band struct {
	lo, hi uint64
	name   string
}

// stringify renders v from its name table, then from the reserved bands,
// and finally as a bare number. No value is rejected.
func stringify(v uint64, names map[uint64]string, bands []band) string {
	if s, ok := names[v]; ok {
		return s
	}
	for _, b := range bands {
		if v >= b.lo && v <= b.hi {
			return b.name + "+0x" + strconv.FormatUint(v-b.lo, 16)
		}
	}
	return strconv.FormatUint(v, 10)
}

func inBands(v uint64, bands []band, name string) bool {
	for _, b := range bands {
		if b.name == name && v >= b.lo && v <= b.hi {
			return true
		}
	}
	return false
}

// SectionType is the sh_type field.
type SectionType Word

const (
	SHT_NULL           SectionType = 0
	SHT_PROGBITS       SectionType = 1
	SHT_SYMTAB         SectionType = 2
	SHT_STRTAB         SectionType = 3
	SHT_RELA           SectionType = 4
	SHT_HASH           SectionType = 5
	SHT_DYNAMIC        SectionType = 6
	SHT_NOTE           SectionType = 7
	SHT_NOBITS         SectionType = 8
	SHT_REL            SectionType = 9
	SHT_SHLIB          SectionType = 10
	SHT_DYNSYM         SectionType = 11
	SHT_INIT_ARRAY     SectionType = 14
	SHT_FINI_ARRAY     SectionType = 15
	SHT_PREINIT_ARRAY  SectionType = 16
	SHT_GROUP          SectionType = 17
	SHT_SYMTAB_SHNDX   SectionType = 18
	SHT_LOOS           SectionType = 0x60000000
	SHT_GNU_ATTRIBUTES SectionType = 0x6ffffff5
	SHT_GNU_HASH       SectionType = 0x6ffffff6
	SHT_GNU_LIBLIST    SectionType = 0x6ffffff7
	SHT_CHECKSUM       SectionType = 0x6ffffff8
	SHT_GNU_VERDEF     SectionType = 0x6ffffffd
	SHT_GNU_VERNEED    SectionType = 0x6ffffffe
	SHT_GNU_VERSYM     SectionType = 0x6fffffff
	SHT_HIOS           SectionType = 0x6fffffff
	SHT_LOPROC         SectionType = 0x70000000
	SHT_HIPROC         SectionType = 0x7fffffff
	SHT_LOUSER         SectionType = 0x80000000
	SHT_HIUSER         SectionType = 0x8fffffff
)

var shtStrings = map[uint64]string{
	0:          "NULL",
	1:          "PROGBITS",
	2:          "SYMTAB",
	3:          "STRTAB",
	4:          "RELA",
	5:          "HASH",
	6:          "DYNAMIC",
	7:          "NOTE",
	8:          "NOBITS",
	9:          "REL",
	10:         "SHLIB",
	11:         "DYNSYM",
	14:         "INIT_ARRAY",
	15:         "FINI_ARRAY",
	16:         "PREINIT_ARRAY",
	17:         "GROUP",
	18:         "SYMTAB_SHNDX",
	0x6ffffff5: "GNU_ATTRIBUTES",
	0x6ffffff6: "GNU_HASH",
	0x6ffffff7: "GNU_LIBLIST",
	0x6ffffff8: "CHECKSUM",
	0x6ffffffd: "VERDEF",
	0x6ffffffe: "VERNEED",
	0x6fffffff: "VERSYM",
}

var shtBands = []band{
	{uint64(SHT_LOOS), uint64(SHT_HIOS), "LOOS"},
	{uint64(SHT_LOPROC), uint64(SHT_HIPROC), "LOPROC"},
	{uint64(SHT_LOUSER), uint64(SHT_HIUSER), "LOUSER"},
}

func (t SectionType) String() string {
	return stringify(uint64(t), shtStrings, shtBands)
}

// IsOSSpecific reports whether t lies in [SHT_LOOS, SHT_HIOS].
func (t SectionType) IsOSSpecific() bool { return inBands(uint64(t), shtBands, "LOOS") }

// IsProcessorSpecific reports whether t lies in [SHT_LOPROC, SHT_HIPROC].
func (t SectionType) IsProcessorSpecific() bool { return inBands(uint64(t), shtBands, "LOPROC") }

// SectionFlag is the sh_flags field.
type SectionFlag Xword

const (
	SHF_WRITE            SectionFlag = 0x1
	SHF_ALLOC            SectionFlag = 0x2
	SHF_EXECINSTR        SectionFlag = 0x4
	SHF_MERGE            SectionFlag = 0x10
	SHF_STRINGS          SectionFlag = 0x20
	SHF_INFO_LINK        SectionFlag = 0x40
	SHF_LINK_ORDER       SectionFlag = 0x80
	SHF_OS_NONCONFORMING SectionFlag = 0x100
	SHF_GROUP            SectionFlag = 0x200
	SHF_TLS              SectionFlag = 0x400
	SHF_COMPRESSED       SectionFlag = 0x800
	SHF_MASKOS           SectionFlag = 0x0ff00000
	SHF_MASKPROC         SectionFlag = 0xf0000000
)

var shfLetters = []struct {
	flag   SectionFlag
	letter byte
}{
	{SHF_WRITE, 'W'},
	{SHF_ALLOC, 'A'},
	{SHF_EXECINSTR, 'X'},
	{SHF_MERGE, 'M'},
	{SHF_STRINGS, 'S'},
	{SHF_INFO_LINK, 'I'},
	{SHF_LINK_ORDER, 'L'},
	{SHF_OS_NONCONFORMING, 'O'},
	{SHF_GROUP, 'G'},
	{SHF_TLS, 'T'},
	{SHF_COMPRESSED, 'C'},
	{SHF_MASKOS, 'o'},
	{SHF_MASKPROC, 'p'},
}

// String renders the flags with the usual one-letter key.
func (f SectionFlag) String() string {
	var b strings.Builder
	for _, l := range shfLetters {
		if f&l.flag != 0 {
			b.WriteByte(l.letter)
		}
	}
	return b.String()
}

// ProgType is the p_type field.
type ProgType Word

const (
	PT_NULL         ProgType = 0
	PT_LOAD         ProgType = 1
	PT_DYNAMIC      ProgType = 2
	PT_INTERP       ProgType = 3
	PT_NOTE         ProgType = 4
	PT_SHLIB        ProgType = 5
	PT_PHDR         ProgType = 6
	PT_TLS          ProgType = 7
	PT_LOOS         ProgType = 0x60000000
	PT_GNU_EH_FRAME ProgType = 0x6474e550
	PT_GNU_STACK    ProgType = 0x6474e551
	PT_GNU_RELRO    ProgType = 0x6474e552
	PT_GNU_PROPERTY ProgType = 0x6474e553
	PT_HIOS         ProgType = 0x6fffffff
	PT_LOPROC       ProgType = 0x70000000
	PT_HIPROC       ProgType = 0x7fffffff
)

var ptStrings = map[uint64]string{
	0:          "NULL",
	1:          "LOAD",
	2:          "DYNAMIC",
	3:          "INTERP",
	4:          "NOTE",
	5:          "SHLIB",
	6:          "PHDR",
	7:          "TLS",
	0x6474e550: "GNU_EH_FRAME",
	0x6474e551: "GNU_STACK",
	0x6474e552: "GNU_RELRO",
	0x6474e553: "GNU_PROPERTY",
}

var ptBands = []band{
	{uint64(PT_LOOS), uint64(PT_HIOS), "LOOS"},
	{uint64(PT_LOPROC), uint64(PT_HIPROC), "LOPROC"},
}

func (t ProgType) String() string {
	return stringify(uint64(t), ptStrings, ptBands)
}

// ProgFlag is the p_flags field.
type ProgFlag Word

const (
	PF_X        ProgFlag = 1 << 0
	PF_W        ProgFlag = 1 << 1
	PF_R        ProgFlag = 1 << 2
	PF_MASKOS   ProgFlag = 0x0ff00000
	PF_MASKPROC ProgFlag = 0xf0000000
)

// String renders the flags as readelf does, e.g. "R E".
func (f ProgFlag) String() string {
	b := []byte("   ")
	if f&PF_R != 0 {
		b[0] = 'R'
	}
	if f&PF_W != 0 {
		b[1] = 'W'
	}
	if f&PF_X != 0 {
		b[2] = 'E'
	}
	return string(b)
}

// SymBind is the high nibble of st_info.
type SymBind uint8

const (
	STB_LOCAL      SymBind = 0
	STB_GLOBAL     SymBind = 1
	STB_WEAK       SymBind = 2
	STB_LOOS       SymBind = 10
	STB_GNU_UNIQUE SymBind = 10
	STB_HIOS       SymBind = 12
	STB_LOPROC     SymBind = 13
	STB_HIPROC     SymBind = 15
)

var stbStrings = map[uint64]string{
	0:  "LOCAL",
	1:  "GLOBAL",
	2:  "WEAK",
	10: "UNIQUE",
}

var stbBands = []band{
	{uint64(STB_LOOS), uint64(STB_HIOS), "LOOS"},
	{uint64(STB_LOPROC), uint64(STB_HIPROC), "LOPROC"},
}

func (b SymBind) String() string {
	return stringify(uint64(b), stbStrings, stbBands)
}

// IsOSSpecific reports whether b lies in [STB_LOOS, STB_HIOS].
func (b SymBind) IsOSSpecific() bool { return inBands(uint64(b), stbBands, "LOOS") }

// IsProcessorSpecific reports whether b lies in [STB_LOPROC, STB_HIPROC].
func (b SymBind) IsProcessorSpecific() bool { return inBands(uint64(b), stbBands, "LOPROC") }

// SymType is the low nibble of st_info.
type SymType uint8

const (
	STT_NOTYPE    SymType = 0
	STT_OBJECT    SymType = 1
	STT_FUNC      SymType = 2
	STT_SECTION   SymType = 3
	STT_FILE      SymType = 4
	STT_COMMON    SymType = 5
	STT_TLS       SymType = 6
	STT_LOOS      SymType = 10
	STT_GNU_IFUNC SymType = 10
	STT_HIOS      SymType = 12
	STT_LOPROC    SymType = 13
	STT_HIPROC    SymType = 15
)

var sttStrings = map[uint64]string{
	0:  "NOTYPE",
	1:  "OBJECT",
	2:  "FUNC",
	3:  "SECTION",
	4:  "FILE",
	5:  "COMMON",
	6:  "TLS",
	10: "IFUNC",
}

var sttBands = []band{
	{uint64(STT_LOOS), uint64(STT_HIOS), "LOOS"},
	{uint64(STT_LOPROC), uint64(STT_HIPROC), "LOPROC"},
}

func (t SymType) String() string {
	return stringify(uint64(t), sttStrings, sttBands)
}

// IsOSSpecific reports whether t lies in [STT_LOOS, STT_HIOS].
func (t SymType) IsOSSpecific() bool { return inBands(uint64(t), sttBands, "LOOS") }

// IsProcessorSpecific reports whether t lies in [STT_LOPROC, STT_HIPROC].
func (t SymType) IsProcessorSpecific() bool { return inBands(uint64(t), sttBands, "LOPROC") }

// SymVis is the low two bits of st_other.
type SymVis uint8

const (
	STV_DEFAULT   SymVis = 0
	STV_INTERNAL  SymVis = 1
	STV_HIDDEN    SymVis = 2
	STV_PROTECTED SymVis = 3
)

func (v SymVis) String() string {
	switch v {
	case STV_DEFAULT:
		return "DEFAULT"
	case STV_INTERNAL:
		return "INTERNAL"
	case STV_HIDDEN:
		return "HIDDEN"
	case STV_PROTECTED:
		return "PROTECTED"
	}
	return strconv.Itoa(int(v))
}

// DynTag is the d_tag field of a dynamic entry.
type DynTag Sxword

const (
	DT_NULL     DynTag = 0
	DT_NEEDED   DynTag = 1
	DT_PLTRELSZ DynTag = 2
	DT_PLTGOT   DynTag = 3
	DT_HASH     DynTag = 4
	DT_STRTAB   DynTag = 5
	DT_SYMTAB   DynTag = 6
	DT_RELA     DynTag = 7
	DT_RELASZ   DynTag = 8
	DT_RELAENT  DynTag = 9
	DT_STRSZ    DynTag = 10
	DT_SYMENT   DynTag = 11
	DT_INIT     DynTag = 12
	DT_FINI     DynTag = 13
	DT_SONAME   DynTag = 14
	DT_RPATH    DynTag = 15
	DT_SYMBOLIC DynTag = 16
	DT_REL      DynTag = 17
	DT_RELSZ    DynTag = 18
	DT_RELENT   DynTag = 19
	DT_PLTREL   DynTag = 20
	DT_DEBUG    DynTag = 21
	DT_TEXTREL  DynTag = 22
	DT_JMPREL   DynTag = 23
	DT_BIND_NOW DynTag = 24
	DT_RUNPATH  DynTag = 29
	DT_FLAGS    DynTag = 30
	DT_LOOS     DynTag = 0x6000000d
	DT_HIOS     DynTag = 0x6ffff000
	DT_GNU_HASH DynTag = 0x6ffffef5
	DT_VERSYM   DynTag = 0x6ffffff0
	DT_FLAGS_1  DynTag = 0x6ffffffb
	DT_VERNEED  DynTag = 0x6ffffffe
	DT_LOPROC   DynTag = 0x70000000
	DT_HIPROC   DynTag = 0x7fffffff
)

var dtStrings = map[uint64]string{
	0:          "NULL",
	1:          "NEEDED",
	2:          "PLTRELSZ",
	3:          "PLTGOT",
	4:          "HASH",
	5:          "STRTAB",
	6:          "SYMTAB",
	7:          "RELA",
	8:          "RELASZ",
	9:          "RELAENT",
	10:         "STRSZ",
	11:         "SYMENT",
	12:         "INIT",
	13:         "FINI",
	14:         "SONAME",
	15:         "RPATH",
	16:         "SYMBOLIC",
	17:         "REL",
	18:         "RELSZ",
	19:         "RELENT",
	20:         "PLTREL",
	21:         "DEBUG",
	22:         "TEXTREL",
	23:         "JMPREL",
	24:         "BIND_NOW",
	29:         "RUNPATH",
	30:         "FLAGS",
	0x6ffffef5: "GNU_HASH",
	0x6ffffff0: "VERSYM",
	0x6ffffffb: "FLAGS_1",
	0x6ffffffe: "VERNEED",
}

var dtBands = []band{
	{uint64(DT_LOOS), uint64(DT_HIOS), "LOOS"},
	{uint64(DT_LOPROC), uint64(DT_HIPROC), "LOPROC"},
}

func (t DynTag) String() string {
	if t < 0 {
		return fmt.Sprintf("%d", int64(t))
	}
	return stringify(uint64(t), dtStrings, dtBands)
}
