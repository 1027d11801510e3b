// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elftest

import (
	"debug/elf"
	"encoding/binary"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
)

// Addresses and sizes of the program laid out by Program.
const (
	TextAddr   = 0x401000
	MainAddr   = TextAddr
	MainSize   = 8
	HelperAddr = TextAddr + 0xb
	DataAddr   = 0x402000
	BssAddr    = DataAddr + 8
	BssSize    = 0x10
)

// ProgramText is main followed by helper:
//
//	401000: push %rbp
//	401001: call 40100b <helper>
//	401006: pop %rbp
//	401007: ret
//	401008: nop (x3)
//	40100b: xor %eax,%eax
//	40100d: ret
var ProgramText = []byte{
	0x55,
	0xe8, 0x05, 0x00, 0x00, 0x00,
	0x5d,
	0xc3,
	0x90, 0x90, 0x90,
	0x31, 0xc0,
	0xc3,
}

// Section indices of the program laid out by Program.
const (
	TextIndex = iota + 1
	DataIndex
	BssIndex
	SymtabIndex
	StrtabIndex
	RelaTextIndex
	NoteIndex
	DynstrIndex
	DynamicIndex
	ShstrtabIndex
)

// Program returns a builder for a small dynamically linked x86-64
// executable with code, data, symbols, a relocation, a build-id note and a
// dynamic table needing libc.so.6.
func Program() *Builder {
	order := binary.LittleEndian
	strtab, names := StringTable("main", "helper", "counter")
	dynstr, dynNames := StringTable("libc.so.6")

	symtab := Encode(order,
		elf64core.ELF64Symbol{},
		elf64core.ELF64Symbol{
			Info:  elf64core.SymbolInfo(elf64core.STB_LOCAL, elf64core.STT_SECTION),
			Shndx: TextIndex,
		},
		elf64core.ELF64Symbol{
			Name:  names["helper"],
			Info:  elf64core.SymbolInfo(elf64core.STB_LOCAL, elf64core.STT_FUNC),
			Shndx: TextIndex,
			Value: HelperAddr,
		},
		elf64core.ELF64Symbol{
			Name:  names["main"],
			Info:  elf64core.SymbolInfo(elf64core.STB_GLOBAL, elf64core.STT_FUNC),
			Shndx: TextIndex,
			Value: MainAddr,
			Size:  MainSize,
		},
		elf64core.ELF64Symbol{
			Name:  names["counter"],
			Info:  elf64core.SymbolInfo(elf64core.STB_GLOBAL, elf64core.STT_OBJECT),
			Shndx: DataIndex,
			Value: DataAddr,
			Size:  8,
		},
	)

	rela := Encode(order, elf64core.ELF64Rela{
		Offset: MainAddr + 2,
		Info:   elf64core.RelocationInfo(2, uint32(elf.R_X86_64_PLT32)),
		Addend: -4,
	})

	note := Encode(order, uint32(4), uint32(4), uint32(3))
	note = append(note, "GNU\x00"...)
	note = append(note, 0xde, 0xad, 0xbe, 0xef)

	dynamic := Encode(order,
		elf64core.ELF64Dyn{Tag: elf64core.DT_NEEDED, Value: uint64(dynNames["libc.so.6"])},
		elf64core.ELF64Dyn{Tag: elf64core.DT_NULL},
	)

	b := New()
	b.Entry = MainAddr
	b.AddSection(Section{Name: elf64core.TextSection, Type: elf64core.SHT_PROGBITS,
		Flags: elf64core.SHF_ALLOC | elf64core.SHF_EXECINSTR, Addr: TextAddr, Align: 16, Data: ProgramText})
	b.AddSection(Section{Name: elf64core.DataSection, Type: elf64core.SHT_PROGBITS,
		Flags: elf64core.SHF_ALLOC | elf64core.SHF_WRITE, Addr: DataAddr, Align: 8,
		Data: Encode(order, uint64(42))})
	b.AddSection(Section{Name: elf64core.BssSection, Type: elf64core.SHT_NOBITS,
		Flags: elf64core.SHF_ALLOC | elf64core.SHF_WRITE, Addr: BssAddr, Align: 8, Size: BssSize})
	b.AddSection(Section{Name: elf64core.SymtabSection, Type: elf64core.SHT_SYMTAB, Link: StrtabIndex,
		Info: 3, Align: 8, EntSize: elf64core.SymbolSize, Data: symtab})
	b.AddSection(Section{Name: elf64core.StrtabSection, Type: elf64core.SHT_STRTAB, Align: 1, Data: strtab})
	b.AddSection(Section{Name: ".rela.text", Type: elf64core.SHT_RELA, Link: SymtabIndex,
		Info: TextIndex, Align: 8, EntSize: elf64core.RelaSize, Data: rela})
	b.AddSection(Section{Name: ".note.gnu.build-id", Type: elf64core.SHT_NOTE,
		Align: 4, Data: note})
	b.AddSection(Section{Name: ".dynstr", Type: elf64core.SHT_STRTAB, Align: 1, Data: dynstr})
	b.AddSection(Section{Name: ".dynamic", Type: elf64core.SHT_DYNAMIC, Link: DynstrIndex,
		Align: 8, EntSize: elf64core.DynSize, Data: dynamic})

	b.AddSegment(Segment{Type: elf64core.PT_LOAD, Flags: elf64core.PF_R | elf64core.PF_X,
		Align: 0x1000, Sections: []int{TextIndex}})
	b.AddSegment(Segment{Type: elf64core.PT_LOAD, Flags: elf64core.PF_R | elf64core.PF_W,
		Align: 0x1000, Sections: []int{DataIndex, BssIndex}})
	b.AddSegment(Segment{Type: elf64core.PT_NOTE, Flags: elf64core.PF_R,
		Align: 4, Sections: []int{NoteIndex}})
	return b
}
